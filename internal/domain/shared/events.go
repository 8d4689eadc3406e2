package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each one is published after a successful change
// to the grade book; failed operations publish nothing.
const (
	EventStudentAdded    EventType = "student.added"
	EventCourseAdded     EventType = "course.added"
	EventGradeRecorded   EventType = "student.grade_recorded"
	EventGPARecalculated EventType = "gradebook.gpa_recalculated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the key of the entity that changed
	// (student email or course name).
	AggregateID() string

	// Payload returns the event data as a map for logging.
	Payload() map[string]any
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   at,
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Grade Book Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentAddedEvent is published when a student joins the grade book.
type StudentAddedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Names     string `json:"names"`
}

// Payload implements Event interface.
func (e StudentAddedEvent) Payload() map[string]any {
	return map[string]any{
		"student_id": e.StudentID,
		"email":      e.Email,
		"names":      e.Names,
	}
}

// NewStudentAddedEvent creates a StudentAddedEvent.
func NewStudentAddedEvent(studentID, email, names string, at time.Time) StudentAddedEvent {
	return StudentAddedEvent{
		BaseEvent: NewBaseEvent(EventStudentAdded, email, at),
		StudentID: studentID,
		Email:     email,
		Names:     names,
	}
}

// CourseAddedEvent is published when a course is added to the catalog.
type CourseAddedEvent struct {
	BaseEvent
	Name      string  `json:"name"`
	Trimester string  `json:"trimester"`
	Credits   float64 `json:"credits"`
	MaxScore  float64 `json:"max_score,omitempty"`
}

// Payload implements Event interface.
func (e CourseAddedEvent) Payload() map[string]any {
	return map[string]any{
		"name":      e.Name,
		"trimester": e.Trimester,
		"credits":   e.Credits,
		"max_score": e.MaxScore,
	}
}

// NewCourseAddedEvent creates a CourseAddedEvent.
func NewCourseAddedEvent(name, trimester string, credits, maxScore float64, at time.Time) CourseAddedEvent {
	return CourseAddedEvent{
		BaseEvent: NewBaseEvent(EventCourseAdded, name, at),
		Name:      name,
		Trimester: trimester,
		Credits:   credits,
		MaxScore:  maxScore,
	}
}

// GradeRecordedEvent is published when a student is registered for a course.
type GradeRecordedEvent struct {
	BaseEvent
	Email    string  `json:"email"`
	Course   string  `json:"course"`
	Grade    float64 `json:"grade"`
	GPA      float64 `json:"gpa"`
	Replaced bool    `json:"replaced"`
}

// Payload implements Event interface.
func (e GradeRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"email":    e.Email,
		"course":   e.Course,
		"grade":    e.Grade,
		"gpa":      e.GPA,
		"replaced": e.Replaced,
	}
}

// NewGradeRecordedEvent creates a GradeRecordedEvent.
// Replaced is true when an earlier grade for the same course was overwritten.
func NewGradeRecordedEvent(email, course string, grade, gpa float64, replaced bool, at time.Time) GradeRecordedEvent {
	return GradeRecordedEvent{
		BaseEvent: NewBaseEvent(EventGradeRecorded, email, at),
		Email:     email,
		Course:    course,
		Grade:     grade,
		GPA:       gpa,
		Replaced:  replaced,
	}
}

// GPARecalculatedEvent is published after every student's GPA is recomputed.
type GPARecalculatedEvent struct {
	BaseEvent
	Students int    `json:"students"`
	Policy   string `json:"policy"`
}

// Payload implements Event interface.
func (e GPARecalculatedEvent) Payload() map[string]any {
	return map[string]any{
		"students": e.Students,
		"policy":   e.Policy,
	}
}

// NewGPARecalculatedEvent creates a GPARecalculatedEvent.
func NewGPARecalculatedEvent(students int, policy string, at time.Time) GPARecalculatedEvent {
	return GPARecalculatedEvent{
		BaseEvent: NewBaseEvent(EventGPARecalculated, "gradebook", at),
		Students:  students,
		Policy:    policy,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
