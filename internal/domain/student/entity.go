// Package student содержит доменную модель студента.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/course"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION
// ══════════════════════════════════════════════════════════════════════════════

// Registration - запись студента на курс с оценкой.
// Кредиты и максимальный балл копируются из курса в момент записи.
type Registration struct {
	// Grade - сырая оценка за курс.
	Grade float64

	// Credits - вес курса на момент записи.
	Credits course.Credits

	// MaxScore - максимальный балл курса (course.NoMaxScore, если не задан).
	MaxScore course.MaxScore
}

// NewRegistration создаёт запись на курс с проверкой оценки.
func NewRegistration(grade float64, c course.Course) (Registration, error) {
	if math.IsNaN(grade) || math.IsInf(grade, 0) || grade < 0 {
		return Registration{}, shared.ErrInvalidGrade
	}

	return Registration{
		Grade:    grade,
		Credits:  c.Credits,
		MaxScore: c.MaxScore,
	}, nil
}

// Percentage возвращает оценку в процентах.
// Без максимального балла оценка уже считается процентной.
func (r Registration) Percentage() float64 {
	if !r.MaxScore.IsSet() {
		return r.Grade
	}
	return r.Grade / float64(r.MaxScore) * 100
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - студент с его записями на курсы и кешированным GPA.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Email - уникальный ключ студента в реестре.
	Email string

	// Names - отображаемое имя.
	Names string

	// Registrations - записи на курсы, ключ - название курса.
	Registrations map[string]Registration

	// GPA - кешированный средний балл, пересчитывается после каждой записи.
	GPA float64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// NormalizeEmail приводит email к виду, под которым он хранится в реестре.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID    string
	Email string
	Names string
}

// NewStudent создаёт нового студента с валидацией всех полей.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrEmptyValue, "student id is required")
	}

	email := NormalizeEmail(params.Email)
	if !isValidEmail(email) {
		return nil, shared.ErrInvalidEmail
	}

	names := strings.TrimSpace(params.Names)
	if names == "" {
		return nil, shared.ErrInvalidNames
	}

	now := time.Now().UTC()

	return &Student{
		ID:            params.ID,
		Email:         email,
		Names:         names,
		Registrations: make(map[string]Registration),
		GPA:           0.0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func isValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n\r") {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Register записывает студента на курс и пересчитывает GPA.
// Повторная запись на тот же курс заменяет предыдущую.
func (s *Student) Register(courseName string, reg Registration, policy Policy) {
	s.Registrations[courseName] = reg
	s.RecalculateGPA(policy)
}

// RecalculateGPA пересчитывает и сохраняет GPA по указанной политике.
func (s *Student) RecalculateGPA(policy Policy) {
	s.GPA = policy.Calculate(s.Registrations)
	s.UpdatedAt = time.Now().UTC()
}

// Registration возвращает запись на курс, если она есть.
func (s *Student) Registration(courseName string) (Registration, bool) {
	reg, ok := s.Registrations[courseName]
	return reg, ok
}

// CourseNames возвращает названия курсов студента в алфавитном порядке.
func (s *Student) CourseNames() []string {
	return sortedCourseNames(s.Registrations)
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Email: %s, Courses: %d, GPA: %.2f}",
		s.ID, s.Email, len(s.Registrations), s.GPA,
	)
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Registrations = make(map[string]Registration, len(s.Registrations))
	for name, reg := range s.Registrations {
		clone.Registrations[name] = reg
	}
	return &clone
}

func sortedCourseNames(regs map[string]Registration) []string {
	names := make([]string, 0, len(regs))
	for name := range regs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
