package gradebook

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGradeBook(t *testing.T, opts ...Option) *GradeBook {
	t.Helper()
	seq := 0
	base := []Option{
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("student-%d", seq)
		}),
		WithClock(func() time.Time {
			return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
		}),
	}
	return New(append(base, opts...)...)
}

func mustAddStudent(t *testing.T, g *GradeBook, email, names string) {
	t.Helper()
	_, err := g.AddStudent(email, names)
	require.NoError(t, err)
}

func mustAddCourse(t *testing.T, g *GradeBook, name string, credits, maxScore float64) {
	t.Helper()
	_, err := g.AddCourse(name, "T1", credits, maxScore)
	require.NoError(t, err)
}

func mustRegister(t *testing.T, g *GradeBook, email, courseName string, grade float64) {
	t.Helper()
	_, err := g.RegisterStudentForCourse(email, courseName, grade)
	require.NoError(t, err)
}

func TestAddStudent(t *testing.T) {
	g := newTestGradeBook(t)

	s, err := g.AddStudent("alice@example.com", "Alice Doe")
	require.NoError(t, err)

	assert.Equal(t, "student-1", s.ID)
	assert.Equal(t, "alice@example.com", s.Email)
	assert.Equal(t, "Alice Doe", s.Names)
	assert.Empty(t, s.Registrations)
	assert.Equal(t, 0.0, s.GPA)
}

func TestNew_GeneratesUUIDs(t *testing.T) {
	g := New()

	s, err := g.AddStudent("alice@example.com", "Alice")
	require.NoError(t, err)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, student.PolicyPercentage, g.Policy().Name())
}

func TestAddStudent_DuplicateEmailLeavesRegistryUnchanged(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice Doe")

	_, err := g.AddStudent("alice@example.com", "Someone Else")

	assert.True(t, errors.Is(err, shared.ErrDuplicateStudent))
	students := g.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "Alice Doe", students[0].Names)
}

func TestAddCourse_DuplicateName(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "Math", 3, 100)

	_, err := g.AddCourse("Math", "T2", 4, 50)

	assert.True(t, errors.Is(err, shared.ErrDuplicateCourse))
	c, err := g.Course("Math")
	require.NoError(t, err)
	assert.Equal(t, "T1", c.Trimester)
	assert.Len(t, g.Courses(), 1)
}

func TestAddCourse_Validation(t *testing.T) {
	g := newTestGradeBook(t)

	_, err := g.AddCourse("Math", "T1", 0, 100)
	assert.True(t, errors.Is(err, shared.ErrInvalidCredits))
	assert.Empty(t, g.Courses())
}

func TestRegister_UnknownStudent(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "Math", 3, 100)

	_, err := g.RegisterStudentForCourse("ghost@example.com", "Math", 90)

	assert.True(t, errors.Is(err, shared.ErrStudentNotFound))
}

func TestRegister_UnknownCourseDoesNotMutate(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")

	_, err := g.RegisterStudentForCourse("alice@example.com", "Physics", 90)

	assert.True(t, errors.Is(err, shared.ErrCourseNotFound))
	s, _ := g.Student("alice@example.com")
	assert.Empty(t, s.Registrations)
	assert.Equal(t, 0.0, s.GPA)
}

func TestRegister_StudentCheckedBeforeCourse(t *testing.T) {
	g := newTestGradeBook(t)

	_, err := g.RegisterStudentForCourse("ghost@example.com", "Physics", 90)

	assert.True(t, errors.Is(err, shared.ErrStudentNotFound))
}

func TestRegister_InvalidGradeDoesNotMutate(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "Math", 3, 100)
	mustRegister(t, g, "alice@example.com", "Math", 95)

	_, err := g.RegisterStudentForCourse("alice@example.com", "Math", -5)

	assert.True(t, errors.Is(err, shared.ErrInvalidGrade))
	s, _ := g.Student("alice@example.com")
	assert.Equal(t, 95.0, s.Registrations["Math"].Grade)
	assert.Equal(t, 4.0, s.GPA)
}

func TestRegister_ComputesWeightedGPA(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)

	mustRegister(t, g, "alice@example.com", "A", 95)
	s, err := g.RegisterStudentForCourse("alice@example.com", "B", 65)
	require.NoError(t, err)

	assert.InDelta(t, 2.8, s.GPA, 1e-9)
	stored, _ := g.Student("alice@example.com")
	assert.InDelta(t, 2.8, stored.GPA, 1e-9)
}

func TestRegister_ReRegistrationReplacesEntry(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)
	mustRegister(t, g, "alice@example.com", "A", 95)
	mustRegister(t, g, "alice@example.com", "B", 65)

	s, err := g.RegisterStudentForCourse("alice@example.com", "B", 85)
	require.NoError(t, err)

	assert.Len(t, s.Registrations, 2)
	assert.Equal(t, 85.0, s.Registrations["B"].Grade)
	// (4.0*3 + 3.0*2) / 5
	assert.InDelta(t, 3.6, s.GPA, 1e-9)
}

func TestRegister_DoesNotTouchOtherStudents(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddStudent(t, g, "bob@example.com", "Bob")
	mustAddCourse(t, g, "A", 3, 100)

	mustRegister(t, g, "alice@example.com", "A", 95)

	bob, _ := g.Student("bob@example.com")
	assert.Empty(t, bob.Registrations)
	assert.Equal(t, 0.0, bob.GPA)
}

func TestRegister_CourseWithoutMaxScoreUsesGradeAsPercentage(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "Essay", 2, 0)

	s, err := g.RegisterStudentForCourse("alice@example.com", "Essay", 72)
	require.NoError(t, err)

	assert.Equal(t, 2.0, s.GPA)
}

func TestRegister_GradeAboveMaxScoreMapsToTopBucket(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "Quiz", 1, 20)

	s, err := g.RegisterStudentForCourse("alice@example.com", "Quiz", 25)
	require.NoError(t, err)

	assert.Equal(t, 4.0, s.GPA)
}

func TestRawAveragePolicy(t *testing.T) {
	g := newTestGradeBook(t, WithPolicy(student.RawAveragePolicy{}))
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)
	mustRegister(t, g, "alice@example.com", "A", 95)

	s, err := g.RegisterStudentForCourse("alice@example.com", "B", 65)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, s.GPA, 1e-9)
	assert.Equal(t, student.PolicyRawAverage, g.Policy().Name())
}

func TestZeroRegistrationsGiveZeroGPA(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddStudent(t, g, "alice@example.com", "Alice")

	g.CalculateGPAForAllStudents()

	s, _ := g.Student("alice@example.com")
	assert.Equal(t, 0.0, s.GPA)
}

func TestCalculateGPAForAllStudents_Idempotent(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 1.5, 40)
	mustAddCourse(t, g, "C", 2.25, 0)
	for i, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		mustAddStudent(t, g, email, "Student")
		mustRegister(t, g, email, "A", float64(60+i*13))
		mustRegister(t, g, email, "B", float64(25+i*6))
		mustRegister(t, g, email, "C", float64(91-i*11))
	}

	g.CalculateGPAForAllStudents()
	first := gpas(g)
	g.CalculateGPAForAllStudents()
	second := gpas(g)

	assert.Equal(t, first, second)
}

func gpas(g *GradeBook) []float64 {
	var result []float64
	for _, s := range g.Students() {
		result = append(result, s.GPA)
	}
	return result
}

func TestCalculateRanking_StableOnTies(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)

	// first and second end with GPA 2.8, third with 4.0
	mustAddStudent(t, g, "first@example.com", "First")
	mustAddStudent(t, g, "second@example.com", "Second")
	mustAddStudent(t, g, "third@example.com", "Third")
	for _, email := range []string{"first@example.com", "second@example.com"} {
		mustRegister(t, g, email, "A", 95)
		mustRegister(t, g, email, "B", 65)
	}
	mustRegister(t, g, "third@example.com", "A", 99)

	ranking := g.CalculateRanking()

	require.Len(t, ranking, 3)
	assert.Equal(t, "third@example.com", ranking[0].Student.Email)
	assert.Equal(t, "first@example.com", ranking[1].Student.Email)
	assert.Equal(t, "second@example.com", ranking[2].Student.Email)
	assert.Equal(t, []int{1, 2, 3}, []int{ranking[0].Position, ranking[1].Position, ranking[2].Position})
}

func TestCalculateRanking_ManyTiesKeepInsertionOrder(t *testing.T) {
	g := newTestGradeBook(t)
	var emails []string
	for i := 0; i < 40; i++ {
		email := fmt.Sprintf("s%02d@example.com", i)
		emails = append(emails, email)
		mustAddStudent(t, g, email, "Student")
	}

	ranking := g.CalculateRanking()

	require.Len(t, ranking, len(emails))
	for i, entry := range ranking {
		assert.Equal(t, emails[i], entry.Student.Email)
	}
}

func TestCalculateRanking_Empty(t *testing.T) {
	assert.Empty(t, newTestGradeBook(t).CalculateRanking())
}

func TestSearchByGrade(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)
	mustAddStudent(t, g, "low@example.com", "Low")
	mustAddStudent(t, g, "edge@example.com", "Edge")
	mustAddStudent(t, g, "top@example.com", "Top")
	mustAddStudent(t, g, "other@example.com", "Other")
	mustRegister(t, g, "low@example.com", "A", 89.5)
	mustRegister(t, g, "edge@example.com", "A", 90)
	mustRegister(t, g, "top@example.com", "A", 100)
	mustRegister(t, g, "other@example.com", "B", 95)

	found := g.SearchByGrade("A", 90, 100)

	require.Len(t, found, 2)
	assert.Equal(t, "edge@example.com", found[0].Email)
	assert.Equal(t, "top@example.com", found[1].Email)
}

func TestSearchByGrade_NoMatches(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustRegister(t, g, "alice@example.com", "A", 50)

	assert.Empty(t, g.SearchByGrade("A", 90, 100))
	assert.Empty(t, g.SearchByGrade("Unknown", 0, 100))
	assert.Empty(t, g.SearchByGrade("A", 60, 40))
	assert.NotNil(t, g.SearchByGrade("A", 60, 40))
}

func TestGenerateTranscript(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	_, err := g.AddCourse("B", "T2", 2, 50)
	require.NoError(t, err)
	mustAddStudent(t, g, "alice@example.com", "Alice Doe")
	mustRegister(t, g, "alice@example.com", "B", 40)
	mustRegister(t, g, "alice@example.com", "A", 95)

	tr, err := g.GenerateTranscript("alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "student-1", tr.StudentID)
	assert.Equal(t, "alice@example.com", tr.Email)
	assert.Equal(t, "Alice Doe", tr.Names)
	// A: 95% -> 4.0 * 3, B: 80% -> 3.0 * 2
	assert.InDelta(t, 3.6, tr.GPA, 1e-9)
	assert.Equal(t, student.PolicyPercentage, tr.Policy)
	assert.Equal(t, time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC), tr.GeneratedAt)
	require.Len(t, tr.Courses, 2)
	assert.Equal(t, "A", tr.Courses[0].Course)
	assert.Equal(t, "T1", tr.Courses[0].Trimester)
	assert.Equal(t, 95.0, tr.Courses[0].Grade)
	assert.Equal(t, 3.0, tr.Courses[0].Credits)
	assert.Equal(t, 100.0, tr.Courses[0].MaxScore)
	assert.InDelta(t, 95.0, tr.Courses[0].Percentage, 1e-9)
	assert.Equal(t, "B", tr.Courses[1].Course)
	assert.Equal(t, "T2", tr.Courses[1].Trimester)
	assert.Equal(t, 50.0, tr.Courses[1].MaxScore)
	assert.InDelta(t, 80.0, tr.Courses[1].Percentage, 1e-9)
}

func TestGenerateTranscript_IsSnapshot(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddCourse(t, g, "B", 2, 100)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustRegister(t, g, "alice@example.com", "A", 95)

	tr, err := g.GenerateTranscript("alice@example.com")
	require.NoError(t, err)

	mustRegister(t, g, "alice@example.com", "A", 10)
	mustRegister(t, g, "alice@example.com", "B", 65)

	assert.Equal(t, 4.0, tr.GPA)
	require.Len(t, tr.Courses, 1)
	assert.Equal(t, "A", tr.Courses[0].Course)
	assert.Equal(t, 95.0, tr.Courses[0].Grade)
}

func TestGenerateTranscript_NotFound(t *testing.T) {
	_, err := newTestGradeBook(t).GenerateTranscript("ghost@example.com")

	assert.True(t, errors.Is(err, shared.ErrStudentNotFound))
}

func TestReturnedStudentsAreCopies(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "A", 3, 100)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	s, err := g.RegisterStudentForCourse("alice@example.com", "A", 95)
	require.NoError(t, err)

	s.Registrations["A"] = student.Registration{Grade: 1, Credits: 3}
	s.GPA = 0
	g.CalculateRanking()[0].Student.Registrations["B"] = student.Registration{Grade: 1, Credits: 1}
	g.SearchByGrade("A", 0, 100)[0].GPA = 1.5

	stored, _ := g.Student("alice@example.com")
	assert.Len(t, stored.Registrations, 1)
	assert.Equal(t, 95.0, stored.Registrations["A"].Grade)
	assert.Equal(t, 4.0, stored.GPA)
}

func TestDisplayCourses(t *testing.T) {
	g := newTestGradeBook(t)
	mustAddCourse(t, g, "Physics", 4, 100)
	mustAddCourse(t, g, "Art", 1, 0)
	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustRegister(t, g, "alice@example.com", "Physics", 71)
	mustRegister(t, g, "alice@example.com", "Art", 88)

	records, err := g.DisplayCourses("alice@example.com")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Art", records[0].Course)
	assert.False(t, records[0].HasMaxScore())
	assert.Equal(t, "Physics", records[1].Course)
	assert.True(t, records[1].HasMaxScore())

	_, err = g.DisplayCourses("ghost@example.com")
	assert.True(t, shared.IsNotFound(err))
}

func TestListAllStudents(t *testing.T) {
	g := newTestGradeBook(t)
	assert.Empty(t, g.ListAllStudents())

	mustAddCourse(t, g, "A", 3, 100)
	mustAddStudent(t, g, "zed@example.com", "Zed")
	mustAddStudent(t, g, "amy@example.com", "Amy")
	mustRegister(t, g, "amy@example.com", "A", 81)

	list := g.ListAllStudents()

	require.Len(t, list, 2)
	assert.Equal(t, "zed@example.com", list[0].Email)
	assert.Empty(t, list[0].Courses)
	assert.Equal(t, "amy@example.com", list[1].Email)
	assert.Equal(t, 3.0, list[1].GPA)
	require.Len(t, list[1].Courses, 1)
	assert.Equal(t, 81.0, list[1].Courses[0].Grade)
}

type recordingPublisher struct {
	events []shared.Event
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	types := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func TestEvents_PublishedOnSuccessOnly(t *testing.T) {
	pub := &recordingPublisher{}
	g := newTestGradeBook(t, WithPublisher(pub))

	mustAddStudent(t, g, "alice@example.com", "Alice")
	mustAddCourse(t, g, "Math", 3, 100)
	mustRegister(t, g, "alice@example.com", "Math", 85)
	mustRegister(t, g, "alice@example.com", "Math", 95)
	g.CalculateGPAForAllStudents()

	_, err := g.AddStudent("alice@example.com", "Again")
	require.Error(t, err)
	_, err = g.RegisterStudentForCourse("alice@example.com", "Art", 90)
	require.Error(t, err)

	assert.Equal(t, []shared.EventType{
		shared.EventStudentAdded,
		shared.EventCourseAdded,
		shared.EventGradeRecorded,
		shared.EventGradeRecorded,
		shared.EventGPARecalculated,
	}, pub.types())

	first := pub.events[2].(shared.GradeRecordedEvent)
	assert.False(t, first.Replaced)
	assert.Equal(t, 3.0, first.GPA)

	second := pub.events[3].(shared.GradeRecordedEvent)
	assert.True(t, second.Replaced)
	assert.Equal(t, 4.0, second.GPA)
	assert.Equal(t, "alice@example.com", second.AggregateID())
	assert.Equal(t, time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC), second.OccurredAt())

	recalc := pub.events[4].(shared.GPARecalculatedEvent)
	assert.Equal(t, 1, recalc.Students)
	assert.Equal(t, student.PolicyPercentage, recalc.Policy)
}

func TestEvents_HandlerMayQueryGradeBook(t *testing.T) {
	var g *GradeBook
	var seen []string
	pub := publisherFunc(func(e shared.Event) error {
		// Runs after the lock is released.
		for _, s := range g.Students() {
			seen = append(seen, s.Email)
		}
		return nil
	})
	g = newTestGradeBook(t, WithPublisher(pub))

	mustAddStudent(t, g, "alice@example.com", "Alice")

	assert.Equal(t, []string{"alice@example.com"}, seen)
}

type publisherFunc func(shared.Event) error

func (f publisherFunc) Publish(e shared.Event) error { return f(e) }

func TestKeysAreTrimmedOnLookup(t *testing.T) {
	g := newTestGradeBook(t)

	s, err := g.AddStudent("alice@example.com ", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", s.Email)

	c, err := g.AddCourse(" Math", "T1", 3, 100)
	require.NoError(t, err)
	assert.Equal(t, "Math", c.Name)

	s, err = g.RegisterStudentForCourse("alice@example.com ", " Math", 90)
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.GPA)
	_, ok := s.Registration("Math")
	assert.True(t, ok)

	_, err = g.Student(" alice@example.com")
	require.NoError(t, err)
	_, err = g.Course("Math ")
	require.NoError(t, err)

	tr, err := g.GenerateTranscript("alice@example.com ")
	require.NoError(t, err)
	require.Len(t, tr.Courses, 1)
	assert.Equal(t, "Math", tr.Courses[0].Course)

	records, err := g.DisplayCourses("\talice@example.com")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	found := g.SearchByGrade(" Math ", 80, 100)
	require.Len(t, found, 1)
	assert.Equal(t, "alice@example.com", found[0].Email)

	_, err = g.AddStudent(" alice@example.com", "Alice Again")
	assert.ErrorIs(t, err, shared.ErrDuplicateStudent)
}
