package gradebook

import (
	"github.com/clivetmushipe088/grade-book-app/internal/domain/course"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION & GPA
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentForCourse записывает студента на курс с оценкой.
//
// Порядок проверок: студент (ErrStudentNotFound), курс (ErrCourseNotFound),
// оценка (ErrInvalidGrade). Изменение выполняется, только если все проверки
// прошли. Повторная запись на тот же курс заменяет прежнюю оценку.
// Возвращает копию студента после пересчёта GPA.
func (g *GradeBook) RegisterStudentForCourse(email, courseName string, grade float64) (student.Student, error) {
	courseName = course.NormalizeName(courseName)
	snapshot, replaced, err := g.register(email, courseName, grade)
	if err != nil {
		return student.Student{}, err
	}

	g.publish(shared.NewGradeRecordedEvent(snapshot.Email, courseName, grade, snapshot.GPA, replaced, g.now()))

	return snapshot, nil
}

func (g *GradeBook) register(email, courseName string, grade float64) (student.Student, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.students.Get(email)
	if err != nil {
		return student.Student{}, false, err
	}

	c, err := g.courses.Get(courseName)
	if err != nil {
		return student.Student{}, false, err
	}

	reg, err := student.NewRegistration(grade, c)
	if err != nil {
		return student.Student{}, false, err
	}

	_, replaced := s.Registration(c.Name)
	s.Register(c.Name, reg, g.policy)

	return *s.Clone(), replaced, nil
}

// CalculateGPAForAllStudents пересчитывает GPA всех студентов.
// Расчёт каждого студента независим и детерминирован.
func (g *GradeBook) CalculateGPAForAllStudents() {
	g.mu.Lock()
	all := g.students.All()
	for _, s := range all {
		s.RecalculateGPA(g.policy)
	}
	g.mu.Unlock()

	g.publish(shared.NewGPARecalculatedEvent(len(all), g.policy.Name(), g.now()))
}
