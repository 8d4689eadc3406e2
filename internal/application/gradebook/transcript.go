package gradebook

import (
	"time"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// READ MODELS (DTO)
// Данные для транскрипта, списка курсов студента и списка всех студентов.
// Форматирование - забота вызывающего слоя.
// ══════════════════════════════════════════════════════════════════════════════

// CourseRecord - запись студента на курс для отображения.
type CourseRecord struct {
	// Course - название курса.
	Course string `json:"course"`

	// Trimester - триместр курса.
	Trimester string `json:"trimester,omitempty"`

	// Grade - сырая оценка.
	Grade float64 `json:"grade"`

	// Credits - вес курса.
	Credits float64 `json:"credits"`

	// MaxScore - максимальный балл (0, если не задан).
	MaxScore float64 `json:"max_score,omitempty"`

	// Percentage - оценка в процентах.
	Percentage float64 `json:"percentage"`
}

// HasMaxScore возвращает true, если у курса задан максимальный балл.
func (r CourseRecord) HasMaxScore() bool {
	return r.MaxScore != 0
}

// Transcript - снимок студента на момент запроса.
// Последующие записи на курсы не меняют выданный транскрипт.
type Transcript struct {
	StudentID   string         `json:"student_id"`
	Email       string         `json:"email"`
	Names       string         `json:"names"`
	GPA         float64        `json:"gpa"`
	Policy      string         `json:"policy"`
	Courses     []CourseRecord `json:"courses"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// StudentSummary - студент и его курсы для общего списка.
type StudentSummary struct {
	Email   string         `json:"email"`
	Names   string         `json:"names"`
	GPA     float64        `json:"gpa"`
	Courses []CourseRecord `json:"courses"`
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GenerateTranscript возвращает транскрипт студента.
// Возвращает ErrStudentNotFound, если студент не найден.
func (g *GradeBook) GenerateTranscript(email string) (Transcript, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, err := g.students.Get(email)
	if err != nil {
		return Transcript{}, err
	}

	return Transcript{
		StudentID:   s.ID,
		Email:       s.Email,
		Names:       s.Names,
		GPA:         s.GPA,
		Policy:      g.policy.Name(),
		Courses:     g.courseRecords(s),
		GeneratedAt: g.now(),
	}, nil
}

// DisplayCourses возвращает курсы студента, отсортированные по названию.
// Возвращает ErrStudentNotFound, если студент не найден.
func (g *GradeBook) DisplayCourses(email string) ([]CourseRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, err := g.students.Get(email)
	if err != nil {
		return nil, err
	}

	return g.courseRecords(s), nil
}

// ListAllStudents возвращает всех студентов с их курсами в порядке добавления.
func (g *GradeBook) ListAllStudents() []StudentSummary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := g.students.All()
	result := make([]StudentSummary, 0, len(all))
	for _, s := range all {
		result = append(result, StudentSummary{
			Email:   s.Email,
			Names:   s.Names,
			GPA:     s.GPA,
			Courses: g.courseRecords(s),
		})
	}
	return result
}

// courseRecords строит записи о курсах студента. Вызывать под блокировкой.
func (g *GradeBook) courseRecords(s *student.Student) []CourseRecord {
	names := s.CourseNames()
	records := make([]CourseRecord, 0, len(names))

	for _, name := range names {
		reg := s.Registrations[name]
		rec := CourseRecord{
			Course:     name,
			Grade:      reg.Grade,
			Credits:    float64(reg.Credits),
			MaxScore:   float64(reg.MaxScore),
			Percentage: reg.Percentage(),
		}
		if c, err := g.courses.Get(name); err == nil {
			rec.Trimester = c.Trimester
		}
		records = append(records, rec)
	}

	return records
}
