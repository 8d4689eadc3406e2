package gradebook

import (
	"sort"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/course"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// RankingEntry - позиция студента в рейтинге.
type RankingEntry struct {
	// Position - место в рейтинге, начиная с 1.
	Position int

	// Student - копия студента на момент расчёта.
	Student student.Student
}

// CalculateRanking возвращает студентов по убыванию GPA.
// Сортировка стабильная: при равном GPA раньше идёт тот, кто добавлен раньше.
func (g *GradeBook) CalculateRanking() []RankingEntry {
	g.mu.RLock()
	students := g.snapshotAll()
	g.mu.RUnlock()

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].GPA > students[j].GPA
	})

	ranking := make([]RankingEntry, len(students))
	for i, s := range students {
		ranking[i] = RankingEntry{Position: i + 1, Student: s}
	}
	return ranking
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH
// ══════════════════════════════════════════════════════════════════════════════

// SearchByGrade возвращает студентов, записанных на курс, чья сырая оценка
// лежит в [minGrade, maxGrade] включительно. Порядок - порядок добавления.
// Студенты без записи на курс не попадают в результат.
// Для неизвестного курса результат пустой.
func (g *GradeBook) SearchByGrade(courseName string, minGrade, maxGrade float64) []student.Student {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]student.Student, 0)
	courseName = course.NormalizeName(courseName)
	if minGrade > maxGrade || !g.courses.Exists(courseName) {
		return result
	}

	for _, s := range g.students.All() {
		reg, ok := s.Registration(courseName)
		if !ok {
			continue
		}
		if reg.Grade >= minGrade && reg.Grade <= maxGrade {
			result = append(result, *s.Clone())
		}
	}

	return result
}
