// Package course содержит доменную модель учебного курса.
// Курс задаёт вес (кредиты) и максимальный балл, по которым считается GPA.
package course

import (
	"math"
	"strings"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Credits - вес курса при расчёте GPA.
type Credits float64

// IsValid проверяет, что кредиты положительные и конечные.
func (c Credits) IsValid() bool {
	f := float64(c)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// MaxScore - максимальный балл по курсу.
// Нулевое значение означает, что максимум не задан и оценка уже в процентах.
type MaxScore float64

// NoMaxScore - курс без максимального балла.
const NoMaxScore MaxScore = 0

// IsSet возвращает true, если максимальный балл задан.
func (m MaxScore) IsSet() bool {
	return m != NoMaxScore
}

// IsValid проверяет корректность максимального балла.
func (m MaxScore) IsValid() bool {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f >= 0
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Course - учебный курс.
type Course struct {
	// Name - уникальное название курса, ключ в реестре.
	Name string

	// Trimester - триместр, только для отображения.
	Trimester string

	// Credits - вес курса.
	Credits Credits

	// MaxScore - максимальный балл (NoMaxScore, если не задан).
	MaxScore MaxScore
}

// NormalizeName приводит название курса к виду, под которым оно хранится.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NewCourseParams содержит параметры для создания курса.
type NewCourseParams struct {
	Name      string
	Trimester string
	Credits   float64
	MaxScore  float64
}

// NewCourse создаёт курс с валидацией всех полей.
func NewCourse(params NewCourseParams) (Course, error) {
	name := NormalizeName(params.Name)
	if name == "" {
		return Course{}, shared.ErrInvalidCourseName
	}

	credits := Credits(params.Credits)
	if !credits.IsValid() {
		return Course{}, shared.ErrInvalidCredits
	}

	maxScore := MaxScore(params.MaxScore)
	if !maxScore.IsValid() {
		return Course{}, shared.ErrInvalidMaxScore
	}

	return Course{
		Name:      name,
		Trimester: strings.TrimSpace(params.Trimester),
		Credits:   credits,
		MaxScore:  maxScore,
	}, nil
}
