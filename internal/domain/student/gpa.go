package student

import (
	"fmt"
	"strings"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GPA POLICIES
// Две несовместимые политики расчёта GPA:
//   - percentage: процент -> 4-балльная шкала, взвешенная по кредитам (основная);
//   - raw_average: среднее арифметическое сырых оценок без шкалы и весов.
// ══════════════════════════════════════════════════════════════════════════════

// Policy вычисляет GPA по записям студента.
// Результат должен зависеть только от записей (детерминированно).
type Policy interface {
	// Name возвращает имя политики.
	Name() string

	// Calculate вычисляет GPA. Для пустых записей возвращает 0.0.
	Calculate(regs map[string]Registration) float64
}

// Имена политик.
const (
	PolicyPercentage = "percentage"
	PolicyRawAverage = "raw_average"
)

// PercentageToPoints переводит процент в баллы 4-балльной шкалы.
// Граничное значение относится к верхнему интервалу.
func PercentageToPoints(percentage float64) float64 {
	switch {
	case percentage >= 90:
		return 4.0
	case percentage >= 80:
		return 3.0
	case percentage >= 70:
		return 2.0
	case percentage >= 60:
		return 1.0
	default:
		return 0.0
	}
}

// PercentagePolicy - основная политика: взвешенное по кредитам среднее баллов шкалы.
type PercentagePolicy struct{}

// Name возвращает имя политики.
func (PercentagePolicy) Name() string { return PolicyPercentage }

// Calculate вычисляет Σ(points·credits) / Σ(credits).
func (PercentagePolicy) Calculate(regs map[string]Registration) float64 {
	var totalPoints, totalCredits float64

	// Обход в фиксированном порядке, чтобы сумма float не зависела от порядка map.
	for _, name := range sortedCourseNames(regs) {
		reg := regs[name]
		credits := float64(reg.Credits)
		totalPoints += PercentageToPoints(reg.Percentage()) * credits
		totalCredits += credits
	}

	if totalCredits == 0 {
		return 0.0
	}
	return totalPoints / totalCredits
}

// RawAveragePolicy - альтернативная политика: среднее сырых оценок.
type RawAveragePolicy struct{}

// Name возвращает имя политики.
func (RawAveragePolicy) Name() string { return PolicyRawAverage }

// Calculate вычисляет среднее арифметическое оценок.
func (RawAveragePolicy) Calculate(regs map[string]Registration) float64 {
	if len(regs) == 0 {
		return 0.0
	}

	var total float64
	for _, name := range sortedCourseNames(regs) {
		total += regs[name].Grade
	}
	return total / float64(len(regs))
}

// DefaultPolicy возвращает основную политику.
func DefaultPolicy() Policy {
	return PercentagePolicy{}
}

// PolicyByName возвращает политику по имени.
// Пустое имя означает политику по умолчанию.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPercentage:
		return PercentagePolicy{}, nil
	case PolicyRawAverage:
		return RawAveragePolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownPolicy, name)
	}
}

// PolicyNames возвращает имена всех политик.
func PolicyNames() []string {
	return []string{PolicyPercentage, PolicyRawAverage}
}
