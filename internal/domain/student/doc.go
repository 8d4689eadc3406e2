// Package student содержит доменную модель студента грейдбука.
//
// Пакет определяет:
//
//   - Сущности (Entities): Student, Registration
//   - Политики расчёта GPA: PercentagePolicy (основная), RawAveragePolicy
//   - Registry: реестр студентов в памяти с ключом email
//
// # Архитектурные принципы
//
//  1. Внешних зависимостей нет, кроме соседних доменных пакетов
//  2. Rich Domain Model - пересчёт GPA инкапсулирован в сущности
//  3. Реестр не синхронизирован: им владеет GradeBook
//
// # Расчёт GPA
//
// Основная политика переводит оценку в проценты (grade / max_score * 100,
// либо оценка как есть, если максимум не задан), затем в баллы шкалы:
//
//	[90, ∞) -> 4.0
//	[80, 90) -> 3.0
//	[70, 80) -> 2.0
//	[60, 70) -> 1.0
//	иначе   -> 0.0
//
// GPA = Σ(баллы·кредиты) / Σ(кредиты), либо 0.0 без записей.
//
// # Пример использования
//
//	s, err := NewStudent(NewStudentParams{
//	    ID:    uuid.New().String(),
//	    Email: "student@example.com",
//	    Names: "Имя Студента",
//	})
//	if err != nil {
//	    return err
//	}
//
//	reg, err := NewRegistration(95, algorithms)
//	if err != nil {
//	    return err
//	}
//	s.Register(algorithms.Name, reg, DefaultPolicy())
package student
