package course

import (
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY
// Хранит определения курсов в памяти, ключ - название курса.
// ══════════════════════════════════════════════════════════════════════════════

// Registry - реестр курсов.
// Не потокобезопасен: синхронизацию обеспечивает владелец (GradeBook).
type Registry struct {
	byName map[string]Course
	order  []string
}

// NewRegistry создаёт пустой реестр курсов.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Course),
	}
}

// Add добавляет курс.
// Возвращает ErrDuplicateCourse, если курс с таким названием уже есть.
func (r *Registry) Add(c Course) error {
	if _, exists := r.byName[c.Name]; exists {
		return shared.ErrDuplicateCourse
	}

	r.byName[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

// Get возвращает курс по названию. Ключ нормализуется так же, как при создании.
// Возвращает ErrCourseNotFound, если курс не найден.
func (r *Registry) Get(name string) (Course, error) {
	c, ok := r.byName[NormalizeName(name)]
	if !ok {
		return Course{}, shared.ErrCourseNotFound
	}
	return c, nil
}

// Exists проверяет наличие курса.
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[NormalizeName(name)]
	return ok
}

// All возвращает все курсы в порядке добавления.
func (r *Registry) All() []Course {
	result := make([]Course, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}

// Count возвращает количество курсов.
func (r *Registry) Count() int {
	return len(r.order)
}
