package student

import (
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY
// Хранит студентов в памяти, ключ - email.
// Порядок добавления сохраняется: на нём держится стабильность рейтинга.
// ══════════════════════════════════════════════════════════════════════════════

// Registry - реестр студентов.
// Не потокобезопасен: синхронизацию обеспечивает владелец (GradeBook).
type Registry struct {
	byEmail map[string]*Student
	order   []*Student
}

// NewRegistry создаёт пустой реестр студентов.
func NewRegistry() *Registry {
	return &Registry{
		byEmail: make(map[string]*Student),
	}
}

// Add добавляет студента.
// Возвращает ErrDuplicateStudent, если студент с таким email уже есть.
func (r *Registry) Add(s *Student) error {
	if _, exists := r.byEmail[s.Email]; exists {
		return shared.ErrDuplicateStudent
	}

	r.byEmail[s.Email] = s
	r.order = append(r.order, s)
	return nil
}

// Get возвращает студента по email. Ключ нормализуется так же, как при создании.
// Возвращает ErrStudentNotFound, если студент не найден.
func (r *Registry) Get(email string) (*Student, error) {
	s, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

// All возвращает всех студентов в порядке добавления.
// Срез новый, но указатели ведут на записи реестра.
func (r *Registry) All() []*Student {
	result := make([]*Student, len(r.order))
	copy(result, r.order)
	return result
}

// Count возвращает количество студентов.
func (r *Registry) Count() int {
	return len(r.order)
}
