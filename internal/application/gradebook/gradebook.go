// Package gradebook связывает реестры студентов и курсов.
// GradeBook - единственная точка входа для вызывающего кода (CLI, тесты, сервисы):
// он проверяет ссылки между реестрами, выполняет запись на курс,
// пересчитывает GPA и отвечает на запросы (рейтинг, поиск, транскрипт).
package gradebook

import (
	"sync"
	"time"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/course"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE BOOK
// ══════════════════════════════════════════════════════════════════════════════

// GradeBook владеет реестрами студентов и курсов.
// Наружу отдаются только копии, ссылок на внутренние записи нет.
// Один мьютекс охраняет оба реестра: запись на курс читает курс и меняет
// студента, промежуточное состояние не должно быть видно.
type GradeBook struct {
	mu       sync.RWMutex
	students *student.Registry
	courses  *course.Registry
	policy   student.Policy
	events   shared.EventPublisher

	newID func() string
	now   func() time.Time
}

// Option настраивает GradeBook.
type Option func(*GradeBook)

// WithPolicy задаёт политику расчёта GPA.
func WithPolicy(policy student.Policy) Option {
	return func(g *GradeBook) {
		if policy != nil {
			g.policy = policy
		}
	}
}

// WithPublisher подключает публикацию доменных событий.
// События публикуются после снятия блокировки, поэтому обработчик
// может обращаться к GradeBook.
func WithPublisher(p shared.EventPublisher) Option {
	return func(g *GradeBook) {
		if p != nil {
			g.events = p
		}
	}
}

// WithIDGenerator задаёт генератор ID студентов.
func WithIDGenerator(fn func() string) Option {
	return func(g *GradeBook) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// WithClock задаёт источник времени для транскриптов.
func WithClock(fn func() time.Time) Option {
	return func(g *GradeBook) {
		if fn != nil {
			g.now = fn
		}
	}
}

// New создаёт пустой GradeBook.
func New(opts ...Option) *GradeBook {
	g := &GradeBook{
		students: student.NewRegistry(),
		courses:  course.NewRegistry(),
		policy:   student.DefaultPolicy(),
		newID:    func() string { return uuid.New().String() },
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Policy возвращает текущую политику расчёта GPA.
func (g *GradeBook) Policy() student.Policy {
	return g.policy
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRIES
// ══════════════════════════════════════════════════════════════════════════════

// AddStudent добавляет студента с пустыми записями и GPA 0.0.
// Возвращает ErrDuplicateStudent, если email уже занят.
func (g *GradeBook) AddStudent(email, names string) (student.Student, error) {
	s, err := student.NewStudent(student.NewStudentParams{
		ID:    g.newID(),
		Email: email,
		Names: names,
	})
	if err != nil {
		return student.Student{}, err
	}

	g.mu.Lock()
	if err := g.students.Add(s); err != nil {
		g.mu.Unlock()
		return student.Student{}, err
	}
	snapshot := *s.Clone()
	g.mu.Unlock()

	g.publish(shared.NewStudentAddedEvent(snapshot.ID, snapshot.Email, snapshot.Names, g.now()))

	return snapshot, nil
}

// AddCourse добавляет курс. maxScore = 0 означает, что максимум не задан.
// Возвращает ErrDuplicateCourse, если курс с таким названием уже есть.
func (g *GradeBook) AddCourse(name, trimester string, credits, maxScore float64) (course.Course, error) {
	c, err := course.NewCourse(course.NewCourseParams{
		Name:      name,
		Trimester: trimester,
		Credits:   credits,
		MaxScore:  maxScore,
	})
	if err != nil {
		return course.Course{}, err
	}

	g.mu.Lock()
	err = g.courses.Add(c)
	g.mu.Unlock()
	if err != nil {
		return course.Course{}, err
	}

	g.publish(shared.NewCourseAddedEvent(c.Name, c.Trimester, float64(c.Credits), float64(c.MaxScore), g.now()))

	return c, nil
}

// Student возвращает копию студента по email.
func (g *GradeBook) Student(email string) (student.Student, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, err := g.students.Get(email)
	if err != nil {
		return student.Student{}, err
	}
	return *s.Clone(), nil
}

// Course возвращает курс по названию.
func (g *GradeBook) Course(name string) (course.Course, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.courses.Get(name)
}

// Courses возвращает все курсы в порядке добавления.
func (g *GradeBook) Courses() []course.Course {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.courses.All()
}

// Students возвращает копии всех студентов в порядке добавления.
func (g *GradeBook) Students() []student.Student {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.snapshotAll()
}

// snapshotAll копирует всех студентов. Вызывать под блокировкой.
func (g *GradeBook) snapshotAll() []student.Student {
	all := g.students.All()
	result := make([]student.Student, 0, len(all))
	for _, s := range all {
		result = append(result, *s.Clone())
	}
	return result
}

// publish отправляет событие, если подключён издатель.
// Ошибка доставки не отменяет уже выполненное изменение.
func (g *GradeBook) publish(e shared.Event) {
	if g.events == nil {
		return
	}
	_ = g.events.Publish(e)
}
