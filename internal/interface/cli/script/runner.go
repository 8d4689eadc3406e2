package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clivetmushipe088/grade-book-app/internal/application/gradebook"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/shared"
	"github.com/clivetmushipe088/grade-book-app/internal/interface/cli/presenter"
	"github.com/clivetmushipe088/grade-book-app/pkg/logger"
)

// ErrStepFailed is returned by a strict run when a step fails.
var ErrStepFailed = errors.New("step failed")

// Result summarises a run.
type Result struct {
	RunID    string
	Steps    int
	Failed   int
	Events   int
	Duration time.Duration
}

// OK reports whether every step succeeded.
func (r Result) OK() bool {
	return r.Failed == 0
}

// Runner executes scripts against a grade book.
type Runner struct {
	book   *gradebook.GradeBook
	out    *presenter.Presenter
	log    *logger.Logger
	strict bool
	newID  func() string

	// state of the current run, read by the event handler
	runLog *logger.Logger
	events int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStrict stops the run on the first failing step.
func WithStrict(strict bool) RunnerOption {
	return func(r *Runner) {
		r.strict = strict
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(log *logger.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRunIDGenerator replaces the run ID generator. Nil is ignored.
func WithRunIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRunner creates a runner writing reports through out.
func NewRunner(book *gradebook.GradeBook, out *presenter.Presenter, opts ...RunnerOption) *Runner {
	r := &Runner{
		book:  book,
		out:   out,
		log:   logger.Nop(),
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe subscribes the runner to grade book events. Each event is
// logged at debug level with the run ID and counted in Result.Events.
func (r *Runner) Observe(sub shared.EventSubscriber) error {
	return sub.SubscribeAll(r.onEvent)
}

func (r *Runner) onEvent(e shared.Event) error {
	r.events++
	if r.runLog == nil || !r.runLog.Enabled(logger.LevelDebug) {
		return nil
	}

	fields := []logger.Field{
		logger.String("event_type", string(e.EventType())),
		logger.String("aggregate_id", e.AggregateID()),
	}
	for k, v := range e.Payload() {
		fields = append(fields, logger.Any(k, v))
	}
	r.runLog.Debug("event", fields...)
	return nil
}

// Run executes the steps in order. A failing step is reported and the run
// continues, unless the runner is strict, in which case Run stops and
// returns an error wrapping ErrStepFailed. Cancelling ctx stops the run
// between steps. A Runner executes one script at a time.
func (r *Runner) Run(ctx context.Context, s *Script) (Result, error) {
	start := time.Now()
	res := Result{RunID: r.newID()}
	log := r.log.WithRunID(res.RunID).With(logger.Component("script"))

	r.runLog = log
	r.events = 0
	defer func() { r.runLog = nil }()
	ctx = logger.WithContext(ctx, log)

	log.Info("script started",
		logger.String("script", s.Name),
		logger.Int("steps", len(s.Steps)),
		logger.Policy(r.book.Policy().Name()),
		logger.Bool("strict", r.strict),
	)

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			res.Events = r.events
			res.Duration = time.Since(start)
			return res, err
		}

		index := i + 1
		res.Steps++
		r.out.Step(index, string(step.Op))

		if err := r.exec(ctx, step); err != nil {
			res.Failed++
			r.out.Failure(err)
			fields := append([]logger.Field{
				logger.Step(index),
				logger.Operation(string(step.Op)),
				logger.Err(err),
				logger.String("error_kind", errorKind(err)),
			}, stepFields(step)...)
			log.Warn("step failed", fields...)
			if r.strict {
				res.Events = r.events
				res.Duration = time.Since(start)
				return res, fmt.Errorf("%w: step %d (%s): %w", ErrStepFailed, index, step.Op, err)
			}
			continue
		}

		log.Debug("step done", logger.Step(index), logger.Operation(string(step.Op)))
	}

	res.Events = r.events
	res.Duration = time.Since(start)
	log.Info("script finished",
		logger.Int("steps", res.Steps),
		logger.Int("failed", res.Failed),
		logger.Int("events", res.Events),
		logger.Latency(res.Duration),
	)

	return res, nil
}

func errorKind(err error) string {
	switch {
	case shared.IsNotFound(err):
		return "not_found"
	case shared.IsAlreadyExists(err):
		return "already_exists"
	case shared.IsValidation(err):
		return "validation"
	default:
		return "internal"
	}
}

// stepFields returns the log fields for the arguments a step carries.
func stepFields(step Step) []logger.Field {
	var fields []logger.Field
	if step.Email != "" {
		fields = append(fields, logger.Email(step.Email))
	}
	if step.Course != "" {
		fields = append(fields, logger.Course(step.Course))
	} else if step.Name != "" {
		fields = append(fields, logger.Course(step.Name))
	}
	if step.Grade != nil {
		fields = append(fields, logger.Grade(*step.Grade))
	}
	return fields
}

func (r *Runner) exec(ctx context.Context, step Step) error {
	switch step.Op {
	case OpAddStudent:
		s, err := r.book.AddStudent(step.Email, step.Names)
		if err != nil {
			return err
		}
		r.out.Success("Student %s added successfully.", s.Email)

	case OpAddCourse:
		c, err := r.book.AddCourse(step.Name, step.Trimester, value(step.Credits), value(step.MaxScore))
		if err != nil {
			return err
		}
		r.out.Success("Course %s added successfully.", c.Name)

	case OpRegister:
		s, err := r.book.RegisterStudentForCourse(step.Email, step.Course, value(step.Grade))
		if err != nil {
			return err
		}
		r.out.Success("Student %s registered for course %s.", s.Email, step.Course)
		logger.FromContext(ctx).Debug("grade recorded",
			logger.Email(s.Email),
			logger.Course(step.Course),
			logger.Grade(value(step.Grade)),
			logger.GPA(s.GPA),
		)

	case OpRecalculate:
		r.book.CalculateGPAForAllStudents()
		r.out.Success("GPA calculated for all students.")

	case OpRanking:
		r.out.Ranking(r.book.CalculateRanking())

	case OpSearch:
		r.out.SearchResults(step.Course, r.book.SearchByGrade(step.Course, value(step.Min), value(step.Max)))

	case OpTranscript:
		t, err := r.book.GenerateTranscript(step.Email)
		if err != nil {
			return err
		}
		r.out.Transcript(t)

	case OpCourses:
		s, err := r.book.Student(step.Email)
		if err != nil {
			return err
		}
		records, err := r.book.DisplayCourses(step.Email)
		if err != nil {
			return err
		}
		r.out.Courses(s.Names, records)

	case OpList:
		r.out.StudentList(r.book.ListAllStudents())

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	return nil
}
