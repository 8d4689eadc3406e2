// Package script defines a TOML file of grade book operations and executes it.
//
// A script is a list of steps, each naming one operation:
//
//	[[step]]
//	op = "add_student"
//	email = "alice@example.com"
//	names = "Alice Smith"
//
//	[[step]]
//	op = "add_course"
//	name = "Math"
//	trimester = "T1"
//	credits = 3
//	max_score = 100
//
//	[[step]]
//	op = "register"
//	email = "alice@example.com"
//	course = "Math"
//	grade = 92
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Op identifies a grade book operation.
type Op string

const (
	OpAddStudent  Op = "add_student"
	OpAddCourse   Op = "add_course"
	OpRegister    Op = "register"
	OpRecalculate Op = "recalculate"
	OpRanking     Op = "ranking"
	OpSearch      Op = "search"
	OpTranscript  Op = "transcript"
	OpCourses     Op = "courses"
	OpList        Op = "list"
)

// Ops lists every supported operation in menu order.
func Ops() []Op {
	return []Op{
		OpAddStudent, OpAddCourse, OpRegister, OpRecalculate,
		OpRanking, OpSearch, OpTranscript, OpCourses, OpList,
	}
}

// ErrInvalidScript is returned when a script cannot be parsed or validated.
var ErrInvalidScript = errors.New("invalid script")

// Script is a parsed list of steps.
type Script struct {
	Name  string `toml:"name"`
	Steps []Step `toml:"step"`
}

// Step is one operation with its arguments. Numeric arguments are pointers
// so a missing value can be told apart from zero.
type Step struct {
	Op Op `toml:"op"`

	// add_student, register, transcript, courses
	Email string `toml:"email"`
	Names string `toml:"names"`

	// add_course
	Name      string   `toml:"name"`
	Trimester string   `toml:"trimester"`
	Credits   *float64 `toml:"credits"`
	MaxScore  *float64 `toml:"max_score"`

	// register, search
	Course string   `toml:"course"`
	Grade  *float64 `toml:"grade"`
	Min    *float64 `toml:"min"`
	Max    *float64 `toml:"max"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Parse decodes a script from TOML and validates every step.
func Parse(data string) (*Script, error) {
	var s Script
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidScript, strings.Join(keys, ", "))
	}

	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i+1, err)
		}
	}

	return &s, nil
}

// Validate checks that the step names a known operation and carries
// the arguments that operation needs. Value checks are left to the grade book.
func (s Step) Validate() error {
	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}

	switch s.Op {
	case OpAddStudent:
		need(s.Email != "", "email")
		need(s.Names != "", "names")
	case OpAddCourse:
		need(s.Name != "", "name")
		need(s.Credits != nil, "credits")
	case OpRegister:
		need(s.Email != "", "email")
		need(s.Course != "", "course")
		need(s.Grade != nil, "grade")
	case OpSearch:
		need(s.Course != "", "course")
		need(s.Min != nil, "min")
		need(s.Max != nil, "max")
	case OpTranscript, OpCourses:
		need(s.Email != "", "email")
	case OpRecalculate, OpRanking, OpList:
	case "":
		return errors.New("op is required")
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s: missing %s", s.Op, strings.Join(missing, ", "))
	}
	return nil
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
