package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clivetmushipe088/grade-book-app/internal/application/gradebook"
	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
)

// Presenter writes human-readable reports to an output stream.
type Presenter struct {
	out    io.Writer
	styles Styles
}

// New creates a presenter. With noColor set every style renders plain text.
func New(out io.Writer, noColor bool) *Presenter {
	styles := ColorStyles()
	if noColor {
		styles = PlainStyles()
	}
	return &Presenter{out: out, styles: styles}
}

// Success prints a confirmation line.
func (p *Presenter) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.successPrefix(), fmt.Sprintf(format, args...))
}

// Warning prints a cautionary line.
func (p *Presenter) Warning(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.warningPrefix(), fmt.Sprintf(format, args...))
}

// Failure prints an error line.
func (p *Presenter) Failure(err error) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.errorPrefix(), p.styles.Error.Render("Error: "+err.Error()))
}

// Step prints the heading of a script step.
func (p *Presenter) Step(index int, op string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.arrowPrefix(), p.styles.Dim.Render(fmt.Sprintf("step %d: %s", index, op)))
}

// Ranking prints students ordered by GPA.
func (p *Presenter) Ranking(entries []gradebook.RankingEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No students found.")
		return
	}

	fmt.Fprintln(p.out, p.styles.Header.Render("Student Rankings:"))
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Student.Names))
	}
	for _, e := range entries {
		fmt.Fprintf(p.out, "%3d. %s  GPA: %s\n",
			e.Position,
			pad(p.styles.Bold.Render(e.Student.Names), width),
			formatGPA(e.Student.GPA),
		)
	}
}

// SearchResults prints students whose grade in a course fell in a range.
func (p *Presenter) SearchResults(courseName string, students []student.Student) {
	if len(students) == 0 {
		fmt.Fprintln(p.out, "No students found with the specified grade range.")
		return
	}

	fmt.Fprintln(p.out, p.styles.Header.Render("Students found:"))
	for _, s := range students {
		reg, _ := s.Registration(courseName)
		fmt.Fprintf(p.out, "Student: %s, Grade: %s\n", p.styles.Bold.Render(s.Names), formatNumber(reg.Grade))
	}
}

// Transcript prints a student's transcript.
func (p *Presenter) Transcript(t gradebook.Transcript) {
	fmt.Fprintln(p.out, p.styles.Header.Render("Transcript for "+t.Email+":"))
	fmt.Fprintf(p.out, "Names: %s\n", t.Names)
	fmt.Fprintf(p.out, "GPA: %s %s\n", formatGPA(t.GPA), p.styles.Dim.Render("("+t.Policy+")"))
	p.courseLines(t.Courses, "")
}

// Courses prints the courses a student is registered for.
func (p *Presenter) Courses(names string, records []gradebook.CourseRecord) {
	fmt.Fprintln(p.out, p.styles.Header.Render("Courses for "+names+":"))
	p.courseLines(records, "")
}

// StudentList prints every student with their courses.
func (p *Presenter) StudentList(summaries []gradebook.StudentSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(p.out, "No students found.")
		return
	}

	for _, s := range summaries {
		fmt.Fprintf(p.out, "Student: %s (Email: %s)\n", p.styles.Bold.Render(s.Names), s.Email)
		if len(s.Courses) > 0 {
			fmt.Fprintln(p.out, "Courses:")
		}
		p.courseLines(s.Courses, "  ")
	}
}

// Policies prints the available GPA policies, marking the active one.
func (p *Presenter) Policies(names []string, active string) {
	for _, name := range names {
		marker := " "
		if name == active {
			marker = p.styles.Success.Render("*")
		}
		fmt.Fprintf(p.out, "%s %s\n", marker, name)
	}
}

func (p *Presenter) courseLines(records []gradebook.CourseRecord, indent string) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, indent+p.styles.Dim.Render("No courses registered."))
		return
	}
	for _, r := range records {
		maxScore := "-"
		if r.HasMaxScore() {
			maxScore = formatNumber(r.MaxScore)
		}
		fmt.Fprintf(p.out, "%sCourse: %s, Grade: %s, Credits: %s, Max Score: %s\n",
			indent, r.Course, formatNumber(r.Grade), formatNumber(r.Credits), maxScore)
	}
}

func formatGPA(gpa float64) string {
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}

// formatNumber prints 95 as "95" and 87.5 as "87.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
