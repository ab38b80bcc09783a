package planner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
)

type DeadlineType string

const (
	DeadlineAssignment DeadlineType = "assignment"
	DeadlineTest       DeadlineType = "test"
	DeadlineProject    DeadlineType = "project"
)

type Deadline struct {
	ID        string       `json:"id" db:"id"`
	SubjectID string       `json:"subject_id" db:"subject_id"`
	Title     string       `json:"title" db:"title"`
	DueDate   core.Date    `json:"due_date" db:"due_date"`
	Type      DeadlineType `json:"type" db:"type"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

type ReadingItem struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Text      string    `json:"text" db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Goal struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Overview is everything planned for a subject.
type Overview struct {
	SubjectID     string        `json:"subject_id"`
	ExamDate      *core.Date    `json:"exam_date"`
	DaysUntilExam *int          `json:"days_until_exam"`
	Deadlines     []Deadline    `json:"deadlines"`
	ReadingItems  []ReadingItem `json:"reading_items"`
	Goals         []Goal        `json:"goals"`
}

type NewDeadline struct {
	Title   string       `json:"title" validate:"required,notblank,max=200"`
	DueDate core.Date    `json:"due_date"`
	Type    DeadlineType `json:"type" validate:"required,oneof=assignment test project"`
}

func (nd *NewDeadline) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	nd.Type = DeadlineType(core.CleanString(string(nd.Type), true /* lower */))
	if err := validate.Struct(nd); err != nil {
		return err
	}
	if nd.DueDate.IsZero() {
		return core.NewFieldValidationError("due_date", "this field is required")
	}
	return nil
}

// NewReadingItem adds either a single item (Text) or one item per line of RawText.
type NewReadingItem struct {
	Text    string `json:"text" validate:"max=500"`
	RawText string `json:"raw_text"`
}

func (nr *NewReadingItem) Validate(validate *validator.Validate) error {
	nr.Text = core.CleanString(nr.Text)
	if nr.Text == "" && len(ParseReadingItems(nr.RawText)) == 0 {
		const msg = "one of text or raw_text is required"
		return core.NewValidationError(errors.New(msg),
			core.FieldError{Field: "text", Error: msg},
			core.FieldError{Field: "raw_text", Error: msg},
		)
	}
	return validate.Struct(nr)
}

// Texts returns the texts of the items to add, in order.
func (nr NewReadingItem) Texts() []string {
	if nr.Text != "" {
		return []string{nr.Text}
	}
	return ParseReadingItems(nr.RawText)
}

type NewGoal struct {
	Text string `json:"text" validate:"required,notblank,max=500"`
}

func (ng *NewGoal) Validate(validate *validator.Validate) error {
	ng.Text = core.CleanString(ng.Text)
	return validate.Struct(ng)
}

type SetExamDate struct {
	ExamDate *core.Date `json:"exam_date"`
}

var lineBreakRegex = regexp.MustCompile(`\r?\n`)

// ParseReadingItems splits raw text into one item per non-empty line.
func ParseReadingItems(raw string) []string {
	lines := lineBreakRegex.Split(raw, -1)
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

// UpcomingItem is an exam or deadline falling within the reminder window.
type UpcomingItem struct {
	SubjectID string    `json:"subject_id"`
	Subject   string    `json:"subject"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"` // exam | assignment | test | project
	Date      core.Date `json:"date"`
	DaysLeft  int       `json:"days_left"`
}

func (it UpcomingItem) DaysLabel() string {
	switch it.DaysLeft {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", it.DaysLeft)
	}
}
