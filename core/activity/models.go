package activity

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/pensum/core"
)

// Kind is one of the things a user can do on a study day.
type Kind string

const (
	KindWorked     Kind = "worked"
	KindWroteNotes Kind = "wrote_notes"
	KindReviewed   Kind = "reviewed"
	KindQuizTaken  Kind = "quiz_taken"
)

// MaxIntensity is reached when every Kind was recorded on a day.
const MaxIntensity = 4

// Daily records what a user did on a given day.
type Daily struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Date       core.Date `json:"date" db:"date"`
	Worked     bool      `json:"worked" db:"worked"`
	WroteNotes bool      `json:"wrote_notes" db:"wrote_notes"`
	Reviewed   bool      `json:"reviewed" db:"reviewed"`
	QuizTaken  bool      `json:"quiz_taken" db:"quiz_taken"`
}

// Intensity counts the activities recorded on the day, from 0 to MaxIntensity.
func (d Daily) Intensity() int {
	var n int
	for _, flag := range []bool{d.Worked, d.WroteNotes, d.Reviewed, d.QuizTaken} {
		if flag {
			n++
		}
	}
	return n
}

// Mark sets the flag matching kind.
func (d *Daily) Mark(kind Kind) {
	switch kind {
	case KindWorked:
		d.Worked = true
	case KindWroteNotes:
		d.WroteNotes = true
	case KindReviewed:
		d.Reviewed = true
	case KindQuizTaken:
		d.QuizTaken = true
	}
}

// DayIntensity is one cell of the weekly activity strip.
type DayIntensity struct {
	Date      core.Date `json:"date"`
	Intensity int       `json:"intensity"`
}

// UpdateDaily defines what may be set on a day. Nil fields keep their current value.
type UpdateDaily struct {
	Worked     *bool `json:"worked"`
	WroteNotes *bool `json:"wrote_notes"`
	Reviewed   *bool `json:"reviewed"`
	QuizTaken  *bool `json:"quiz_taken"`
}

func (ud UpdateDaily) apply(d *Daily) {
	if ud.Worked != nil {
		d.Worked = *ud.Worked
	}
	if ud.WroteNotes != nil {
		d.WroteNotes = *ud.WroteNotes
	}
	if ud.Reviewed != nil {
		d.Reviewed = *ud.Reviewed
	}
	if ud.QuizTaken != nil {
		d.QuizTaken = *ud.QuizTaken
	}
}

type QueryFilter struct {
	From core.Date `query:"from"`
	To   core.Date `query:"to"`
}

func (qf *QueryFilter) Validate(_ *validator.Validate) error {
	if !qf.From.IsZero() && !qf.To.IsZero() && qf.To.Before(qf.From) {
		return core.NewFieldValidationError("to", "must not be before from")
	}
	return nil
}
