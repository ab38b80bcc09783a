package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/pensum/core"
)

// Subject is a course the user studies for, grouping notes and planner items.
type Subject struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Semester  string     `json:"semester,omitempty"`
	ExamDate  *core.Date `json:"exam_date"`
	CreatedAt time.Time  `json:"created_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name     string     `json:"name" validate:"required,notblank,max=200"`
	Semester string     `json:"semester" validate:"max=50"`
	ExamDate *core.Date `json:"exam_date"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Semester = core.CleanString(ns.Semester)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Name          *string    `json:"name" validate:"omitempty,notblank,max=200"`
	Semester      *string    `json:"semester" validate:"omitempty,max=50"`
	ExamDate      *core.Date `json:"exam_date"`
	ClearExamDate bool       `json:"clear_exam_date"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	core.CleanStringPtr(us.Name)
	core.CleanStringPtr(us.Semester)
	if us.Name != nil && *us.Name == "" {
		return core.NewFieldValidationError("name", "this field may not be blank")
	}
	return validate.Struct(us)
}

func (us UpdateSubject) apply(s *Subject) {
	if us.Name != nil {
		s.Name = *us.Name
	}
	if us.Semester != nil {
		s.Semester = *us.Semester
	}
	if us.ClearExamDate {
		s.ExamDate = nil
	} else if us.ExamDate != nil {
		d := *us.ExamDate
		s.ExamDate = &d
	}
}
