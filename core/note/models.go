package note

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
)

type Note struct {
	ID        string     `json:"id"`
	SubjectID string     `json:"subject_id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	IsPublic  bool       `json:"is_public"`
	PublicID  string     `json:"public_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"` // UTC
	UpdatedAt *time.Time `json:"updated_at"` // UTC
}

// PublicNote is what anonymous readers see of a shared note.
type PublicNote struct {
	PublicID  string     `json:"public_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (n Note) Public() PublicNote {
	return PublicNote{
		PublicID:  n.PublicID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NewNote contains information needed to create a new Note.
type NewNote struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Title     string `json:"title" validate:"required,notblank,max=300"`
	Content   string `json:"content" validate:"required,notblank"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.SubjectID = core.CleanString(nn.SubjectID)
	nn.Title = core.CleanString(nn.Title)
	return validate.Struct(nn)
}

// UpdateNote defines what information may be provided to modify an existing Note.
type UpdateNote struct {
	SubjectID *string `json:"subject_id"`
	Title     *string `json:"title" validate:"omitempty,max=300"`
	Content   *string `json:"content"`
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	core.CleanStringPtr(un.SubjectID)
	core.CleanStringPtr(un.Title)

	var flds []core.FieldError
	if un.SubjectID != nil && *un.SubjectID == "" {
		flds = append(flds, core.FieldError{Field: "subject_id", Error: "this field may not be blank"})
	}
	if un.Title != nil && *un.Title == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field may not be blank"})
	}
	if un.Content != nil && core.CleanString(*un.Content) == "" {
		flds = append(flds, core.FieldError{Field: "content", Error: "this field may not be blank"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("invalid note update"), flds...)
	}
	return validate.Struct(un)
}

func (un UpdateNote) apply(n *Note) {
	if un.SubjectID != nil {
		n.SubjectID = *un.SubjectID
	}
	if un.Title != nil {
		n.Title = *un.Title
	}
	if un.Content != nil {
		n.Content = *un.Content
	}
}

type QueryFilter struct {
	SubjectID string `query:"subject_id"`
	Search    string `query:"search"`
}

type Tag struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type NewTag struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

func (nt *NewTag) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name, true /* lower */)
	return validate.Struct(nt)
}
