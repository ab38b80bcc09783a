package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/pensum/core"
)

type Type string

const (
	TypeFlashcard    Type = "flashcard"
	TypeMCQBasic     Type = "mcq_basic"
	TypeMCQAI        Type = "mcq_ai"
	TypeReflectionAI Type = "reflection_ai"
)

// Question is a single quiz item. Flashcard questions carry no options.
type Question struct {
	ID            string   `json:"id"`
	Type          Type     `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	FrontText     string   `json:"front_text,omitempty"`
	BackText      string   `json:"back_text,omitempty"`
}

// Answer is what the user submitted for a question.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

type Session struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subject_id"`
	UserID      string     `json:"user_id"`
	Type        Type       `json:"type"`
	Questions   []Question `json:"questions"`
	Answers     []Answer   `json:"answers"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (s Session) Completed() bool {
	return s.CompletedAt != nil
}

// Score is the number of correctly answered questions.
func (s Session) Score() int {
	var score int
	for _, a := range s.Answers {
		if a.Correct {
			score++
		}
	}
	return score
}

func (s Session) answer(questionID string) (Answer, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

// Answered reports whether the question has been answered already.
func (s Session) Answered(questionID string) bool {
	_, ok := s.answer(questionID)
	return ok
}

func (s Session) question(questionID string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy of s, so callers never share state with a store.
func (s Session) Clone() Session {
	c := s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Questions[i] = q
	}
	c.Answers = append([]Answer{}, s.Answers...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// Redacted returns a copy of s hiding the answers of the questions not answered yet.
// Nothing is hidden once the session is completed.
func (s Session) Redacted() Session {
	c := s.Clone()
	if c.Completed() {
		return c
	}
	for i, q := range c.Questions {
		if !c.Answered(q.ID) {
			c.Questions[i].CorrectAnswer = ""
			c.Questions[i].BackText = ""
		}
	}
	return c
}

// NewSession contains information needed to start a quiz.
type NewSession struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Type      Type   `json:"type" validate:"required,oneof=flashcard mcq_basic mcq_ai reflection_ai"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.SubjectID = core.CleanString(ns.SubjectID)
	ns.Type = Type(core.CleanString(string(ns.Type), true /* lower */))
	return validate.Struct(ns)
}

type SubmitAnswer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

func (sa *SubmitAnswer) Validate(validate *validator.Validate) error {
	sa.QuestionID = core.CleanString(sa.QuestionID)
	return validate.Struct(sa)
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type QueryFilter struct {
	SubjectID string `query:"subject_id"`
}

type Flashcard struct {
	ID        string    `json:"id" db:"id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Front     string    `json:"front" db:"front"`
	Back      string    `json:"back" db:"back"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewFlashcard contains information needed to create a Flashcard.
type NewFlashcard struct {
	Front string `json:"front" validate:"required,notblank"`
	Back  string `json:"back" validate:"required,notblank"`
}

func (nf *NewFlashcard) Validate(validate *validator.Validate) error {
	nf.Front = core.CleanString(nf.Front)
	nf.Back = core.CleanString(nf.Back)
	return validate.Struct(nf)
}
