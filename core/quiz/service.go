package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/subject"
)

var (
	errNotEnoughContent = "not enough content to quiz on"
	errUnsupportedType  = "quiz type not supported"
	errCompleted        = errors.New("quiz session already completed")
)

type (
	// SessionStore keeps quiz sessions for as long as the process lives.
	SessionStore interface {
		CreateSession(ctx context.Context, s Session) error
		GetSession(ctx context.Context, id string) (Session, error)
		// UpdateSession applies fn to the stored session atomically. The session is saved only if fn succeeds.
		UpdateSession(ctx context.Context, id string, fn func(s *Session) error) (Session, error)
		// QuerySessions returns the user's sessions, newest first, optionally limited to a subject.
		QuerySessions(ctx context.Context, userID, subjectID string) ([]Session, error)
	}

	FlashcardRepository interface {
		CreateFlashcard(ctx context.Context, fc Flashcard) (Flashcard, error)
		// QueryFlashcards returns the subject's flashcards, oldest first.
		QueryFlashcards(ctx context.Context, subjectID string) ([]Flashcard, error)
		DeleteFlashcard(ctx context.Context, subjectID, id string) error
	}

	SubjectFinder interface {
		GetByID(ctx context.Context, userID, id string) (subject.Subject, error)
	}

	NoteLister interface {
		ListForQuiz(ctx context.Context, userID, subjectID string) ([]note.Note, error)
	}

	ActivityTracker interface {
		Track(ctx context.Context, userID string, kinds ...activity.Kind) error
	}

	Service struct {
		flashcards FlashcardRepository
		sessions   SessionStore
		subjects   SubjectFinder
		notes      NoteLister
		tracker    ActivityTracker
		gen        *Generator
		logger     core.Logger
		now        func() time.Time
	}
)

func NewService(
	flashcards FlashcardRepository,
	sessions SessionStore,
	subjects SubjectFinder,
	notes NoteLister,
	tracker ActivityTracker,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		flashcards: flashcards,
		sessions:   sessions,
		subjects:   subjects,
		notes:      notes,
		tracker:    tracker,
		gen: NewGenerator(
			WithMinKeyFactLength(conf.Quiz.MinKeyFactLength),
			WithMaxDistractors(conf.Quiz.MaxDistractors),
		),
		logger: logger,
		now:    time.Now,
	}
}

// Generator returns the generator the service builds basic quizzes with.
func (svc *Service) Generator() *Generator {
	return svc.gen
}

func (svc *Service) getSubject(ctx context.Context, userID, subjectID string) error {
	_, err := svc.subjects.GetByID(ctx, userID, subjectID)
	return errors.Wrap(err, "getting subject")
}

// Preview generates the basic questions of a subject without starting a session.
func (svc *Service) Preview(ctx context.Context, userID, subjectID string) ([]Question, error) {
	if err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	notes, err := svc.notes.ListForQuiz(ctx, userID, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "listing notes")
	}
	sources := lo.Map(notes, func(n note.Note, _ int) Source {
		return Source{Title: n.Title, Content: n.Content}
	})
	questions := svc.gen.Generate(sources)
	if skipped := len(notes) - len(questions); skipped > 0 {
		svc.logger.Debug(fmt.Sprintf("quiz: %d of %d notes of subject %s produced no question", skipped, len(notes), subjectID))
	}
	return questions, nil
}

func (svc *Service) flashcardQuestions(ctx context.Context, subjectID string) ([]Question, error) {
	cards, err := svc.flashcards.QueryFlashcards(ctx, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying flashcards")
	}
	return lo.Map(cards, func(fc Flashcard, _ int) Question {
		return Question{
			ID:            fc.ID,
			Type:          TypeFlashcard,
			Question:      fc.Front,
			CorrectAnswer: fc.Back,
			FrontText:     fc.Front,
			BackText:      fc.Back,
		}
	}), nil
}

// Start builds the questions of a new quiz session and stores the session.
func (svc *Service) Start(ctx context.Context, userID string, ns NewSession) (Session, error) {
	var questions []Question
	var err error

	switch ns.Type {
	case TypeMCQBasic:
		questions, err = svc.Preview(ctx, userID, ns.SubjectID)
	case TypeFlashcard:
		if err = svc.getSubject(ctx, userID, ns.SubjectID); err == nil {
			questions, err = svc.flashcardQuestions(ctx, ns.SubjectID)
		}
	default:
		return Session{}, core.NewFieldValidationError("type", errUnsupportedType)
	}
	if err != nil {
		return Session{}, err
	}
	if len(questions) == 0 {
		return Session{}, core.NewFieldValidationError("subject_id", errNotEnoughContent)
	}

	sess := Session{
		ID:        core.NewID(),
		SubjectID: ns.SubjectID,
		UserID:    userID,
		Type:      ns.Type,
		Questions: questions,
		Answers:   []Answer{},
		StartedAt: svc.now().UTC(),
	}
	if err = svc.sessions.CreateSession(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "storing session")
	}
	return sess, nil
}

func (svc *Service) Get(ctx context.Context, userID, id string) (Session, error) {
	sess, err := svc.sessions.GetSession(ctx, id)
	if err != nil {
		return Session{}, errors.Wrap(err, "getting session")
	}
	if sess.UserID != userID {
		return Session{}, errors.Wrap(core.ErrNotFound, "session")
	}
	return sess, nil
}

func (svc *Service) List(ctx context.Context, userID string, filter QueryFilter) ([]Session, error) {
	sessions, err := svc.sessions.QuerySessions(ctx, userID, filter.SubjectID)
	return sessions, errors.Wrap(err, "querying sessions")
}

func (svc *Service) update(ctx context.Context, userID, id string, fn func(s *Session) error) (Session, error) {
	return svc.sessions.UpdateSession(ctx, id, func(s *Session) error {
		if s.UserID != userID {
			return errors.Wrap(core.ErrNotFound, "session")
		}
		return fn(s)
	})
}

// Answer records the answer to a question. Answers are compared to the correct answer exactly.
// Answering again replaces the previous answer.
func (svc *Service) Answer(ctx context.Context, userID, id string, sa SubmitAnswer) (AnswerResult, error) {
	var res AnswerResult
	_, err := svc.update(ctx, userID, id, func(s *Session) error {
		if s.Completed() {
			return core.NewValidationError(errCompleted)
		}
		q, ok := s.question(sa.QuestionID)
		if !ok {
			return errors.Wrap(core.ErrNotFound, "question")
		}

		res = AnswerResult{Correct: sa.Answer == q.CorrectAnswer, CorrectAnswer: q.CorrectAnswer}
		ans := Answer{
			QuestionID: q.ID,
			Answer:     sa.Answer,
			Correct:    res.Correct,
			AnsweredAt: svc.now().UTC(),
		}
		if _, idx, found := lo.FindIndexOf(s.Answers, func(a Answer) bool { return a.QuestionID == q.ID }); found {
			s.Answers[idx] = ans
		} else {
			s.Answers = append(s.Answers, ans)
		}
		return nil
	})
	if err != nil {
		return AnswerResult{}, errors.Wrap(err, "answering question")
	}
	return res, nil
}

// Complete marks the session as completed and records the activity. Completing twice is a no-op.
func (svc *Service) Complete(ctx context.Context, userID, id string) (Session, error) {
	var alreadyDone bool
	sess, err := svc.update(ctx, userID, id, func(s *Session) error {
		if s.Completed() {
			alreadyDone = true
			return nil
		}
		now := svc.now().UTC()
		s.CompletedAt = &now
		return nil
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "completing session")
	}

	if !alreadyDone {
		kind := activity.KindQuizTaken
		if sess.Type == TypeFlashcard {
			kind = activity.KindReviewed
		}
		if err = svc.tracker.Track(ctx, userID, kind); err != nil {
			svc.logger.Warn(fmt.Sprintf("tracking quiz activity: %v", err), err, core.Person{ID: userID})
		}
	}
	return sess, nil
}

// Flashcards

func (svc *Service) ListFlashcards(ctx context.Context, userID, subjectID string) ([]Flashcard, error) {
	if err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	cards, err := svc.flashcards.QueryFlashcards(ctx, subjectID)
	return cards, errors.Wrap(err, "querying flashcards")
}

func (svc *Service) CreateFlashcard(ctx context.Context, userID, subjectID string, nf NewFlashcard) (Flashcard, error) {
	if err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return Flashcard{}, err
	}
	fc, err := svc.flashcards.CreateFlashcard(ctx, Flashcard{
		ID:        core.NewID(),
		SubjectID: subjectID,
		Front:     nf.Front,
		Back:      nf.Back,
		CreatedAt: svc.now().UTC(),
	})
	return fc, errors.Wrap(err, "creating flashcard")
}

func (svc *Service) DeleteFlashcard(ctx context.Context, userID, subjectID, id string) error {
	if err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return errors.Wrap(svc.flashcards.DeleteFlashcard(ctx, subjectID, id), "deleting flashcard")
}
