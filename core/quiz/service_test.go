package quiz_test

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/quiz"
	"github.com/trezcool/pensum/core/subject"
	dummydb "github.com/trezcool/pensum/storage/database/dummy"
)

type subjects map[string]subject.Subject

func (s subjects) GetByID(_ context.Context, userID, id string) (subject.Subject, error) {
	if subj, ok := s[id]; ok && subj.UserID == userID {
		return subj, nil
	}
	return subject.Subject{}, errors.Wrap(core.ErrNotFound, "subject")
}

type notes map[string][]note.Note // by subject ID

func (n notes) ListForQuiz(_ context.Context, _, subjectID string) ([]note.Note, error) {
	return n[subjectID], nil
}

type flashcards struct {
	mu    sync.Mutex
	cards []quiz.Flashcard
}

func (f *flashcards) CreateFlashcard(_ context.Context, fc quiz.Flashcard) (quiz.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, fc)
	return fc, nil
}

func (f *flashcards) QueryFlashcards(_ context.Context, subjectID string) ([]quiz.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []quiz.Flashcard
	for _, fc := range f.cards {
		if fc.SubjectID == subjectID {
			cards = append(cards, fc)
		}
	}
	return cards, nil
}

func (f *flashcards) DeleteFlashcard(_ context.Context, subjectID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, fc := range f.cards {
		if fc.ID == id && fc.SubjectID == subjectID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

type tracker struct {
	mu      sync.Mutex
	tracked []activity.Kind
}

func (tr *tracker) Track(_ context.Context, _ string, kinds ...activity.Kind) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tracked = append(tr.tracked, kinds...)
	return nil
}

type testLogger struct{ *log.Logger }

func (l testLogger) Debug(msg string, _ ...interface{}) { l.Println(msg) }
func (l testLogger) Info(msg string, _ ...interface{})  { l.Println(msg) }
func (l testLogger) Warn(msg string, _ ...interface{})  { l.Println(msg) }
func (l testLogger) Error(msg string, _ ...interface{}) { l.Println(msg) }
func (l testLogger) Fatal(msg string, _ ...interface{}) { l.Fatal(msg) }

func setup(t *testing.T) (*quiz.Service, *flashcards, *tracker) {
	t.Helper()
	subjs := subjects{
		"math":  {ID: "math", UserID: "u1"},
		"empty": {ID: "empty", UserID: "u1"},
		"hist":  {ID: "hist", UserID: "u2"},
	}
	now := time.Now()
	ns := notes{
		"math": {
			{ID: "n1", Title: "Derivatives", Content: "Derivation measures rate of change. More text.", CreatedAt: now},
			{ID: "n2", Title: "Integrals", Content: "Integration is the inverse of derivation. More.", CreatedAt: now},
			{ID: "n3", Title: "Tiny", Content: "Hi. Ok.", CreatedAt: now},
		},
		"empty": {
			{ID: "n4", Title: "Alone", Content: "Only one note here."},
		},
	}
	fcs := new(flashcards)
	tr := new(tracker)
	conf := &core.Config{Quiz: core.QuizConfig{MinKeyFactLength: 5, MaxDistractors: 3}}
	svc := quiz.NewService(fcs, dummydb.NewSessionStore(dummydb.Open()), subjs, ns, tr, conf, testLogger{log.New(io.Discard, "", 0)})
	return svc, fcs, tr
}

func TestService_Start(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	tests := []struct {
		name      string
		userID    string
		data      quiz.NewSession
		wantField string
		notFound  bool
		wantLen   int
	}{
		{name: "mcq", userID: "u1", data: quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQBasic}, wantLen: 2},
		{name: "not enough notes", userID: "u1", data: quiz.NewSession{SubjectID: "empty", Type: quiz.TypeMCQBasic}, wantField: "subject_id"},
		{name: "no flashcards", userID: "u1", data: quiz.NewSession{SubjectID: "math", Type: quiz.TypeFlashcard}, wantField: "subject_id"},
		{name: "ai types unsupported", userID: "u1", data: quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQAI}, wantField: "type"},
		{name: "other user's subject", userID: "u1", data: quiz.NewSession{SubjectID: "hist", Type: quiz.TypeMCQBasic}, notFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Start(ctx, tt.userID, tt.data)
			switch {
			case tt.wantField != "":
				var vErr *core.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
			case tt.notFound:
				assert.True(t, core.IsNotFound(err))
			default:
				require.NoError(t, err)
				assert.Len(t, sess.Questions, tt.wantLen)
				assert.Equal(t, tt.userID, sess.UserID)
				assert.False(t, sess.Completed())
				assert.Empty(t, sess.Answers)
			}
		})
	}
}

func TestService_AnswerAndComplete(t *testing.T) {
	ctx := context.Background()
	svc, _, tr := setup(t)

	sess, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQBasic})
	require.NoError(t, err)
	q := sess.Questions[0]
	assert.Equal(t, "Derivatives", q.Question)

	var wrong string
	for _, opt := range q.Options {
		if opt != q.CorrectAnswer {
			wrong = opt
		}
	}

	res, err := svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: q.ID, Answer: wrong})
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "Derivation measures rate of change.", res.CorrectAnswer)

	res, err = svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: q.ID, Answer: q.CorrectAnswer})
	require.NoError(t, err)
	assert.True(t, res.Correct)

	_, err = svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: "nope", Answer: "x"})
	assert.True(t, core.IsNotFound(err))

	_, err = svc.Answer(ctx, "u2", sess.ID, quiz.SubmitAnswer{QuestionID: q.ID, Answer: "x"})
	assert.True(t, core.IsNotFound(err))

	got, err := svc.Get(ctx, "u1", sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, 1, got.Score())
	assert.True(t, got.Answered(q.ID))

	done, err := svc.Complete(ctx, "u1", sess.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	again, err := svc.Complete(ctx, "u1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *done.CompletedAt, *again.CompletedAt)
	assert.Equal(t, []activity.Kind{activity.KindQuizTaken}, tr.tracked)

	_, err = svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: q.ID, Answer: q.CorrectAnswer})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.Get(ctx, "u2", sess.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestService_flashcards(t *testing.T) {
	ctx := context.Background()
	svc, _, tr := setup(t)

	_, err := svc.CreateFlashcard(ctx, "u2", "math", quiz.NewFlashcard{Front: "f", Back: "b"})
	assert.True(t, core.IsNotFound(err))

	fc1, err := svc.CreateFlashcard(ctx, "u1", "math", quiz.NewFlashcard{Front: "2 + 2", Back: "4"})
	require.NoError(t, err)
	_, err = svc.CreateFlashcard(ctx, "u1", "math", quiz.NewFlashcard{Front: "3 * 3", Back: "9"})
	require.NoError(t, err)

	cards, err := svc.ListFlashcards(ctx, "u1", "math")
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	sess, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "math", Type: quiz.TypeFlashcard})
	require.NoError(t, err)
	require.Len(t, sess.Questions, 2)
	assert.Equal(t, "2 + 2", sess.Questions[0].FrontText)
	assert.Equal(t, "4", sess.Questions[0].BackText)
	assert.Empty(t, sess.Questions[0].Options)

	res, err := svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: fc1.ID, Answer: "4"})
	require.NoError(t, err)
	assert.True(t, res.Correct)

	_, err = svc.Complete(ctx, "u1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []activity.Kind{activity.KindReviewed}, tr.tracked)

	require.NoError(t, svc.DeleteFlashcard(ctx, "u1", "math", fc1.ID))
	cards, err = svc.ListFlashcards(ctx, "u1", "math")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	first, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQBasic})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQBasic})
	require.NoError(t, err)

	sessions, err := svc.List(ctx, "u1", quiz.QueryFilter{SubjectID: "math"})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)

	sessions, err = svc.List(ctx, "u2", quiz.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestService_Answer_concurrent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	sess, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "math", Type: quiz.TypeMCQBasic})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, q := range sess.Questions {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(q quiz.Question) {
				defer wg.Done()
				_, err := svc.Answer(ctx, "u1", sess.ID, quiz.SubmitAnswer{QuestionID: q.ID, Answer: q.CorrectAnswer})
				assert.NoError(t, err)
			}(q)
		}
	}
	wg.Wait()

	got, err := svc.Get(ctx, "u1", sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, len(sess.Questions))
	assert.Equal(t, len(sess.Questions), got.Score())
}

func TestSession_Redacted(t *testing.T) {
	now := time.Now()
	sess := quiz.Session{
		Questions: []quiz.Question{
			{ID: "q1", CorrectAnswer: "a1", Options: []string{"a1", "b"}},
			{ID: "q2", CorrectAnswer: "a2", FrontText: "front", BackText: "a2"},
		},
		Answers: []quiz.Answer{{QuestionID: "q1", Answer: "b"}},
	}

	red := sess.Redacted()
	assert.Equal(t, "a1", red.Questions[0].CorrectAnswer)
	assert.Empty(t, red.Questions[1].CorrectAnswer)
	assert.Empty(t, red.Questions[1].BackText)
	assert.Equal(t, "front", red.Questions[1].FrontText)
	assert.Equal(t, "a2", sess.Questions[1].CorrectAnswer, "original untouched")

	sess.CompletedAt = &now
	assert.Equal(t, "a2", sess.Redacted().Questions[1].CorrectAnswer)
}

func TestService_StartFollowsNoteOrder(t *testing.T) {
	ctx := context.Background()
	subjs := subjects{"bio": {ID: "bio", UserID: "u1"}}
	ns := notes{ // as listed: newest first
		"bio": {
			{ID: "e", Title: "E", Content: "Enzymes speed up reactions."},
			{ID: "d", Title: "D", Content: "DNA stores genetic code."},
			{ID: "c", Title: "C", Content: "Cells are the unit of life."},
			{ID: "b", Title: "B", Content: "Bacteria are prokaryotes."},
			{ID: "a", Title: "A", Content: "Atoms make up molecules."},
		},
	}
	conf := &core.Config{Quiz: core.QuizConfig{MinKeyFactLength: 5, MaxDistractors: 3}}
	svc := quiz.NewService(new(flashcards), dummydb.NewSessionStore(dummydb.Open()), subjs, ns, new(tracker), conf, testLogger{log.New(io.Discard, "", 0)})

	sess, err := svc.Start(ctx, "u1", quiz.NewSession{SubjectID: "bio", Type: quiz.TypeMCQBasic})
	require.NoError(t, err)
	require.Len(t, sess.Questions, 5)

	titles := make([]string, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		titles = append(titles, q.Question)
	}
	assert.Equal(t, []string{"E", "D", "C", "B", "A"}, titles)

	// distractors are the first usable key facts of the other notes, in list order
	assert.ElementsMatch(t, []string{
		"Enzymes speed up reactions.", "DNA stores genetic code.", "Cells are the unit of life.", "Bacteria are prokaryotes.",
	}, sess.Questions[0].Options)
	assert.Equal(t, "Enzymes speed up reactions.", sess.Questions[0].CorrectAnswer)
	assert.ElementsMatch(t, []string{
		"Atoms make up molecules.", "Enzymes speed up reactions.", "DNA stores genetic code.", "Cells are the unit of life.",
	}, sess.Questions[4].Options)
	assert.Equal(t, "Atoms make up molecules.", sess.Questions[4].CorrectAnswer)
}
