package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/subject"
	"github.com/trezcool/pensum/storage/database"
)

// NewConfig returns a test configuration backed by an in-memory sqlite database.
func NewConfig() *core.Config {
	conf := &core.Config{
		AppName:         "pensum",
		Env:             "TEST",
		TestMode:        true,
		FrontendBaseURL: "http://localhost:3000",
		DefaultFromName: "Pensum",
		DefaultFromAddr: "noreply@pensum.test",
	}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpirationDelta = time.Hour
	conf.Database.Engine = database.EngineSqlite
	conf.Database.Path = ":memory:"
	conf.Cache.TTL = time.Minute
	conf.Quiz.MinKeyFactLength = 5
	conf.Quiz.MaxDistractors = 3
	conf.Reminders.WithinDays = 7
	return conf
}

// PrepareDB opens a fresh, migrated in-memory database, closed when the test ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	t.Helper()
	cfg := NewConfig()
	if len(conf) > 0 {
		cfg = conf[0]
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db, cfg); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateSubject(t *testing.T, repo subject.Repository, userID, name string, examDate ...core.Date) subject.Subject {
	t.Helper()
	subj := subject.Subject{
		ID:        core.NewID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if len(examDate) > 0 {
		subj.ExamDate = &examDate[0]
	}
	subj, err := repo.CreateSubject(context.Background(), subj)
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func CreateNote(t *testing.T, repo note.Repository, subj subject.Subject, title, content string, createdAt ...time.Time) note.Note {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	n, err := repo.CreateNote(context.Background(), note.Note{
		ID:        core.NewID(),
		SubjectID: subj.ID,
		UserID:    subj.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}
	return n
}
