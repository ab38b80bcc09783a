package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/quiz"
)

type sessionStore struct {
	db *sessionTable
}

var _ quiz.SessionStore = (*sessionStore)(nil) // interface compliance check

func NewSessionStore(db *DB) quiz.SessionStore {
	return &sessionStore{db: db.session}
}

func (store *sessionStore) CreateSession(_ context.Context, s quiz.Session) error {
	store.db.Lock()
	defer store.db.Unlock()

	if _, ok := store.db.table[s.ID]; ok {
		return errors.Errorf("session %s already exists", s.ID)
	}
	sess := s.Clone()
	store.db.table[s.ID] = &sess
	return nil
}

func (store *sessionStore) GetSession(_ context.Context, id string) (quiz.Session, error) {
	store.db.RLock()
	defer store.db.RUnlock()

	if sess, ok := store.db.table[id]; ok {
		return sess.Clone(), nil
	}
	return quiz.Session{}, core.ErrNotFound
}

func (store *sessionStore) UpdateSession(_ context.Context, id string, fn func(s *quiz.Session) error) (quiz.Session, error) {
	store.db.Lock()
	defer store.db.Unlock()

	stored, ok := store.db.table[id]
	if !ok {
		return quiz.Session{}, core.ErrNotFound
	}
	sess := stored.Clone()
	if err := fn(&sess); err != nil {
		return quiz.Session{}, err
	}
	store.db.table[id] = &sess
	return sess.Clone(), nil
}

func (store *sessionStore) QuerySessions(_ context.Context, userID, subjectID string) ([]quiz.Session, error) {
	store.db.RLock()
	defer store.db.RUnlock()

	sessions := make([]quiz.Session, 0)
	for _, sess := range store.db.table {
		if sess.UserID != userID || (subjectID != "" && sess.SubjectID != subjectID) {
			continue
		}
		sessions = append(sessions, sess.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartedAt.After(sessions[j].StartedAt) })
	return sessions, nil
}
