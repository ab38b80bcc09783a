package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/cache"
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, subj Subject) (Subject, error)
		// QuerySubjects returns the user's subjects ordered by name.
		QuerySubjects(ctx context.Context, userID string) ([]Subject, error)
		GetSubject(ctx context.Context, userID, id string) (Subject, error)
		UpdateSubject(ctx context.Context, subj Subject) (Subject, error)
		// DeleteSubject also deletes everything attached to the subject.
		DeleteSubject(ctx context.Context, userID, id string) error
	}

	Service struct {
		repo  Repository
		cache *cache.Cache[[]Subject]
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New[[]Subject](conf.Cache.TTL),
	}
}

func cacheKey(userID string) string {
	return "subjects:" + userID
}

func (svc *Service) Create(ctx context.Context, userID string, ns NewSubject) (Subject, error) {
	subj, err := svc.repo.CreateSubject(ctx, Subject{
		ID:        core.NewID(),
		UserID:    userID,
		Name:      ns.Name,
		Semester:  ns.Semester,
		ExamDate:  ns.ExamDate,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Subject{}, errors.Wrap(err, "creating subject")
	}
	svc.cache.Invalidate(cacheKey(userID))
	return subj, nil
}

// List returns the user's subjects ordered by name. Concurrent calls share one load.
func (svc *Service) List(ctx context.Context, userID string) ([]Subject, error) {
	subjects, err := svc.cache.Get(ctx, cacheKey(userID), func(ctx context.Context) ([]Subject, error) {
		return svc.repo.QuerySubjects(ctx, userID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return append([]Subject{}, subjects...), nil
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Subject, error) {
	subjects, err := svc.List(ctx, userID)
	if err != nil {
		return Subject{}, err
	}
	if subj, ok := lo.Find(subjects, func(s Subject) bool { return s.ID == id }); ok {
		return subj, nil
	}
	return Subject{}, errors.Wrap(core.ErrNotFound, "subject")
}

func (svc *Service) Update(ctx context.Context, userID, id string, us UpdateSubject) (Subject, error) {
	subj, err := svc.repo.GetSubject(ctx, userID, id)
	if err != nil {
		return Subject{}, errors.Wrap(err, "getting subject")
	}
	us.apply(&subj)

	subj, err = svc.repo.UpdateSubject(ctx, subj)
	if err != nil {
		return Subject{}, errors.Wrap(err, "updating subject")
	}
	svc.cache.Invalidate(cacheKey(userID))
	return subj, nil
}

// SetExamDate sets the subject's exam date. A nil date clears it.
func (svc *Service) SetExamDate(ctx context.Context, userID, id string, date *core.Date) (Subject, error) {
	return svc.Update(ctx, userID, id, UpdateSubject{ExamDate: date, ClearExamDate: date == nil})
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if err := svc.repo.DeleteSubject(ctx, userID, id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	svc.cache.Invalidate(cacheKey(userID))
	return nil
}
