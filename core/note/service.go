package note

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/cache"
	"github.com/trezcool/pensum/core/subject"
)

type (
	Repository interface {
		CreateNote(ctx context.Context, n Note) (Note, error)
		// QueryNotes returns all the user's notes, newest first.
		QueryNotes(ctx context.Context, userID string) ([]Note, error)
		GetNote(ctx context.Context, userID, id string) (Note, error)
		GetNoteByPublicID(ctx context.Context, publicID string) (Note, error)
		UpdateNote(ctx context.Context, n Note) (Note, error)
		DeleteNote(ctx context.Context, userID, id string) error
	}

	TagRepository interface {
		QueryTags(ctx context.Context) ([]Tag, error)
		GetTag(ctx context.Context, id string) (Tag, error)
		// GetOrCreateTag returns the tag named like tag, creating it if needed.
		GetOrCreateTag(ctx context.Context, tag Tag) (Tag, error)
		QueryNoteTags(ctx context.Context, noteID string) ([]Tag, error)
		AddNoteTag(ctx context.Context, noteID, tagID string) error
		RemoveNoteTag(ctx context.Context, noteID, tagID string) error
	}

	SubjectFinder interface {
		GetByID(ctx context.Context, userID, id string) (subject.Subject, error)
	}

	ActivityTracker interface {
		Track(ctx context.Context, userID string, kinds ...activity.Kind) error
	}

	Service struct {
		repo     Repository
		tags     TagRepository
		subjects SubjectFinder
		tracker  ActivityTracker
		logger   core.Logger
		cache    *cache.Cache[[]Note]
	}
)

func NewService(
	repo Repository,
	tags TagRepository,
	subjects SubjectFinder,
	tracker ActivityTracker,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		tags:     tags,
		subjects: subjects,
		tracker:  tracker,
		logger:   logger,
		cache:    cache.New[[]Note](conf.Cache.TTL),
	}
}

func cacheKey(userID string) string {
	return "notes:" + userID
}

// Forget drops the user's cached notes.
func (svc *Service) Forget(userID string) {
	svc.cache.Invalidate(cacheKey(userID))
}

func (svc *Service) checkSubject(ctx context.Context, userID, subjectID string) error {
	if _, err := svc.subjects.GetByID(ctx, userID, subjectID); err != nil {
		if core.IsNotFound(err) {
			return core.NewFieldValidationError("subject_id", "subject not found")
		}
		return errors.Wrap(err, "getting subject")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, userID string, nn NewNote) (Note, error) {
	if err := svc.checkSubject(ctx, userID, nn.SubjectID); err != nil {
		return Note{}, err
	}

	n, err := svc.repo.CreateNote(ctx, Note{
		ID:        core.NewID(),
		SubjectID: nn.SubjectID,
		UserID:    userID,
		Title:     nn.Title,
		Content:   nn.Content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Note{}, errors.Wrap(err, "creating note")
	}
	svc.Forget(userID)

	if err = svc.tracker.Track(ctx, userID, activity.KindWroteNotes); err != nil {
		svc.logger.Warn(fmt.Sprintf("tracking note activity: %v", err), err, core.Person{ID: userID})
	}
	return n, nil
}

func (svc *Service) all(ctx context.Context, userID string) ([]Note, error) {
	notes, err := svc.cache.Get(ctx, cacheKey(userID), func(ctx context.Context) ([]Note, error) {
		return svc.repo.QueryNotes(ctx, userID)
	})
	return notes, errors.Wrap(err, "querying notes")
}

// List returns the user's notes, newest first, narrowed by filter.
// With a search, the best matches come first.
func (svc *Service) List(ctx context.Context, userID string, filter QueryFilter) ([]Note, error) {
	notes, err := svc.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter.SubjectID != "" {
		notes = lo.Filter(notes, func(n Note, _ int) bool { return n.SubjectID == filter.SubjectID })
	} else {
		notes = append([]Note{}, notes...)
	}
	return search(notes, filter.Search), nil
}

// ListForQuiz returns the subject's notes, newest first like List.
func (svc *Service) ListForQuiz(ctx context.Context, userID, subjectID string) ([]Note, error) {
	return svc.List(ctx, userID, QueryFilter{SubjectID: subjectID})
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Note, error) {
	n, err := svc.repo.GetNote(ctx, userID, id)
	return n, errors.Wrap(err, "getting note")
}

func (svc *Service) Update(ctx context.Context, userID, id string, un UpdateNote) (Note, error) {
	n, err := svc.repo.GetNote(ctx, userID, id)
	if err != nil {
		return Note{}, errors.Wrap(err, "getting note")
	}
	if un.SubjectID != nil && *un.SubjectID != n.SubjectID {
		if err = svc.checkSubject(ctx, userID, *un.SubjectID); err != nil {
			return Note{}, err
		}
	}
	un.apply(&n)
	now := time.Now().UTC()
	n.UpdatedAt = &now

	n, err = svc.repo.UpdateNote(ctx, n)
	if err != nil {
		return Note{}, errors.Wrap(err, "updating note")
	}
	svc.Forget(userID)
	return n, nil
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if err := svc.repo.DeleteNote(ctx, userID, id); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	svc.Forget(userID)
	return nil
}

// ToggleShare flips the public visibility of the note.
// A public ID is assigned the first time the note is shared and kept afterwards.
func (svc *Service) ToggleShare(ctx context.Context, userID, id string) (Note, error) {
	n, err := svc.repo.GetNote(ctx, userID, id)
	if err != nil {
		return Note{}, errors.Wrap(err, "getting note")
	}
	n.IsPublic = !n.IsPublic
	if n.IsPublic && n.PublicID == "" {
		n.PublicID = core.NewPublicID()
	}

	n, err = svc.repo.UpdateNote(ctx, n)
	if err != nil {
		return Note{}, errors.Wrap(err, "sharing note")
	}
	svc.Forget(userID)
	return n, nil
}

// GetPublic returns a shared note. Notes that are not public are reported as not found.
func (svc *Service) GetPublic(ctx context.Context, publicID string) (PublicNote, error) {
	publicID = core.CleanString(publicID)
	if publicID == "" {
		return PublicNote{}, errors.Wrap(core.ErrNotFound, "public note")
	}
	n, err := svc.repo.GetNoteByPublicID(ctx, publicID)
	if err != nil {
		return PublicNote{}, errors.Wrap(err, "getting public note")
	}
	if !n.IsPublic {
		return PublicNote{}, errors.Wrap(core.ErrNotFound, "public note")
	}
	return n.Public(), nil
}

// Tags

func (svc *Service) ListTags(ctx context.Context) ([]Tag, error) {
	tags, err := svc.tags.QueryTags(ctx)
	return tags, errors.Wrap(err, "querying tags")
}

func (svc *Service) CreateTag(ctx context.Context, nt NewTag) (Tag, error) {
	tag, err := svc.tags.GetOrCreateTag(ctx, Tag{ID: core.NewID(), Name: nt.Name})
	return tag, errors.Wrap(err, "creating tag")
}

func (svc *Service) NoteTags(ctx context.Context, userID, noteID string) ([]Tag, error) {
	if _, err := svc.GetByID(ctx, userID, noteID); err != nil {
		return nil, err
	}
	tags, err := svc.tags.QueryNoteTags(ctx, noteID)
	return tags, errors.Wrap(err, "querying note tags")
}

func (svc *Service) AddTag(ctx context.Context, userID, noteID, tagID string) error {
	if _, err := svc.GetByID(ctx, userID, noteID); err != nil {
		return err
	}
	if _, err := svc.tags.GetTag(ctx, tagID); err != nil {
		return errors.Wrap(err, "getting tag")
	}
	return errors.Wrap(svc.tags.AddNoteTag(ctx, noteID, tagID), "tagging note")
}

func (svc *Service) RemoveTag(ctx context.Context, userID, noteID, tagID string) error {
	if _, err := svc.GetByID(ctx, userID, noteID); err != nil {
		return err
	}
	return errors.Wrap(svc.tags.RemoveNoteTag(ctx, noteID, tagID), "untagging note")
}
