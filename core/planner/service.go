package planner

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/subject"
)

type (
	Repository interface {
		CreateDeadline(ctx context.Context, d Deadline) (Deadline, error)
		// QueryDeadlines returns the subject's deadlines by due date.
		QueryDeadlines(ctx context.Context, subjectID string) ([]Deadline, error)
		// QueryUserDeadlines returns the deadlines of all the user's subjects due in [from, to], by due date.
		QueryUserDeadlines(ctx context.Context, userID string, from, to core.Date) ([]Deadline, error)
		DeleteDeadline(ctx context.Context, subjectID, id string) error

		CreateReadingItems(ctx context.Context, items []ReadingItem) ([]ReadingItem, error)
		// QueryReadingItems returns the subject's reading list in insertion order.
		QueryReadingItems(ctx context.Context, subjectID string) ([]ReadingItem, error)
		GetReadingItem(ctx context.Context, subjectID, id string) (ReadingItem, error)
		UpdateReadingItem(ctx context.Context, item ReadingItem) (ReadingItem, error)
		DeleteReadingItem(ctx context.Context, subjectID, id string) error

		CreateGoal(ctx context.Context, g Goal) (Goal, error)
		QueryGoals(ctx context.Context, subjectID string) ([]Goal, error)
		DeleteGoal(ctx context.Context, subjectID, id string) error
	}

	SubjectService interface {
		GetByID(ctx context.Context, userID, id string) (subject.Subject, error)
		List(ctx context.Context, userID string) ([]subject.Subject, error)
		SetExamDate(ctx context.Context, userID, id string, date *core.Date) (subject.Subject, error)
	}

	Service struct {
		repo     Repository
		subjects SubjectService
		now      func() time.Time
	}
)

func NewService(repo Repository, subjects SubjectService) *Service {
	return &Service{repo: repo, subjects: subjects, now: time.Now}
}

// SetClock overrides the service clock.
func (svc *Service) SetClock(now func() time.Time) {
	svc.now = now
}

func (svc *Service) getSubject(ctx context.Context, userID, subjectID string) (subject.Subject, error) {
	subj, err := svc.subjects.GetByID(ctx, userID, subjectID)
	return subj, errors.Wrap(err, "getting subject")
}

func (svc *Service) Overview(ctx context.Context, userID, subjectID string) (Overview, error) {
	subj, err := svc.getSubject(ctx, userID, subjectID)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{SubjectID: subj.ID, ExamDate: subj.ExamDate}
	if subj.ExamDate != nil {
		days := core.DaysUntil(svc.now(), *subj.ExamDate)
		ov.DaysUntilExam = &days
	}
	if ov.Deadlines, err = svc.repo.QueryDeadlines(ctx, subjectID); err != nil {
		return Overview{}, errors.Wrap(err, "querying deadlines")
	}
	if ov.ReadingItems, err = svc.repo.QueryReadingItems(ctx, subjectID); err != nil {
		return Overview{}, errors.Wrap(err, "querying reading items")
	}
	if ov.Goals, err = svc.repo.QueryGoals(ctx, subjectID); err != nil {
		return Overview{}, errors.Wrap(err, "querying goals")
	}
	return ov, nil
}

func (svc *Service) SetExamDate(ctx context.Context, userID, subjectID string, date *core.Date) (subject.Subject, error) {
	subj, err := svc.subjects.SetExamDate(ctx, userID, subjectID, date)
	return subj, errors.Wrap(err, "setting exam date")
}

// Deadlines

func (svc *Service) AddDeadline(ctx context.Context, userID, subjectID string, nd NewDeadline) (Deadline, error) {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return Deadline{}, err
	}
	d, err := svc.repo.CreateDeadline(ctx, Deadline{
		ID:        core.NewID(),
		SubjectID: subjectID,
		Title:     nd.Title,
		DueDate:   nd.DueDate,
		Type:      nd.Type,
		CreatedAt: svc.now().UTC(),
	})
	return d, errors.Wrap(err, "creating deadline")
}

func (svc *Service) RemoveDeadline(ctx context.Context, userID, subjectID, id string) error {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteDeadline(ctx, subjectID, id), "deleting deadline")
}

// Reading list

// AddReadingItems appends one item per text to the end of the subject's reading list.
func (svc *Service) AddReadingItems(ctx context.Context, userID, subjectID string, nr NewReadingItem) ([]ReadingItem, error) {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	existing, err := svc.repo.QueryReadingItems(ctx, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying reading items")
	}
	next := 0
	if len(existing) > 0 {
		next = lo.MaxBy(existing, func(a, b ReadingItem) bool { return a.Position > b.Position }).Position + 1
	}

	now := svc.now().UTC()
	items := lo.Map(nr.Texts(), func(text string, i int) ReadingItem {
		return ReadingItem{
			ID:        core.NewID(),
			SubjectID: subjectID,
			Text:      text,
			Position:  next + i,
			CreatedAt: now,
		}
	})
	items, err = svc.repo.CreateReadingItems(ctx, items)
	return items, errors.Wrap(err, "creating reading items")
}

func (svc *Service) ToggleReadingItem(ctx context.Context, userID, subjectID, id string) (ReadingItem, error) {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return ReadingItem{}, err
	}
	item, err := svc.repo.GetReadingItem(ctx, subjectID, id)
	if err != nil {
		return ReadingItem{}, errors.Wrap(err, "getting reading item")
	}
	item.Completed = !item.Completed
	item, err = svc.repo.UpdateReadingItem(ctx, item)
	return item, errors.Wrap(err, "updating reading item")
}

func (svc *Service) RemoveReadingItem(ctx context.Context, userID, subjectID, id string) error {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteReadingItem(ctx, subjectID, id), "deleting reading item")
}

// Goals

func (svc *Service) AddGoal(ctx context.Context, userID, subjectID string, ng NewGoal) (Goal, error) {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return Goal{}, err
	}
	g, err := svc.repo.CreateGoal(ctx, Goal{
		ID:        core.NewID(),
		SubjectID: subjectID,
		Text:      ng.Text,
		CreatedAt: svc.now().UTC(),
	})
	return g, errors.Wrap(err, "creating goal")
}

func (svc *Service) RemoveGoal(ctx context.Context, userID, subjectID, id string) error {
	if _, err := svc.getSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteGoal(ctx, subjectID, id), "deleting goal")
}

// Upcoming returns the user's exams and deadlines falling within the next `within` days, soonest first.
func (svc *Service) Upcoming(ctx context.Context, userID string, within int) ([]UpcomingItem, error) {
	now := svc.now()
	today := core.DateOf(now)
	last := today.AddDays(within)

	subjects, err := svc.subjects.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing subjects")
	}
	names := make(map[string]string, len(subjects))
	var items []UpcomingItem
	for _, subj := range subjects {
		names[subj.ID] = subj.Name
		if subj.ExamDate == nil || subj.ExamDate.Before(today) || subj.ExamDate.After(last) {
			continue
		}
		items = append(items, UpcomingItem{
			SubjectID: subj.ID,
			Subject:   subj.Name,
			Title:     "Exam",
			Kind:      "exam",
			Date:      *subj.ExamDate,
			DaysLeft:  core.DaysUntil(now, *subj.ExamDate),
		})
	}

	deadlines, err := svc.repo.QueryUserDeadlines(ctx, userID, today, last)
	if err != nil {
		return nil, errors.Wrap(err, "querying deadlines")
	}
	for _, d := range deadlines {
		items = append(items, UpcomingItem{
			SubjectID: d.SubjectID,
			Subject:   names[d.SubjectID],
			Title:     d.Title,
			Kind:      string(d.Type),
			Date:      d.DueDate,
			DaysLeft:  core.DaysUntil(now, d.DueDate),
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items, nil
}
