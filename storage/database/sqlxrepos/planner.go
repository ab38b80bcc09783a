package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/planner"
)

type plannerRepository struct {
	base
	db core.DB
}

var _ planner.Repository = (*plannerRepository)(nil) // interface compliance check

// NewPlannerRepository needs a core.DB to insert reading lists in one transaction.
func NewPlannerRepository(db core.DB) *plannerRepository {
	return &plannerRepository{base: base{exec: db}, db: db}
}

const (
	deadlineColumns    = "id, subject_id, title, due_date, type, created_at"
	readingItemColumns = "id, subject_id, text, completed, position, created_at"
	goalColumns        = "id, subject_id, text, created_at"
)

// Deadlines

func (repo plannerRepository) CreateDeadline(ctx context.Context, d planner.Deadline) (planner.Deadline, error) {
	d.CreatedAt = utc(d.CreatedAt)
	_, err := repo.execute(ctx,
		"INSERT INTO deadlines ("+deadlineColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		d.ID, d.SubjectID, d.Title, d.DueDate, d.Type, d.CreatedAt,
	)
	if err != nil {
		return planner.Deadline{}, errors.Wrap(err, "inserting deadline")
	}
	return d, nil
}

func (repo plannerRepository) QueryDeadlines(ctx context.Context, subjectID string) ([]planner.Deadline, error) {
	deadlines := make([]planner.Deadline, 0)
	err := repo.selectAll(ctx, &deadlines,
		"SELECT "+deadlineColumns+" FROM deadlines WHERE subject_id = ? ORDER BY due_date, created_at",
		subjectID,
	)
	return deadlines, errors.Wrap(err, "selecting deadlines")
}

func (repo plannerRepository) QueryUserDeadlines(ctx context.Context, userID string, from, to core.Date) ([]planner.Deadline, error) {
	deadlines := make([]planner.Deadline, 0)
	err := repo.selectAll(ctx, &deadlines,
		`SELECT d.id, d.subject_id, d.title, d.due_date, d.type, d.created_at
		FROM deadlines d JOIN subjects s ON s.id = d.subject_id
		WHERE s.user_id = ? AND d.due_date >= ? AND d.due_date <= ?
		ORDER BY d.due_date, d.created_at`,
		userID, from, to,
	)
	return deadlines, errors.Wrap(err, "selecting user deadlines")
}

func (repo plannerRepository) DeleteDeadline(ctx context.Context, subjectID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM deadlines WHERE id = ? AND subject_id = ?", id, subjectID)
	return errors.Wrap(err, "deleting deadline")
}

// Reading list

func (repo plannerRepository) CreateReadingItems(ctx context.Context, items []planner.ReadingItem) ([]planner.ReadingItem, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind("INSERT INTO reading_items (" + readingItemColumns + ") VALUES (?, ?, ?, ?, ?, ?)")
	created := make([]planner.ReadingItem, 0, len(items))
	for _, it := range items {
		it.CreatedAt = utc(it.CreatedAt)
		if _, err = tx.ExecContext(ctx, query, it.ID, it.SubjectID, it.Text, it.Completed, it.Position, it.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "inserting reading item")
		}
		created = append(created, it)
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing reading items")
	}
	return created, nil
}

func (repo plannerRepository) QueryReadingItems(ctx context.Context, subjectID string) ([]planner.ReadingItem, error) {
	items := make([]planner.ReadingItem, 0)
	err := repo.selectAll(ctx, &items,
		"SELECT "+readingItemColumns+" FROM reading_items WHERE subject_id = ? ORDER BY position, created_at",
		subjectID,
	)
	return items, errors.Wrap(err, "selecting reading items")
}

func (repo plannerRepository) GetReadingItem(ctx context.Context, subjectID, id string) (planner.ReadingItem, error) {
	var item planner.ReadingItem
	err := repo.get(ctx, &item,
		"SELECT "+readingItemColumns+" FROM reading_items WHERE id = ? AND subject_id = ?",
		id, subjectID,
	)
	if err != nil {
		return planner.ReadingItem{}, trapNoRowsErr(err, "selecting reading item")
	}
	return item, nil
}

func (repo plannerRepository) UpdateReadingItem(ctx context.Context, item planner.ReadingItem) (planner.ReadingItem, error) {
	err := repo.executeOne(ctx,
		"UPDATE reading_items SET text = ?, completed = ?, position = ? WHERE id = ? AND subject_id = ?",
		item.Text, item.Completed, item.Position, item.ID, item.SubjectID,
	)
	if err != nil {
		return planner.ReadingItem{}, errors.Wrap(err, "updating reading item")
	}
	return item, nil
}

func (repo plannerRepository) DeleteReadingItem(ctx context.Context, subjectID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM reading_items WHERE id = ? AND subject_id = ?", id, subjectID)
	return errors.Wrap(err, "deleting reading item")
}

// Goals

func (repo plannerRepository) CreateGoal(ctx context.Context, g planner.Goal) (planner.Goal, error) {
	g.CreatedAt = utc(g.CreatedAt)
	_, err := repo.execute(ctx,
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?)",
		g.ID, g.SubjectID, g.Text, g.CreatedAt,
	)
	if err != nil {
		return planner.Goal{}, errors.Wrap(err, "inserting goal")
	}
	return g, nil
}

func (repo plannerRepository) QueryGoals(ctx context.Context, subjectID string) ([]planner.Goal, error) {
	goals := make([]planner.Goal, 0)
	err := repo.selectAll(ctx, &goals,
		"SELECT "+goalColumns+" FROM goals WHERE subject_id = ? ORDER BY created_at, id",
		subjectID,
	)
	return goals, errors.Wrap(err, "selecting goals")
}

func (repo plannerRepository) DeleteGoal(ctx context.Context, subjectID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM goals WHERE id = ? AND subject_id = ?", id, subjectID)
	return errors.Wrap(err, "deleting goal")
}
