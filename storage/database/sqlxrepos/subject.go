package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/subject"
)

type subjectRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Semester  string    `db:"semester"`
	ExamDate  null.Time `db:"exam_date"`
	CreatedAt time.Time `db:"created_at"`
}

type subjectRepository struct {
	base
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(exec core.DBExecutor) *subjectRepository {
	return &subjectRepository{base{exec: exec}}
}

func boilDate(d *core.Date) null.Time {
	if d == nil || d.IsZero() {
		return null.Time{}
	}
	return null.TimeFrom(d.Time)
}

func unboilDate(t null.Time) *core.Date {
	if !t.Valid {
		return nil
	}
	d := core.DateOf(t.Time)
	return &d
}

func (repo subjectRepository) boil(subj subject.Subject) subjectRow {
	return subjectRow{
		ID:        subj.ID,
		UserID:    subj.UserID,
		Name:      subj.Name,
		Semester:  subj.Semester,
		ExamDate:  boilDate(subj.ExamDate),
		CreatedAt: utc(subj.CreatedAt),
	}
}

func (repo subjectRepository) unboil(row subjectRow) subject.Subject {
	return subject.Subject{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Semester:  row.Semester,
		ExamDate:  unboilDate(row.ExamDate),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

const subjectColumns = "id, user_id, name, semester, exam_date, created_at"

func (repo subjectRepository) CreateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	row := repo.boil(subj)
	_, err := repo.execute(ctx,
		"INSERT INTO subjects ("+subjectColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		row.ID, row.UserID, row.Name, row.Semester, row.ExamDate, row.CreatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return repo.unboil(row), nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, userID string) ([]subject.Subject, error) {
	var rows []subjectRow
	err := repo.selectAll(ctx, &rows, "SELECT "+subjectColumns+" FROM subjects WHERE user_id = ? ORDER BY name, created_at", userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, repo.unboil(row))
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, userID, id string) (subject.Subject, error) {
	var row subjectRow
	err := repo.get(ctx, &row, "SELECT "+subjectColumns+" FROM subjects WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return subject.Subject{}, trapNoRowsErr(err, "selecting subject")
	}
	return repo.unboil(row), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	row := repo.boil(subj)
	err := repo.executeOne(ctx,
		"UPDATE subjects SET name = ?, semester = ?, exam_date = ? WHERE id = ? AND user_id = ?",
		row.Name, row.Semester, row.ExamDate, row.ID, row.UserID,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return repo.unboil(row), nil
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, userID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM subjects WHERE id = ? AND user_id = ?", id, userID)
	return errors.Wrap(err, "deleting subject")
}
