package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
)

type activityRepository struct {
	base
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(exec core.DBExecutor) *activityRepository {
	return &activityRepository{base{exec: exec}}
}

const activityColumns = "id, user_id, date, worked, wrote_notes, reviewed, quiz_taken"

func (repo activityRepository) upsert(ctx context.Context, day activity.Daily, onConflict string) (activity.Daily, error) {
	if day.ID == "" {
		day.ID = core.NewID()
	}
	_, err := repo.execute(ctx,
		"INSERT INTO study_activities ("+activityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT (user_id, date) DO UPDATE SET "+onConflict,
		day.ID, day.UserID, day.Date, day.Worked, day.WroteNotes, day.Reviewed, day.QuizTaken,
	)
	if err != nil {
		return activity.Daily{}, err
	}
	return repo.GetDaily(ctx, day.UserID, day.Date)
}

func (repo activityRepository) UpsertDaily(ctx context.Context, day activity.Daily) (activity.Daily, error) {
	day, err := repo.upsert(ctx, day,
		"worked = excluded.worked, wrote_notes = excluded.wrote_notes, "+
			"reviewed = excluded.reviewed, quiz_taken = excluded.quiz_taken",
	)
	return day, errors.Wrap(err, "upserting day")
}

func (repo activityRepository) MergeDaily(ctx context.Context, day activity.Daily) (activity.Daily, error) {
	day, err := repo.upsert(ctx, day,
		"worked = (study_activities.worked OR excluded.worked), "+
			"wrote_notes = (study_activities.wrote_notes OR excluded.wrote_notes), "+
			"reviewed = (study_activities.reviewed OR excluded.reviewed), "+
			"quiz_taken = (study_activities.quiz_taken OR excluded.quiz_taken)",
	)
	return day, errors.Wrap(err, "merging day")
}

func (repo activityRepository) GetDaily(ctx context.Context, userID string, date core.Date) (activity.Daily, error) {
	var day activity.Daily
	err := repo.get(ctx, &day, "SELECT "+activityColumns+" FROM study_activities WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		return activity.Daily{}, trapNoRowsErr(err, "selecting day")
	}
	return day, nil
}

func (repo activityRepository) QueryDaily(ctx context.Context, userID string, from, to core.Date) ([]activity.Daily, error) {
	days := make([]activity.Daily, 0)
	err := repo.selectAll(ctx, &days,
		"SELECT "+activityColumns+" FROM study_activities WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to,
	)
	return days, errors.Wrap(err, "selecting days")
}
