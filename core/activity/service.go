package activity

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/pensum/core"
)

type (
	Repository interface {
		// UpsertDaily creates the day or overwrites its flags.
		UpsertDaily(ctx context.Context, day Daily) (Daily, error)
		// MergeDaily creates the day or sets the flags that are true in day, leaving the others untouched.
		MergeDaily(ctx context.Context, day Daily) (Daily, error)
		GetDaily(ctx context.Context, userID string, date core.Date) (Daily, error)
		// QueryDaily returns the days in [from, to] ordered by date.
		QueryDaily(ctx context.Context, userID string, from, to core.Date) ([]Daily, error)
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the service clock.
func (svc *Service) SetClock(now func() time.Time) {
	svc.now = now
}

func (svc *Service) Today() core.Date {
	return core.DateOf(svc.now())
}

func (svc *Service) Get(ctx context.Context, userID string, date core.Date) (Daily, error) {
	return svc.repo.GetDaily(ctx, userID, date)
}

// Save applies ud to the user's day, creating it if needed.
func (svc *Service) Save(ctx context.Context, userID string, date core.Date, ud UpdateDaily) (Daily, error) {
	day, err := svc.repo.GetDaily(ctx, userID, date)
	if err != nil {
		if !core.IsNotFound(err) {
			return Daily{}, errors.Wrap(err, "getting day")
		}
		day = Daily{UserID: userID, Date: date}
	}
	ud.apply(&day)

	day, err = svc.repo.UpsertDaily(ctx, day)
	return day, errors.Wrap(err, "saving day")
}

// Track records kinds on today's entry of the user.
func (svc *Service) Track(ctx context.Context, userID string, kinds ...Kind) error {
	if len(kinds) == 0 {
		return nil
	}
	day := Daily{UserID: userID, Date: svc.Today()}
	for _, kind := range kinds {
		day.Mark(kind)
	}
	_, err := svc.repo.MergeDaily(ctx, day)
	return errors.Wrap(err, "tracking activity")
}

// Query returns the user's days in the filter range; the current week when the range is empty.
func (svc *Service) Query(ctx context.Context, userID string, filter QueryFilter) ([]Daily, error) {
	from, to := filter.From, filter.To
	if from.IsZero() || to.IsZero() {
		monday, sunday := core.WeekRange(svc.now())
		if from.IsZero() {
			from = monday
		}
		if to.IsZero() {
			to = sunday
		}
	}
	days, err := svc.repo.QueryDaily(ctx, userID, from, to)
	return days, errors.Wrap(err, "querying days")
}

// Week returns the intensity of each day of the current week, Monday to Sunday.
func (svc *Service) Week(ctx context.Context, userID string) ([]DayIntensity, error) {
	monday, sunday := core.WeekRange(svc.now())
	days, err := svc.repo.QueryDaily(ctx, userID, monday, sunday)
	if err != nil {
		return nil, errors.Wrap(err, "querying week")
	}
	return WeekIntensities(monday, days), nil
}

// WeekIntensities lays days out on the 7 days starting at monday. Missing days have no intensity.
func WeekIntensities(monday core.Date, days []Daily) []DayIntensity {
	byDate := lo.KeyBy(days, func(d Daily) string { return d.Date.String() })
	return lo.Times(7, func(i int) DayIntensity {
		date := monday.AddDays(i)
		return DayIntensity{Date: date, Intensity: byDate[date.String()].Intensity()}
	})
}
