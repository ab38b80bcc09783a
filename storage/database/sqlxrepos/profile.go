package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/profile"
)

type profileRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	LastSeen  time.Time `db:"last_seen"`
}

func (row profileRow) unboil() profile.Profile {
	return profile.Profile{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
		LastSeen:  row.LastSeen.UTC(),
	}
}

type profileRepository struct {
	base
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(exec core.DBExecutor) *profileRepository {
	return &profileRepository{base{exec: exec}}
}

const profileColumns = "id, email, name, created_at, updated_at, last_seen"

func (repo profileRepository) UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	_, err := repo.execute(ctx,
		"INSERT INTO profiles ("+profileColumns+") VALUES (?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT (id) DO UPDATE SET email = excluded.email, name = excluded.name, "+
			"updated_at = excluded.updated_at, last_seen = excluded.last_seen",
		p.ID, p.Email, p.Name, utc(p.CreatedAt), utc(p.UpdatedAt), utc(p.LastSeen),
	)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "upserting profile")
	}
	return repo.GetProfile(ctx, p.ID)
}

func (repo profileRepository) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	var row profileRow
	if err := repo.get(ctx, &row, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id); err != nil {
		return profile.Profile{}, trapNoRowsErr(err, "selecting profile")
	}
	return row.unboil(), nil
}

func (repo profileRepository) QueryProfiles(ctx context.Context) ([]profile.Profile, error) {
	var rows []profileRow
	if err := repo.selectAll(ctx, &rows, "SELECT "+profileColumns+" FROM profiles ORDER BY created_at, id"); err != nil {
		return nil, errors.Wrap(err, "selecting profiles")
	}
	profiles := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.unboil())
	}
	return profiles, nil
}
