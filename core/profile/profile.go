package profile

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/cache"
)

// Profile is the local record of a user of the identity provider.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
	LastSeen  time.Time `json:"last_seen"`  // UTC
}

func (p Profile) Person() core.Person {
	return core.Person{ID: p.ID, Name: p.Name, Email: p.Email}
}

type (
	Repository interface {
		// UpsertProfile creates the profile or refreshes its email, name and last seen time.
		UpsertProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfile(ctx context.Context, id string) (Profile, error)
		QueryProfiles(ctx context.Context) ([]Profile, error)
	}

	Service struct {
		repo  Repository
		cache *cache.Cache[Profile]
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New[Profile](conf.Cache.TTL),
	}
}

// Ensure records the profile of an authenticated user.
// The database is written at most once per cache period and user.
func (svc *Service) Ensure(ctx context.Context, id, email, name string) (Profile, error) {
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	load := func(ctx context.Context) (Profile, error) {
		now := time.Now().UTC()
		return svc.repo.UpsertProfile(ctx, Profile{
			ID:        id,
			Email:     email,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
			LastSeen:  now,
		})
	}

	p, err := svc.cache.Get(ctx, id, load)
	if err == nil && (p.Email != email || p.Name != name) { // claims changed since cached
		svc.cache.Invalidate(id)
		p, err = svc.cache.Get(ctx, id, load)
	}
	if err != nil {
		return Profile{}, errors.Wrap(err, "upserting profile")
	}
	return p, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	p, err := svc.repo.GetProfile(ctx, id)
	return p, errors.Wrap(err, "getting profile")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Profile, error) {
	profiles, err := svc.repo.QueryProfiles(ctx)
	return profiles, errors.Wrap(err, "querying profiles")
}
