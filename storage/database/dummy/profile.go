package dummydb

import (
	"context"

	"github.com/trezcool/karatasi/core/identity"
)

type profileRepository struct {
	db *profileTable
}

var _ identity.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) UpsertProfile(ctx context.Context, prof identity.Profile) (identity.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	existing, ok := repo.db.table[prof.UID]
	if !ok {
		repo.db.table[prof.UID] = &prof
		return prof, nil
	}

	// merge: empty incoming fields never erase stored ones
	if prof.Email != "" {
		existing.Email = prof.Email
	}
	if prof.Role != "" {
		existing.Role = prof.Role
	}
	if !prof.LastLogin.IsZero() {
		existing.LastLogin = prof.LastLogin
	}
	return *existing, nil
}

func (repo *profileRepository) GetProfileByUID(ctx context.Context, uid string) (identity.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.table[uid]; ok {
		return *prof, nil
	}
	return identity.Profile{}, identity.ErrProfileNotFound
}
