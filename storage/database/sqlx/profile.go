package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/karatasi/core/identity"
)

type profileRow struct {
	UID       string    `db:"uid"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	LastLogin null.Time `db:"last_login"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r profileRow) model() identity.Profile {
	return identity.Profile{
		UID:       r.UID,
		Email:     r.Email,
		Role:      r.Role,
		LastLogin: r.LastLogin.Time,
	}
}

type profileRepository struct {
	db *sqlx.DB
}

var _ identity.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

// UpsertProfile merges the profile into the stored row: empty incoming
// fields never erase what a concurrent writer stored.
func (repo profileRepository) UpsertProfile(ctx context.Context, prof identity.Profile) (identity.Profile, error) {
	var row profileRow
	err := repo.db.GetContext(ctx, &row, `
		INSERT INTO user_profile (uid, email, role, last_login)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE SET
			email      = COALESCE(NULLIF(EXCLUDED.email, ''), user_profile.email),
			role       = COALESCE(NULLIF(EXCLUDED.role, ''), user_profile.role),
			last_login = COALESCE(EXCLUDED.last_login, user_profile.last_login),
			updated_at = now()
		RETURNING *`,
		prof.UID, prof.Email, prof.Role, null.NewTime(prof.LastLogin.UTC(), !prof.LastLogin.IsZero()),
	)
	if err != nil {
		return identity.Profile{}, errors.Wrap(err, "upserting profile")
	}
	return row.model(), nil
}

func (repo profileRepository) GetProfileByUID(ctx context.Context, uid string) (identity.Profile, error) {
	var row profileRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM user_profile WHERE uid = $1", uid); err != nil {
		if err == sql.ErrNoRows {
			return identity.Profile{}, identity.ErrProfileNotFound
		}
		return identity.Profile{}, errors.Wrap(err, "getting profile")
	}
	return row.model(), nil
}
