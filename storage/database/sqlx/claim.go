package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	identsvc "github.com/trezcool/karatasi/services/identity"
)

type claimStore struct {
	db *sqlx.DB
}

var _ identsvc.ClaimStore = (*claimStore)(nil) // interface compliance check

func NewClaimStore(db *sqlx.DB) *claimStore {
	return &claimStore{db: db}
}

func (store claimStore) GetRoleClaim(ctx context.Context, uid string) (string, error) {
	var role string
	if err := store.db.GetContext(ctx, &role, "SELECT role FROM auth_claim WHERE uid = $1", uid); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", errors.Wrap(err, "getting role claim")
	}
	return role, nil
}

func (store claimStore) SetRoleClaim(ctx context.Context, uid, role string) error {
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO auth_claim (uid, role)
		VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE SET role = EXCLUDED.role, updated_at = now()`,
		uid, role,
	)
	return errors.Wrap(err, "setting role claim")
}
