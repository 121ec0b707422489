package dummydb

import (
	"context"

	identsvc "github.com/trezcool/karatasi/services/identity"
)

type claimStore struct {
	db *claimTable
}

var _ identsvc.ClaimStore = (*claimStore)(nil) // interface compliance check

func NewClaimStore(db *DB) *claimStore {
	return &claimStore{db: db.claim}
}

func (store *claimStore) GetRoleClaim(ctx context.Context, uid string) (string, error) {
	store.db.RLock()
	defer store.db.RUnlock()
	return store.db.table[uid], nil
}

func (store *claimStore) SetRoleClaim(ctx context.Context, uid, role string) error {
	store.db.Lock()
	defer store.db.Unlock()
	store.db.table[uid] = role
	return nil
}
