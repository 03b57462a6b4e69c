package repositories

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type bunUnitOfWork struct {
	db    *bun.DB
	cache *LedgerCache
}

// NewBunUnitOfWork builds the pooled repository bundle plus a UnitOfWork that
// rebinds the same repositories to a transaction for the duration of Do. The
// ledger cache is shared: pooled reads go through it, transactional writes
// evict the entries they touched once the transaction commits.
func NewBunUnitOfWork(db *bun.DB) (Repositories, UnitOfWork) {
	cache := NewLedgerCache()
	repos := Repositories{
		Missions:    NewMissionRepository(db),
		Rewards:     NewRewardRepository(db),
		Progression: NewProgressionRepository(db, cache),
	}
	return repos, &bunUnitOfWork{db: db, cache: cache}
}

func (u *bunUnitOfWork) Do(ctx context.Context, fn func(r Repositories) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var touched []string
	err := u.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(Repositories{
			Missions:    NewMissionRepository(tx),
			Rewards:     NewRewardRepository(tx),
			Progression: newTxProgressionRepository(tx, u.cache, &touched),
		})
	})
	if err != nil {
		return err
	}
	// Invalidate only after commit. Dropping entries while the transaction
	// is still open would let a concurrent reader re-cache the old row and
	// serve it past the commit.
	for _, playerID := range touched {
		u.cache.Remove(playerID)
	}
	return nil
}
