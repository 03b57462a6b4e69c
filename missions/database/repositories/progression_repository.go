package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/database/models"
)

const (
	ledgerCacheSize   = 10000
	ledgerCacheExpiry = 5 * time.Minute
)

// cachedLedger represents a cached progression entry
type cachedLedger struct {
	progression *models.PlayerProgression
	timestamp   time.Time
}

// LedgerCache is a process-wide read cache for player progression rows. It is
// shared between the pooled repository and any transaction-bound repositories
// so that writes inside a transaction invalidate reads outside it.
type LedgerCache struct {
	cache *lru.Cache
}

// NewLedgerCache creates a ledger cache with a fixed entry limit.
func NewLedgerCache() *LedgerCache {
	cache, _ := lru.New(ledgerCacheSize)
	return &LedgerCache{cache: cache}
}

func (c *LedgerCache) get(playerID string) (*models.PlayerProgression, bool) {
	if c == nil {
		return nil, false
	}
	if entry, ok := c.cache.Get(playerID); ok {
		cached := entry.(cachedLedger)
		if time.Since(cached.timestamp) < ledgerCacheExpiry {
			return cloneLedger(cached.progression), true
		}
		c.cache.Remove(playerID)
	}
	return nil, false
}

func (c *LedgerCache) put(progression *models.PlayerProgression) {
	if c == nil {
		return
	}
	c.cache.Add(progression.PlayerID, cachedLedger{
		progression: cloneLedger(progression),
		timestamp:   time.Now(),
	})
}

// cloneLedger deep-copies a row. Callers mutate returned rows freely, so the
// cached copy must not share slices or maps with them.
func cloneLedger(p *models.PlayerProgression) *models.PlayerProgression {
	clone := *p
	clone.Achievements = append([]string(nil), p.Achievements...)
	clone.OwnedRewardIDs = append([]string(nil), p.OwnedRewardIDs...)
	clone.ActionCounters = make(map[string]int64, len(p.ActionCounters))
	for k, v := range p.ActionCounters {
		clone.ActionCounters[k] = v
	}
	return &clone
}

// Remove drops a player's cached entry.
func (c *LedgerCache) Remove(playerID string) {
	if c == nil {
		return
	}
	c.cache.Remove(playerID)
}

type progressionRepository struct {
	db    bun.IDB
	cache *LedgerCache
}

// NewProgressionRepository returns a ProgressionRepository over a bun database
// or transaction handle. The cache may be nil to disable read caching.
func NewProgressionRepository(db bun.IDB, cache *LedgerCache) ProgressionRepository {
	return &progressionRepository{db: db, cache: cache}
}

func (r *progressionRepository) GetOrCreate(ctx context.Context, playerID string) (*models.PlayerProgression, error) {
	if cached, ok := r.cache.get(playerID); ok {
		return cached, nil
	}

	progression := new(models.PlayerProgression)
	err := r.db.NewSelect().
		Model(progression).
		Where("player_id = ?", playerID).
		Scan(ctx)

	if err == nil {
		r.cache.put(progression)
		return progression, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("get_or_create", "player_progression", err)
	}

	progression = models.NewPlayerProgression(playerID)
	_, err = r.db.NewInsert().
		Model(progression).
		On("CONFLICT (player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, wrapErr("get_or_create", "player_progression", err)
	}

	// A concurrent insert may have won the conflict, re-read the row so the
	// caller always sees what is in the database.
	err = r.db.NewSelect().
		Model(progression).
		Where("player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		return nil, wrapErr("get_or_create", "player_progression", err)
	}

	r.cache.put(progression)
	return progression, nil
}

func (r *progressionRepository) Update(ctx context.Context, progression *models.PlayerProgression) error {
	progression.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(progression).
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrapErr("update", "player_progression", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return wrapErr("update", "player_progression", err)
	}
	if rows == 0 {
		return wrapErr("update", "player_progression", &NotFoundError{Entity: "player_progression", ID: progression.PlayerID})
	}

	r.cache.Remove(progression.PlayerID)
	return nil
}

// txProgressionRepository is the transaction-bound variant. Reads go straight
// to the transaction handle: a read-modify-write inside a transaction must
// never start from a cache entry another goroutine refreshed mid-flight, or
// the overwrite on commit would drop that goroutine's points and counters.
// Invalidation is collected per write and flushed only after commit.
type txProgressionRepository struct {
	inner   ProgressionRepository
	cache   *LedgerCache
	touched *[]string
}

func newTxProgressionRepository(tx bun.IDB, cache *LedgerCache, touched *[]string) ProgressionRepository {
	return &txProgressionRepository{
		inner:   NewProgressionRepository(tx, nil),
		cache:   cache,
		touched: touched,
	}
}

func (r *txProgressionRepository) GetOrCreate(ctx context.Context, playerID string) (*models.PlayerProgression, error) {
	return r.inner.GetOrCreate(ctx, playerID)
}

func (r *txProgressionRepository) Update(ctx context.Context, progression *models.PlayerProgression) error {
	if err := r.inner.Update(ctx, progression); err != nil {
		return err
	}
	*r.touched = append(*r.touched, progression.PlayerID)
	return nil
}
