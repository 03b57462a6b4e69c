// Package repositories defines the persistence interfaces the engine depends
// on, plus their PostgreSQL implementations over bun. The engine never
// assumes a specific storage engine; in-memory implementations back the test
// suite.
package repositories

import (
	"context"
	"time"

	"github.com/lingualink/gamify/missions/database/models"
)

// MissionRepository stores mission instances, compound progress and the
// append-only mission history, partitioned by player id.
type MissionRepository interface {
	// GetByID returns the player's instance, or nil when absent.
	GetByID(ctx context.Context, playerID string, id int64) (*models.MissionInstance, error)
	// GetActive returns the player's unexpired instances.
	GetActive(ctx context.Context, playerID string, now time.Time) ([]*models.MissionInstance, error)
	Create(ctx context.Context, instance *models.MissionInstance) error
	CreateAll(ctx context.Context, instances []*models.MissionInstance) error
	Update(ctx context.Context, instance *models.MissionInstance) error
	// DeleteExpiredUnclaimed retires stale unclaimed instances and returns
	// how many were removed. Claimed instances are never touched.
	DeleteExpiredUnclaimed(ctx context.Context, playerID string, now time.Time) (int, error)
	// DeleteAll removes every instance of the player (admin reset).
	DeleteAll(ctx context.Context, playerID string) (int, error)

	// GetCompound returns the player's compound progress row, or nil.
	GetCompound(ctx context.Context, playerID string) (*models.CompoundProgress, error)
	UpsertCompound(ctx context.Context, progress *models.CompoundProgress) error
	DeleteCompound(ctx context.Context, playerID string) error

	AppendHistory(ctx context.Context, entry *models.MissionHistoryEntry) error
	History(ctx context.Context, playerID string) ([]*models.MissionHistoryEntry, error)
}

// RewardRepository stores minted special rewards.
type RewardRepository interface {
	Create(ctx context.Context, reward *models.SpecialReward) error
	// Get returns the reward, or nil when absent.
	Get(ctx context.Context, id string) (*models.SpecialReward, error)
	GetByPlayer(ctx context.Context, playerID string) ([]*models.SpecialReward, error)
}

// ProgressionRepository stores the per-player lifetime ledger.
type ProgressionRepository interface {
	// GetOrCreate returns the player's ledger, creating a zeroed row on
	// first access.
	GetOrCreate(ctx context.Context, playerID string) (*models.PlayerProgression, error)
	Update(ctx context.Context, progression *models.PlayerProgression) error
}

// Repositories bundles the three stores so services can receive them as one
// dependency, inside or outside a transaction.
type Repositories struct {
	Missions    MissionRepository
	Rewards     RewardRepository
	Progression ProgressionRepository
}

// UnitOfWork runs a function against transaction-bound repositories: either
// every write in fn commits, or none do. Concurrent readers never observe a
// partial mutation.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
}
