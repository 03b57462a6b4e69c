// Package missions is the gamification engine: daily mission generation,
// progress tracking from activity events, idempotent claim settlement with
// rarity-escalated special rewards, and the lifetime progression ledger.
//
// The engine is a library boundary, invoked synchronously by the host. All
// exposed operations are safe to call concurrently, including for the same
// player.
package missions

import (
	"context"
	"fmt"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
	"github.com/lingualink/gamify/missions/interfaces"
	"github.com/lingualink/gamify/missions/services"
)

// Engine is the exposed API surface. Mutating calls serialize on a per-player
// mutex on top of the repository transaction, so two rapid events or a claim
// racing a progress update for one player apply in some serial order.
type Engine struct {
	generator *services.Generator
	tracker   *services.Tracker
	resolver  *services.Resolver
	ledger    *services.Ledger
	stats     *services.Stats

	repos repositories.Repositories
	uow   repositories.UnitOfWork
	clock interfaces.Clock
	locks playerLocks
}

// New wires an engine. clock, rng and sink may be nil; system defaults and a
// no-op sink are used.
func New(cat *catalog.Catalog, repos repositories.Repositories, uow repositories.UnitOfWork, clock interfaces.Clock, rng interfaces.RandomSource, sink interfaces.NotificationSink) *Engine {
	if clock == nil {
		clock = interfaces.SystemClock()
	}
	if rng == nil {
		rng = interfaces.SystemRand()
	}
	if sink == nil {
		sink = nopSink{}
	}

	ledger := services.NewLedger(cat, uow, clock)
	return &Engine{
		generator: services.NewGenerator(cat, uow, clock, rng, sink),
		tracker:   services.NewTracker(uow, clock, ledger, sink),
		resolver:  services.NewResolver(cat, uow, clock, rng, ledger),
		ledger:    ledger,
		stats:     services.NewStats(repos),
		repos:     repos,
		uow:       uow,
		clock:     clock,
	}
}

type nopSink struct{}

func (nopSink) MissionsRefreshed(string)        {}
func (nopSink) MissionCompleted(string, string) {}

// RefreshDailyMissions regenerates the player's daily set if today has not
// been generated yet.
func (e *Engine) RefreshDailyMissions(ctx context.Context, playerID string) error {
	defer e.locks.lock(playerID)()
	return e.generator.RefreshIfNewDay(ctx, playerID)
}

// ListActiveMissions returns the player's unexpired instances, refreshing the
// daily set first.
func (e *Engine) ListActiveMissions(ctx context.Context, playerID string) ([]*models.MissionInstance, error) {
	defer e.locks.lock(playerID)()
	if err := e.generator.RefreshIfNewDay(ctx, playerID); err != nil {
		return nil, err
	}
	return e.repos.Missions.GetActive(ctx, playerID, e.clock.Now())
}

// ApplyActionEvent routes one activity event into mission progress and the
// ledger's cumulative counters. The daily set is refreshed first so events
// always land on today's missions.
func (e *Engine) ApplyActionEvent(ctx context.Context, playerID string, action catalog.ActionType, value int) error {
	defer e.locks.lock(playerID)()
	if err := e.generator.RefreshIfNewDay(ctx, playerID); err != nil {
		return err
	}
	return e.tracker.Apply(ctx, playerID, action, value)
}

// Claim settles a completed mission exactly once. Repeat claims return a
// rejected result, not an error.
func (e *Engine) Claim(ctx context.Context, playerID string, missionID int64) (services.ClaimResult, error) {
	defer e.locks.lock(playerID)()
	return e.resolver.Claim(ctx, playerID, missionID)
}

// RecordDailyLogin counts today's login toward the streak and pays the login
// bonus once per calendar day.
func (e *Engine) RecordDailyLogin(ctx context.Context, playerID string) (services.LoginResult, error) {
	defer e.locks.lock(playerID)()
	return e.ledger.RecordDailyLogin(ctx, playerID)
}

// GetStats summarizes the player's lifetime mission activity.
func (e *Engine) GetStats(ctx context.Context, playerID string) (*services.PlayerStats, error) {
	return e.stats.PlayerStats(ctx, playerID)
}

// GetOwnedSpecialRewards lists the player's minted rewards, oldest first.
func (e *Engine) GetOwnedSpecialRewards(ctx context.Context, playerID string) ([]*models.SpecialReward, error) {
	return e.stats.OwnedRewards(ctx, playerID)
}

// ResetDaily is an admin and test operation: it deletes every instance, the
// compound counters and the cumulative action counters, and forces the next
// access to regenerate. Points, level and achievements are preserved.
func (e *Engine) ResetDaily(ctx context.Context, playerID string) error {
	defer e.locks.lock(playerID)()
	return e.uow.Do(ctx, func(r repositories.Repositories) error {
		if _, err := r.Missions.DeleteAll(ctx, playerID); err != nil {
			return fmt.Errorf("failed to delete mission instances: %w", err)
		}
		if err := r.Missions.DeleteCompound(ctx, playerID); err != nil {
			return fmt.Errorf("failed to delete compound progress: %w", err)
		}
		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		prog.ActionCounters = make(map[string]int64)
		prog.LastGeneratedDate = time.Time{}
		return r.Progression.Update(ctx, prog)
	})
}
