package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
	"github.com/lingualink/gamify/missions/interfaces"
)

// Tracker applies activity events to the player's eligible mission instances
// and to the progression ledger's cumulative counters, in one atomic unit per
// event.
type Tracker struct {
	uow    repositories.UnitOfWork
	clock  interfaces.Clock
	ledger *Ledger
	sink   interfaces.NotificationSink
}

func NewTracker(uow repositories.UnitOfWork, clock interfaces.Clock, ledger *Ledger, sink interfaces.NotificationSink) *Tracker {
	return &Tracker{
		uow:    uow,
		clock:  clock,
		ledger: ledger,
		sink:   sink,
	}
}

// Apply routes one activity event. Zero eligible instances is a normal no-op;
// the ledger counters still advance. Corrupt rows surface as invariant
// errors, never as silent coercion.
func (t *Tracker) Apply(ctx context.Context, playerID string, action catalog.ActionType, value int) error {
	if value <= 0 {
		return fmt.Errorf("action value must be positive, got %d", value)
	}
	now := t.clock.Now()

	var completedTitles []string
	err := t.uow.Do(ctx, func(r repositories.Repositories) error {
		instances, err := r.Missions.GetActive(ctx, playerID, now)
		if err != nil {
			return fmt.Errorf("failed to load active missions: %w", err)
		}

		for _, inst := range instances {
			if err := inst.CheckInvariants(); err != nil {
				slog.Error("Corrupt mission instance",
					slog.String("player_id", playerID),
					slog.Int64("mission_id", inst.ID),
					slog.Any("error", err))
				return err
			}
			if inst.Completed {
				continue
			}

			var completed bool
			if inst.IsCompound() {
				completed, err = t.applyCompound(ctx, r, inst, action, value, now)
			} else {
				completed, err = t.applySimple(ctx, r, inst, action, value, now)
			}
			if err != nil {
				return err
			}
			if completed {
				completedTitles = append(completedTitles, inst.Title)
			}
		}

		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		t.ledger.applyAction(prog, action, value)
		return r.Progression.Update(ctx, prog)
	})
	if err != nil {
		return err
	}

	for _, title := range completedTitles {
		t.sink.MissionCompleted(playerID, title)
	}
	return nil
}

func (t *Tracker) applySimple(ctx context.Context, r repositories.Repositories, inst *models.MissionInstance, action catalog.ActionType, value int, now time.Time) (bool, error) {
	if inst.Action != action {
		return false, nil
	}

	inst.CurrentValue += value
	completed := inst.CurrentValue >= inst.TargetValue
	if completed {
		inst.Completed = true
		ts := now
		inst.CompletedAt = &ts
	}
	if err := r.Missions.Update(ctx, inst); err != nil {
		return false, fmt.Errorf("failed to update mission progress: %w", err)
	}
	return completed, nil
}

// applyCompound feeds the three independent counters. The instance's stored
// value is only the scaled display average; completion is gated strictly on
// the raw counters hitting their caps.
func (t *Tracker) applyCompound(ctx context.Context, r repositories.Repositories, inst *models.MissionInstance, action catalog.ActionType, value int, now time.Time) (bool, error) {
	cp, err := r.Missions.GetCompound(ctx, inst.PlayerID)
	if err != nil {
		return false, fmt.Errorf("failed to load compound progress: %w", err)
	}
	if cp == nil {
		cp = &models.CompoundProgress{PlayerID: inst.PlayerID}
	}

	if !cp.Add(action, value) {
		return false, nil
	}
	cp.UpdatedAt = now
	if err := r.Missions.UpsertCompound(ctx, cp); err != nil {
		return false, fmt.Errorf("failed to update compound progress: %w", err)
	}

	inst.CurrentValue = cp.DisplayValue(inst.TargetValue)
	completed := cp.Complete()
	if completed {
		inst.Completed = true
		ts := now
		inst.CompletedAt = &ts
	}
	if err := r.Missions.Update(ctx, inst); err != nil {
		return false, fmt.Errorf("failed to update mission progress: %w", err)
	}
	return completed, nil
}
