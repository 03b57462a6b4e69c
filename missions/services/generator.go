// Package services holds the engine's business rules: daily generation,
// progress tracking, claim resolution, the progression ledger and stats.
// Services never hold player state of their own; everything lives behind the
// repositories and every mutating operation runs inside one unit of work.
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

type Generator struct {
	catalog *catalog.Catalog
	uow     repositories.UnitOfWork
	clock   interfaces.Clock
	rng     interfaces.RandomSource
	sink    interfaces.NotificationSink
}

func NewGenerator(cat *catalog.Catalog, uow repositories.UnitOfWork, clock interfaces.Clock, rng interfaces.RandomSource, sink interfaces.NotificationSink) *Generator {
	return &Generator{
		catalog: cat,
		uow:     uow,
		clock:   clock,
		rng:     rng,
		sink:    sink,
	}
}

// RefreshIfNewDay regenerates the player's daily mission set when the
// persisted last-generated date is behind today. A no-op on repeat calls the
// same day. The day marker is written last, so a failed generation is retried
// on the next access.
func (g *Generator) RefreshIfNewDay(ctx context.Context, playerID string) error {
	today := g.clock.Today()
	now := g.clock.Now()

	refreshed := false
	err := g.uow.Do(ctx, func(r repositories.Repositories) error {
		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		if sameDay(prog.LastGeneratedDate, today) {
			return nil
		}

		purged, err := r.Missions.DeleteExpiredUnclaimed(ctx, playerID, now)
		if err != nil {
			return fmt.Errorf("failed to purge stale missions: %w", err)
		}

		templates := g.catalog.SampleDaily(g.rng)
		instances := make([]*models.MissionInstance, 0, len(templates))
		compoundSampled := false
		for _, tmpl := range templates {
			instances = append(instances, newInstance(playerID, tmpl, now, endOfDay(today)))
			if tmpl.IsCompound() {
				compoundSampled = true
			}
		}

		if err := r.Missions.CreateAll(ctx, instances); err != nil {
			return fmt.Errorf("failed to create mission instances: %w", err)
		}

		// Compound counters only live while a legendary instance is
		// active. A fresh legendary starts from zero either way.
		if err := r.Missions.DeleteCompound(ctx, playerID); err != nil {
			return fmt.Errorf("failed to reset compound progress: %w", err)
		}
		if compoundSampled {
			cp := &models.CompoundProgress{PlayerID: playerID, UpdatedAt: now}
			if err := r.Missions.UpsertCompound(ctx, cp); err != nil {
				return fmt.Errorf("failed to seed compound progress: %w", err)
			}
		}

		// The marker advances only after every instance is written.
		prog.LastGeneratedDate = today
		if err := r.Progression.Update(ctx, prog); err != nil {
			return fmt.Errorf("failed to advance generation marker: %w", err)
		}

		refreshed = true
		slog.Debug("Daily missions generated",
			slog.String("player_id", playerID),
			slog.Int("missions", len(instances)),
			slog.Int("purged", purged),
			slog.Bool("compound", compoundSampled))
		return nil
	})
	if err != nil {
		return err
	}

	if refreshed {
		g.sink.MissionsRefreshed(playerID)
	}
	return nil
}

func newInstance(playerID string, tmpl catalog.MissionTemplate, now, expiresAt time.Time) *models.MissionInstance {
	return &models.MissionInstance{
		PlayerID:            playerID,
		TemplateID:          tmpl.ID,
		Title:               tmpl.Title,
		Description:         tmpl.Description,
		IconRef:             tmpl.IconRef,
		Action:              tmpl.Action,
		TargetValue:         tmpl.TargetValue,
		PointsReward:        tmpl.PointsReward,
		Rarity:              tmpl.Rarity,
		SpecialRewardChance: tmpl.SpecialRewardChance,
		CreatedAt:           now,
		ExpiresAt:           expiresAt,
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}
