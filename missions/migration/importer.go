// Package migration imports the pre-rewrite app's Mongo export into the
// engine's PostgreSQL tables. Players, their owned rewards and their
// completed-mission history all live inline on one legacy document.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lingualink/gamify/missions/database/models"
)

const defaultBatchSize = 500

type Importer struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     ImportStats
}

func NewImporter(pgDB *bun.DB, client *mongo.Client, dbName string) *Importer {
	return &Importer{
		pgDB:      pgDB,
		mongoDB:   client.Database(dbName),
		batchSize: defaultBatchSize,
		stats: ImportStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
	}
}

// SetBatchSize overrides the insert batch size, useful behind poolers.
func (im *Importer) SetBatchSize(size int) {
	if size > 0 {
		im.batchSize = size
	}
}

// Run streams the legacy players collection and writes progression rows,
// rewards and history. Re-running is safe: a player whose progression row
// already exists is skipped on conflict, together with their reward and
// history rows, so history is never duplicated.
func (im *Importer) Run(ctx context.Context) (*ImportStats, error) {
	cur, err := im.mongoDB.Collection("players").Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy players: %w", err)
	}
	defer cur.Close(ctx)

	var (
		players []*models.PlayerProgression
		rewards []*models.SpecialReward
		history []*models.MissionHistoryEntry
	)

	flush := func() error {
		imported, err := im.insertPlayers(ctx, players)
		if err != nil {
			return err
		}

		keptRewards, skippedRewards := filterRewards(rewards, imported)
		im.stats.table("rewards").Skipped += skippedRewards
		if err := im.insertRewards(ctx, keptRewards); err != nil {
			return err
		}

		keptHistory, skippedHistory := filterHistory(history, imported)
		im.stats.table("history").Skipped += skippedHistory
		if err := im.insertHistory(ctx, keptHistory); err != nil {
			return err
		}
		players = players[:0]
		rewards = rewards[:0]
		history = history[:0]
		return nil
	}

	for cur.Next(ctx) {
		var lp LegacyPlayer
		if err := cur.Decode(&lp); err != nil {
			im.stats.table("players").Skipped++
			slog.Warn("Skipping undecodable legacy player",
				slog.String("type", "migration"),
				slog.Any("error", err))
			continue
		}
		if lp.PlayerID == "" {
			im.stats.table("players").Skipped++
			continue
		}

		player := im.convertPlayer(lp)
		players = append(players, player)
		for _, lr := range lp.Rewards {
			if lr.ID == "" {
				im.stats.table("rewards").Skipped++
				continue
			}
			rewards = append(rewards, im.convertReward(player.PlayerID, lr))
		}
		for _, lh := range lp.History {
			history = append(history, im.convertHistoryEntry(player.PlayerID, lh))
		}

		if len(players) >= im.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("legacy cursor failed: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	im.stats.Duration = time.Since(im.stats.StartTime)
	slog.Info("Legacy import completed",
		slog.String("type", "migration"),
		slog.Int("players", im.stats.table("players").Imported),
		slog.Int("rewards", im.stats.table("rewards").Imported),
		slog.Int("history", im.stats.table("history").Imported),
		slog.Duration("took", im.stats.Duration))
	return &im.stats, nil
}

// insertPlayers writes the batch and returns the ids that were actually
// inserted. Ids missing from the set hit the conflict clause, meaning the
// player was imported by an earlier run.
func (im *Importer) insertPlayers(ctx context.Context, players []*models.PlayerProgression) (map[string]struct{}, error) {
	imported := make(map[string]struct{}, len(players))
	if len(players) == 0 {
		return imported, nil
	}
	var insertedIDs []string
	_, err := im.pgDB.NewInsert().
		Model(&players).
		On("CONFLICT (player_id) DO NOTHING").
		Returning("player_id").
		Exec(ctx, &insertedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert players: %w", err)
	}
	for _, id := range insertedIDs {
		imported[id] = struct{}{}
	}
	im.stats.table("players").Imported += len(insertedIDs)
	im.stats.table("players").Skipped += len(players) - len(insertedIDs)
	return imported, nil
}

func filterRewards(rewards []*models.SpecialReward, imported map[string]struct{}) ([]*models.SpecialReward, int) {
	kept := rewards[:0]
	for _, r := range rewards {
		if _, ok := imported[r.PlayerID]; ok {
			kept = append(kept, r)
		}
	}
	return kept, len(rewards) - len(kept)
}

func filterHistory(entries []*models.MissionHistoryEntry, imported map[string]struct{}) ([]*models.MissionHistoryEntry, int) {
	kept := entries[:0]
	for _, e := range entries {
		if _, ok := imported[e.PlayerID]; ok {
			kept = append(kept, e)
		}
	}
	return kept, len(entries) - len(kept)
}

func (im *Importer) insertRewards(ctx context.Context, rewards []*models.SpecialReward) error {
	if len(rewards) == 0 {
		return nil
	}
	_, err := im.pgDB.NewInsert().
		Model(&rewards).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert rewards: %w", err)
	}
	im.stats.table("rewards").Imported += len(rewards)
	return nil
}

func (im *Importer) insertHistory(ctx context.Context, history []*models.MissionHistoryEntry) error {
	if len(history) == 0 {
		return nil
	}
	_, err := im.pgDB.NewInsert().
		Model(&history).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}
	im.stats.table("history").Imported += len(history)
	return nil
}
