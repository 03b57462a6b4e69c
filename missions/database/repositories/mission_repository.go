package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/database/models"
)

type missionRepository struct {
	db bun.IDB
}

// NewMissionRepository returns a MissionRepository over a bun database or
// transaction handle.
func NewMissionRepository(db bun.IDB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) GetByID(ctx context.Context, playerID string, id int64) (*models.MissionInstance, error) {
	instance := new(models.MissionInstance)
	err := r.db.NewSelect().
		Model(instance).
		Where("player_id = ?", playerID).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get", "mission_instance", err)
	}

	return instance, nil
}

func (r *missionRepository) GetActive(ctx context.Context, playerID string, now time.Time) ([]*models.MissionInstance, error) {
	var instances []*models.MissionInstance
	err := r.db.NewSelect().
		Model(&instances).
		Where("player_id = ?", playerID).
		Where("expires_at > ?", now).
		Order("rarity DESC", "id ASC").
		Scan(ctx)

	if err != nil {
		return nil, wrapErr("get_active", "mission_instance", err)
	}

	return instances, nil
}

func (r *missionRepository) Create(ctx context.Context, instance *models.MissionInstance) error {
	_, err := r.db.NewInsert().Model(instance).Exec(ctx)
	return wrapErr("create", "mission_instance", err)
}

func (r *missionRepository) CreateAll(ctx context.Context, instances []*models.MissionInstance) error {
	if len(instances) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&instances).Exec(ctx)
	return wrapErr("create_all", "mission_instance", err)
}

func (r *missionRepository) Update(ctx context.Context, instance *models.MissionInstance) error {
	res, err := r.db.NewUpdate().
		Model(instance).
		WherePK().
		Where("player_id = ?", instance.PlayerID).
		Exec(ctx)
	if err != nil {
		return wrapErr("update", "mission_instance", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wrapErr("update", "mission_instance", &NotFoundError{Entity: "mission_instance", ID: instance.ID})
	}
	return nil
}

func (r *missionRepository) DeleteExpiredUnclaimed(ctx context.Context, playerID string, now time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*models.MissionInstance)(nil)).
		Where("player_id = ?", playerID).
		Where("expires_at < ?", now).
		Where("claimed = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, wrapErr("delete_expired", "mission_instance", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *missionRepository) DeleteAll(ctx context.Context, playerID string) (int, error) {
	res, err := r.db.NewDelete().
		Model((*models.MissionInstance)(nil)).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return 0, wrapErr("delete_all", "mission_instance", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *missionRepository) GetCompound(ctx context.Context, playerID string) (*models.CompoundProgress, error) {
	progress := new(models.CompoundProgress)
	err := r.db.NewSelect().
		Model(progress).
		Where("player_id = ?", playerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get", "compound_progress", err)
	}

	return progress, nil
}

func (r *missionRepository) UpsertCompound(ctx context.Context, progress *models.CompoundProgress) error {
	progress.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(progress).
		On("CONFLICT (player_id) DO UPDATE").
		Set("messages = EXCLUDED.messages").
		Set("translations = EXCLUDED.translations").
		Set("media = EXCLUDED.media").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	return wrapErr("upsert", "compound_progress", err)
}

func (r *missionRepository) DeleteCompound(ctx context.Context, playerID string) error {
	_, err := r.db.NewDelete().
		Model((*models.CompoundProgress)(nil)).
		Where("player_id = ?", playerID).
		Exec(ctx)
	return wrapErr("delete", "compound_progress", err)
}

func (r *missionRepository) AppendHistory(ctx context.Context, entry *models.MissionHistoryEntry) error {
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	return wrapErr("append", "mission_history", err)
}

func (r *missionRepository) History(ctx context.Context, playerID string) ([]*models.MissionHistoryEntry, error) {
	var entries []*models.MissionHistoryEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("player_id = ?", playerID).
		Order("completed_at ASC", "id ASC").
		Scan(ctx)

	if err != nil {
		return nil, wrapErr("history", "mission_history", err)
	}

	return entries, nil
}
