package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/database/models"
)

type rewardRepository struct {
	db bun.IDB
}

// NewRewardRepository returns a RewardRepository over a bun database or
// transaction handle.
func NewRewardRepository(db bun.IDB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *models.SpecialReward) error {
	_, err := r.db.NewInsert().Model(reward).Exec(ctx)
	return wrapErr("create", "special_reward", err)
}

func (r *rewardRepository) Get(ctx context.Context, id string) (*models.SpecialReward, error) {
	reward := new(models.SpecialReward)
	err := r.db.NewSelect().
		Model(reward).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get", "special_reward", err)
	}

	return reward, nil
}

func (r *rewardRepository) GetByPlayer(ctx context.Context, playerID string) ([]*models.SpecialReward, error) {
	var rewards []*models.SpecialReward
	err := r.db.NewSelect().
		Model(&rewards).
		Where("player_id = ?", playerID).
		Order("minted_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, wrapErr("get_by_player", "special_reward", err)
	}

	return rewards, nil
}
