package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/catalog"
)

// MissionHistoryEntry is one row of the append-only claim audit trail. Never
// mutated or deleted; used for stats and to reconstruct the owned special
// reward set.
type MissionHistoryEntry struct {
	bun.BaseModel `bun:"table:mission_history,alias:mh"`

	ID           int64              `bun:"id,pk,autoincrement"`
	PlayerID     string             `bun:"player_id,notnull"`
	TemplateID   string             `bun:"template_id,notnull"`
	Action       catalog.ActionType `bun:"action_type,notnull"`
	PointsEarned int                `bun:"points_earned,notnull"`
	RewardID     *string            `bun:"reward_id"`
	CompletedAt  time.Time          `bun:"completed_at,notnull"`
}
