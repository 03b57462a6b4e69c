package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/catalog"
)

// MissionInstance is a per-player, per-day occurrence of a catalog template.
// The template fields are denormalized at generation time so later catalog
// edits do not retroactively alter in-flight missions.
type MissionInstance struct {
	bun.BaseModel `bun:"table:mission_instances,alias:mi"`

	ID                  int64              `bun:"id,pk,autoincrement"`
	PlayerID            string             `bun:"player_id,notnull"`
	TemplateID          string             `bun:"template_id,notnull"`
	Title               string             `bun:"title,notnull"`
	Description         string             `bun:"description,notnull"`
	IconRef             string             `bun:"icon_ref"`
	Action              catalog.ActionType `bun:"action_type,notnull"`
	TargetValue         int                `bun:"target_value,notnull"`
	PointsReward        int                `bun:"points_reward,notnull"`
	Rarity              catalog.Rarity     `bun:"rarity,notnull"`
	SpecialRewardChance float64            `bun:"special_reward_chance,notnull,default:0"`
	CurrentValue        int                `bun:"current_value,notnull,default:0"`
	Completed           bool               `bun:"completed,notnull,default:false"`
	Claimed             bool               `bun:"claimed,notnull,default:false"`
	CreatedAt           time.Time          `bun:"created_at,notnull"`
	ExpiresAt           time.Time          `bun:"expires_at,notnull"`
	CompletedAt         *time.Time         `bun:"completed_at"`
	ClaimedAt           *time.Time         `bun:"claimed_at"`
}

// IsCompound reports whether this instance tracks compound multi-counter
// progress.
func (m *MissionInstance) IsCompound() bool {
	return m.TemplateID == catalog.CompoundTemplateID
}

// Expired reports whether the instance's day has passed.
func (m *MissionInstance) Expired(now time.Time) bool {
	return !m.ExpiresAt.After(now)
}

// CheckInvariants verifies the structural invariants of the record. A failure
// means corrupt data or a programming error, never a normal outcome.
func (m *MissionInstance) CheckInvariants() error {
	if m.CurrentValue < 0 {
		return &InvariantError{Entity: "mission_instance", ID: m.ID, Reason: "negative current_value"}
	}
	if m.Claimed && !m.Completed {
		return &InvariantError{Entity: "mission_instance", ID: m.ID, Reason: "claimed but not completed"}
	}
	if m.TargetValue <= 0 {
		return &InvariantError{Entity: "mission_instance", ID: m.ID, Reason: "non-positive target_value"}
	}
	return nil
}
