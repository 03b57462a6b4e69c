package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/catalog"
)

// SpecialReward is a cosmetic unlock minted probabilistically at claim time.
// Immutable once created; the payload is an opaque identifier unique per
// mint, never reused even for the same type and rarity.
type SpecialReward struct {
	bun.BaseModel `bun:"table:special_rewards,alias:sr"`

	ID          string             `bun:"id,pk"`
	PlayerID    string             `bun:"player_id,notnull"`
	Title       string             `bun:"title,notnull"`
	Description string             `bun:"description,notnull"`
	Icon        string             `bun:"icon"`
	Rarity      catalog.Rarity     `bun:"rarity,notnull"`
	Type        catalog.RewardType `bun:"type,notnull"`
	Payload     string             `bun:"payload,notnull"`
	MintedAt    time.Time          `bun:"minted_at,notnull"`
}
