package models

import (
	"math"
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/catalog"
)

// CompoundProgress holds the three independent counters behind the
// communication_legend mission. One row per player, present only while the
// legendary mission is active; reset when the mission is regenerated or
// claimed.
type CompoundProgress struct {
	bun.BaseModel `bun:"table:compound_progress,alias:cp"`

	ID           int64     `bun:"id,pk,autoincrement"`
	PlayerID     string    `bun:"player_id,notnull,unique"`
	Messages     int       `bun:"messages,notnull,default:0"`
	Translations int       `bun:"translations,notnull,default:0"`
	Media        int       `bun:"media,notnull,default:0"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Add routes an action event to the counter it feeds. Returns false when the
// action does not contribute to compound progress.
func (c *CompoundProgress) Add(action catalog.ActionType, value int) bool {
	switch action {
	case catalog.ActionSendMessages:
		c.Messages += value
	case catalog.ActionCompleteTranslations:
		c.Translations += value
	case catalog.ActionShareMedia:
		c.Media += value
	default:
		return false
	}
	return true
}

// Ratio returns the average of the three independently clamped completion
// ratios, in [0,1]. This drives the displayed progress only; completion is
// gated on the raw counters via Complete.
func (c *CompoundProgress) Ratio() float64 {
	m := math.Min(float64(c.Messages)/catalog.CompoundMessagesCap, 1)
	t := math.Min(float64(c.Translations)/catalog.CompoundTranslationsCap, 1)
	s := math.Min(float64(c.Media)/catalog.CompoundMediaCap, 1)
	return (m + t + s) / 3
}

// DisplayValue scales the averaged ratio to the instance's target value for
// UI display. Rounding may touch the target slightly before all three caps
// are hit; callers must never use it as the completion predicate.
func (c *CompoundProgress) DisplayValue(targetValue int) int {
	v := int(math.Round(c.Ratio() * float64(targetValue)))
	if v > targetValue {
		v = targetValue
	}
	return v
}

// Complete reports whether all three raw counters have reached their caps.
func (c *CompoundProgress) Complete() bool {
	return c.Messages >= catalog.CompoundMessagesCap &&
		c.Translations >= catalog.CompoundTranslationsCap &&
		c.Media >= catalog.CompoundMediaCap
}

// Reset zeroes the counters.
func (c *CompoundProgress) Reset() {
	c.Messages = 0
	c.Translations = 0
	c.Media = 0
}
