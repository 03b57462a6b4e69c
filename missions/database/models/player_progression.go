package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/lingualink/gamify/missions/catalog"
)

// PlayerProgression is the per-player lifetime ledger: points, derived level,
// login streak, achievement and reward ownership sets, and cumulative action
// counters. Append-mostly and monotonic; points never decrease outside the
// explicit admin reset.
type PlayerProgression struct {
	bun.BaseModel `bun:"table:player_progression,alias:pp"`

	ID                int64            `bun:"id,pk,autoincrement"`
	PlayerID          string           `bun:"player_id,notnull,unique"`
	Points            int64            `bun:"points,notnull,default:0"`
	Level             catalog.Level    `bun:"level,notnull,default:'novice'"`
	StreakDays        int              `bun:"streak_days,notnull,default:0"`
	LongestStreak     int              `bun:"longest_streak,notnull,default:0"`
	LastActivityDate  time.Time        `bun:"last_activity_date"`
	LastGeneratedDate time.Time        `bun:"last_generated_date"`
	Achievements      []string         `bun:"achievements,type:jsonb"`
	OwnedRewardIDs    []string         `bun:"owned_reward_ids,type:jsonb"`
	ActionCounters    map[string]int64 `bun:"action_counters,type:jsonb"`
	MissionsCompleted int64            `bun:"missions_completed,notnull,default:0"`
	CreatedAt         time.Time        `bun:"created_at,notnull"`
	UpdatedAt         time.Time        `bun:"updated_at,notnull"`
}

// NewPlayerProgression returns a fresh ledger row for a player that has never
// interacted with the engine.
func NewPlayerProgression(playerID string) *PlayerProgression {
	now := time.Now()
	return &PlayerProgression{
		PlayerID:       playerID,
		Level:          catalog.LevelNovice,
		Achievements:   []string{},
		OwnedRewardIDs: []string{},
		ActionCounters: make(map[string]int64),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddPoints adds n points (n >= 0) and recomputes the derived level.
func (p *PlayerProgression) AddPoints(n int) int64 {
	if n > 0 {
		p.Points += int64(n)
	}
	p.Level = catalog.LevelForPoints(p.Points)
	return p.Points
}

// HasAchievement reports whether the achievement id is already unlocked.
func (p *PlayerProgression) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Counter returns the cumulative count for one action type.
func (p *PlayerProgression) Counter(action catalog.ActionType) int64 {
	return p.ActionCounters[string(action)]
}

// AddCounter increments the cumulative count for one action type.
func (p *PlayerProgression) AddCounter(action catalog.ActionType, value int) int64 {
	if p.ActionCounters == nil {
		p.ActionCounters = make(map[string]int64)
	}
	p.ActionCounters[string(action)] += int64(value)
	return p.ActionCounters[string(action)]
}

// CheckInvariants verifies the structural invariants of the ledger row.
func (p *PlayerProgression) CheckInvariants() error {
	if p.Points < 0 {
		return &InvariantError{Entity: "player_progression", ID: p.PlayerID, Reason: "negative points"}
	}
	if p.StreakDays < 0 {
		return &InvariantError{Entity: "player_progression", ID: p.PlayerID, Reason: "negative streak"}
	}
	for action, n := range p.ActionCounters {
		if n < 0 {
			return &InvariantError{Entity: "player_progression", ID: p.PlayerID, Reason: "negative counter " + action}
		}
	}
	return nil
}
