package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyPlayer is one document of the pre-rewrite "players" collection. The
// legacy app stored numbers loosely, so numeric fields decode as float64.
type LegacyPlayer struct {
	ID                primitive.ObjectID   `bson:"_id"`
	PlayerID          string               `bson:"playerid"`
	Points            float64              `bson:"points"`
	Streak            float64              `bson:"streak"`
	BestStreak        float64              `bson:"beststreak"`
	LastActivity      time.Time            `bson:"lastactivity"`
	Achievements      []string             `bson:"achievements"`
	Counters          map[string]float64   `bson:"counters"`
	MissionsCompleted float64              `bson:"missionscompleted"`
	Rewards           []LegacyReward       `bson:"rewards"`
	History           []LegacyHistoryEntry `bson:"history"`
}

// LegacyReward is an owned cosmetic in the legacy inline format.
type LegacyReward struct {
	ID      string    `bson:"id"`
	Title   string    `bson:"title"`
	Type    string    `bson:"type"`
	Rarity  float64   `bson:"rarity"`
	Payload string    `bson:"payload"`
	Minted  time.Time `bson:"minted"`
}

// LegacyHistoryEntry is one completed-quest record in the legacy inline
// format.
type LegacyHistoryEntry struct {
	Quest     string    `bson:"quest"`
	Action    string    `bson:"action"`
	Points    float64   `bson:"points"`
	Completed time.Time `bson:"completed"`
	RewardID  string    `bson:"rewardid"`
}

// TableStats tracks per-table import counters.
type TableStats struct {
	Imported int
	Skipped  int
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
	Duration  time.Duration
}

func (s *ImportStats) table(name string) *TableStats {
	if s.Tables == nil {
		s.Tables = make(map[string]*TableStats)
	}
	ts, ok := s.Tables[name]
	if !ok {
		ts = &TableStats{}
		s.Tables[name] = ts
	}
	return ts
}
