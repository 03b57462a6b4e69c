package services

import (
	"context"
	"fmt"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
)

// PlayerStats summarizes a player's lifetime mission activity.
type PlayerStats struct {
	TotalCompleted       int
	TotalPoints          int64
	Level                catalog.Level
	StreakDays           int
	LongestStreak        int
	SpecialRewards       int
	Achievements         int
	MissionTypeBreakdown map[catalog.ActionType]int
}

// Stats answers read-only queries over the history trail and the ledger.
type Stats struct {
	repos repositories.Repositories
}

func NewStats(repos repositories.Repositories) *Stats {
	return &Stats{repos: repos}
}

func (s *Stats) PlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	history, err := s.repos.Missions.History(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission history: %w", err)
	}
	prog, err := s.repos.Progression.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	breakdown := make(map[catalog.ActionType]int)
	rewards := 0
	for _, entry := range history {
		breakdown[entry.Action]++
		if entry.RewardID != nil {
			rewards++
		}
	}

	return &PlayerStats{
		TotalCompleted:       len(history),
		TotalPoints:          prog.Points,
		Level:                prog.Level,
		StreakDays:           prog.StreakDays,
		LongestStreak:        prog.LongestStreak,
		SpecialRewards:       rewards,
		Achievements:         len(prog.Achievements),
		MissionTypeBreakdown: breakdown,
	}, nil
}

func (s *Stats) OwnedRewards(ctx context.Context, playerID string) ([]*models.SpecialReward, error) {
	rewards, err := s.repos.Rewards.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load special rewards: %w", err)
	}
	return rewards, nil
}
