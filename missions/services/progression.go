package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/database/repositories"
	"github.com/lingualink/gamify/missions/interfaces"
)

// Ledger applies the progression rules: points and derived levels, login
// streaks, cumulative action counters and achievement unlocks. The mutating
// helpers operate on an in-memory progression row so the tracker and resolver
// can compose them inside their own transactions; the exported operations
// wrap them in a unit of work.
type Ledger struct {
	catalog *catalog.Catalog
	uow     repositories.UnitOfWork
	clock   interfaces.Clock
}

func NewLedger(cat *catalog.Catalog, uow repositories.UnitOfWork, clock interfaces.Clock) *Ledger {
	return &Ledger{
		catalog: cat,
		uow:     uow,
		clock:   clock,
	}
}

// LoginResult reports what a daily login changed.
type LoginResult struct {
	StreakDays     int
	LongestStreak  int
	BonusPoints    int
	MilestoneBonus int
	Unlocked       []catalog.Achievement
	// AlreadyCounted is set when the player already logged in today; no
	// state changed.
	AlreadyCounted bool
}

// AddPoints credits n points (n >= 0) to the player and returns the new
// total.
func (l *Ledger) AddPoints(ctx context.Context, playerID string, n int) (int64, error) {
	var total int64
	err := l.uow.Do(ctx, func(r repositories.Repositories) error {
		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		total = prog.AddPoints(n)
		return r.Progression.Update(ctx, prog)
	})
	return total, err
}

// RecordDailyLogin counts today's login once: extends or resets the streak,
// pays the fixed login bonus, pays streak milestone bonuses and unlocks
// streak achievements.
func (l *Ledger) RecordDailyLogin(ctx context.Context, playerID string) (LoginResult, error) {
	today := l.clock.Today()

	var result LoginResult
	err := l.uow.Do(ctx, func(r repositories.Repositories) error {
		prog, err := r.Progression.GetOrCreate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		result = l.recordLogin(prog, today)
		if result.AlreadyCounted {
			return nil
		}
		return r.Progression.Update(ctx, prog)
	})
	if err != nil {
		return LoginResult{}, err
	}

	if result.MilestoneBonus > 0 {
		slog.Info("Streak milestone reached",
			slog.String("player_id", playerID),
			slog.Int("streak_days", result.StreakDays),
			slog.Int("bonus", result.MilestoneBonus))
	}
	return result, nil
}

// recordLogin mutates the row; the caller persists it.
func (l *Ledger) recordLogin(p *models.PlayerProgression, today time.Time) LoginResult {
	if sameDay(p.LastActivityDate, today) {
		return LoginResult{
			StreakDays:     p.StreakDays,
			LongestStreak:  p.LongestStreak,
			AlreadyCounted: true,
		}
	}

	if sameDay(p.LastActivityDate.AddDate(0, 0, 1), today) {
		p.StreakDays++
	} else {
		p.StreakDays = 1
	}
	if p.StreakDays > p.LongestStreak {
		p.LongestStreak = p.StreakDays
	}
	p.LastActivityDate = today

	p.AddPoints(catalog.DailyLoginBonus)
	result := LoginResult{
		StreakDays:    p.StreakDays,
		LongestStreak: p.LongestStreak,
		BonusPoints:   catalog.DailyLoginBonus,
	}

	// Milestones fire exactly once: the streak passes each length a single
	// time before any reset.
	if bonus, ok := catalog.StreakMilestoneBonuses[p.StreakDays]; ok {
		p.AddPoints(bonus)
		result.MilestoneBonus = bonus
	}

	result.Unlocked = l.unlockInCategory(p, catalog.CategoryStreak, int64(p.StreakDays))
	return result
}

// applyAction credits the per-action point value, bumps the cumulative
// counter and evaluates the action's achievement family. Returns the points
// credited and any newly unlocked achievements.
func (l *Ledger) applyAction(p *models.PlayerProgression, action catalog.ActionType, value int) (int, []catalog.Achievement) {
	count := p.AddCounter(action, value)
	points := catalog.ActionPoints[action] * value
	p.AddPoints(points)

	category, ok := catalog.ActionCategories[action]
	if !ok {
		return points, nil
	}
	return points, l.unlockInCategory(p, category, count)
}

// recordClaim counts a claimed mission: pays its points reward and evaluates
// the missions achievement family.
func (l *Ledger) recordClaim(p *models.PlayerProgression, pointsReward int) []catalog.Achievement {
	p.MissionsCompleted++
	p.AddPoints(pointsReward)
	return l.unlockInCategory(p, catalog.CategoryMissions, p.MissionsCompleted)
}

// unlockInCategory unlocks every achievement of the category whose
// requirement is met and which is not already unlocked. Idempotent per id;
// an unlocked achievement never pays twice.
func (l *Ledger) unlockInCategory(p *models.PlayerProgression, category catalog.AchievementCategory, count int64) []catalog.Achievement {
	var unlocked []catalog.Achievement
	for _, a := range l.catalog.AchievementsInCategory(category) {
		if a.Requirement > count {
			break
		}
		if p.HasAchievement(a.ID) {
			continue
		}
		p.Achievements = append(p.Achievements, a.ID)
		p.AddPoints(a.Points)
		unlocked = append(unlocked, a)
	}
	return unlocked
}
