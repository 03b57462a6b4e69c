package services

import (
	"context"
	"testing"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/testutil"
)

func newLedgerFixture(t *testing.T) (*Ledger, *testutil.Store, *testutil.Clock) {
	t.Helper()
	store := testutil.NewStore()
	clock := testutil.NewClock(time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC))
	return NewLedger(catalog.Default(), store, clock), store, clock
}

func TestAddPointsCrossesLevelBoundary(t *testing.T) {
	ledger, store, _ := newLedgerFixture(t)
	ctx := context.Background()

	total, err := ledger.AddPoints(ctx, player, 490)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if total != 490 {
		t.Fatalf("total = %d, want 490", total)
	}

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if prog.Level != catalog.LevelApprentice {
		t.Errorf("level at 490 = %s, want apprentice", prog.Level)
	}

	total, err = ledger.AddPoints(ctx, player, 15)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if total != 505 {
		t.Fatalf("total = %d, want 505", total)
	}
	prog, err = store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if prog.Level != catalog.LevelAdept {
		t.Errorf("level at 505 = %s, want adept", prog.Level)
	}
}

func TestDailyLoginStreakGrowth(t *testing.T) {
	ledger, _, clock := newLedgerFixture(t)
	ctx := context.Background()

	for day, want := range []int{1, 2, 3} {
		if day > 0 {
			clock.AdvanceDays(1)
		}
		result, err := ledger.RecordDailyLogin(ctx, player)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if result.AlreadyCounted {
			t.Fatalf("day %d counted twice", day)
		}
		if result.StreakDays != want {
			t.Errorf("day %d streak = %d, want %d", day, result.StreakDays, want)
		}
		if result.BonusPoints != catalog.DailyLoginBonus {
			t.Errorf("day %d bonus = %d", day, result.BonusPoints)
		}
	}
}

func TestDailyLoginSameDayCountsOnce(t *testing.T) {
	ledger, store, _ := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := ledger.RecordDailyLogin(ctx, player); err != nil {
		t.Fatalf("RecordDailyLogin: %v", err)
	}
	second, err := ledger.RecordDailyLogin(ctx, player)
	if err != nil {
		t.Fatalf("RecordDailyLogin: %v", err)
	}
	if !second.AlreadyCounted {
		t.Fatal("second login of the day was counted")
	}
	if second.StreakDays != 1 {
		t.Errorf("streak = %d, want 1", second.StreakDays)
	}

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if prog.Points != int64(catalog.DailyLoginBonus) {
		t.Errorf("points = %d, want the bonus paid once", prog.Points)
	}
}

func TestDailyLoginGapResetsStreak(t *testing.T) {
	ledger, store, clock := newLedgerFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := ledger.RecordDailyLogin(ctx, player); err != nil {
			t.Fatalf("RecordDailyLogin: %v", err)
		}
		clock.AdvanceDays(1)
	}
	clock.AdvanceDays(1)

	result, err := ledger.RecordDailyLogin(ctx, player)
	if err != nil {
		t.Fatalf("RecordDailyLogin: %v", err)
	}
	if result.StreakDays != 1 {
		t.Errorf("streak after gap = %d, want 1", result.StreakDays)
	}
	if result.LongestStreak != 4 {
		t.Errorf("longest streak = %d, want 4", result.LongestStreak)
	}

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if prog.StreakDays != 1 || prog.LongestStreak != 4 {
		t.Errorf("persisted streak = %d/%d, want 1/4", prog.StreakDays, prog.LongestStreak)
	}
}

func TestStreakMilestonesAndAchievements(t *testing.T) {
	ledger, store, clock := newLedgerFixture(t)
	ctx := context.Background()

	var points int64
	for day := 1; day <= 7; day++ {
		result, err := ledger.RecordDailyLogin(ctx, player)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		points += int64(result.BonusPoints + result.MilestoneBonus)
		for _, a := range result.Unlocked {
			points += int64(a.Points)
		}

		switch day {
		case 3:
			if len(result.Unlocked) != 1 || result.Unlocked[0].ID != "streak_3" {
				t.Errorf("day 3 unlocked %v, want streak_3", result.Unlocked)
			}
			if result.MilestoneBonus != 0 {
				t.Errorf("day 3 milestone bonus = %d", result.MilestoneBonus)
			}
		case 7:
			if result.MilestoneBonus != catalog.StreakMilestoneBonuses[7] {
				t.Errorf("day 7 milestone bonus = %d, want %d",
					result.MilestoneBonus, catalog.StreakMilestoneBonuses[7])
			}
			if len(result.Unlocked) != 1 || result.Unlocked[0].ID != "streak_7" {
				t.Errorf("day 7 unlocked %v, want streak_7", result.Unlocked)
			}
		default:
			if len(result.Unlocked) != 0 || result.MilestoneBonus != 0 {
				t.Errorf("day %d unlocked %v bonus %d", day, result.Unlocked, result.MilestoneBonus)
			}
		}
		clock.AdvanceDays(1)
	}

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if prog.Points != points {
		t.Errorf("points = %d, want %d", prog.Points, points)
	}
	if !prog.HasAchievement("streak_3") || !prog.HasAchievement("streak_7") {
		t.Errorf("achievements = %v", prog.Achievements)
	}
}

func TestAchievementsUnlockOnce(t *testing.T) {
	ledger, store, _ := newLedgerFixture(t)
	ctx := context.Background()

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	points, unlocked := ledger.applyAction(prog, catalog.ActionAddContacts, 5)
	if points != catalog.ActionPoints[catalog.ActionAddContacts]*5 {
		t.Errorf("action points = %d", points)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "contacts_5" {
		t.Fatalf("unlocked = %v, want contacts_5", unlocked)
	}

	// Crossing the threshold again must not unlock or pay twice.
	_, again := ledger.applyAction(prog, catalog.ActionAddContacts, 1)
	if len(again) != 0 {
		t.Errorf("re-unlocked = %v", again)
	}
	count := 0
	for _, id := range prog.Achievements {
		if id == "contacts_5" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("contacts_5 unlocked %d times", count)
	}
}
