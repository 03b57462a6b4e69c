package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
	"github.com/lingualink/gamify/missions/testutil"
)

func newTrackerFixture(t *testing.T) (*Tracker, *testutil.Store, *testutil.Clock, *testutil.SpySink) {
	t.Helper()
	store := testutil.NewStore()
	clock := testutil.NewClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	sink := testutil.NewSpySink()
	ledger := NewLedger(catalog.Default(), store, clock)
	tracker := NewTracker(store, clock, ledger, sink)
	return tracker, store, clock, sink
}

func seedInstance(t *testing.T, store *testutil.Store, clock *testutil.Clock, templateID string, action catalog.ActionType, target, current int) *models.MissionInstance {
	t.Helper()
	inst := &models.MissionInstance{
		PlayerID:     player,
		TemplateID:   templateID,
		Title:        templateID,
		Action:       action,
		TargetValue:  target,
		PointsReward: 25,
		Rarity:       catalog.RarityCommon,
		CurrentValue: current,
		CreatedAt:    clock.Now(),
		ExpiresAt:    clock.Now().Add(12 * time.Hour),
	}
	if err := store.Repos().Missions.Create(context.Background(), inst); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return inst
}

func getInstance(t *testing.T, store *testutil.Store, id int64) *models.MissionInstance {
	t.Helper()
	inst, err := store.Repos().Missions.GetByID(context.Background(), player, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if inst == nil {
		t.Fatalf("instance %d not found", id)
	}
	return inst
}

func TestApplyAdvancesAndCompletes(t *testing.T) {
	tracker, store, clock, sink := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, "daily_chatter", catalog.ActionSendMessages, 5, 3)

	if err := tracker.Apply(context.Background(), player, catalog.ActionSendMessages, 2); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := getInstance(t, store, inst.ID)
	if got.CurrentValue != 5 {
		t.Errorf("CurrentValue = %d, want 5", got.CurrentValue)
	}
	if !got.Completed {
		t.Error("instance not completed at target")
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	completed := sink.Completed()
	if len(completed) != 1 || completed[0].Title != "daily_chatter" {
		t.Errorf("completion notifications = %v", completed)
	}
}

func TestApplyMonotonicAndLedgerCounters(t *testing.T) {
	tracker, store, clock, _ := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, "daily_chatter", catalog.ActionSendMessages, 10, 0)

	ctx := context.Background()
	last := 0
	for i := 0; i < 4; i++ {
		if err := tracker.Apply(ctx, player, catalog.ActionSendMessages, 1); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		got := getInstance(t, store, inst.ID)
		if got.CurrentValue < last {
			t.Fatalf("CurrentValue decreased: %d -> %d", last, got.CurrentValue)
		}
		last = got.CurrentValue
	}

	prog, err := store.Repos().Progression.GetOrCreate(ctx, player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if got := prog.Counter(catalog.ActionSendMessages); got != 4 {
		t.Errorf("message counter = %d, want 4", got)
	}
	// 4 messages at 1 point each.
	if prog.Points != 4 {
		t.Errorf("points = %d, want 4", prog.Points)
	}
}

func TestApplyIgnoresOtherActions(t *testing.T) {
	tracker, store, clock, sink := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, "daily_chatter", catalog.ActionSendMessages, 5, 0)

	if err := tracker.Apply(context.Background(), player, catalog.ActionShareMedia, 1); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := getInstance(t, store, inst.ID); got.CurrentValue != 0 {
		t.Errorf("CurrentValue = %d, want 0 for non-matching action", got.CurrentValue)
	}
	if len(sink.Completed()) != 0 {
		t.Error("unexpected completion notification")
	}
}

func TestApplyZeroEligibleIsNoop(t *testing.T) {
	tracker, store, _, _ := newTrackerFixture(t)

	if err := tracker.Apply(context.Background(), player, catalog.ActionSendMessages, 1); err != nil {
		t.Fatalf("Apply with no missions: %v", err)
	}

	// The ledger still advances.
	prog, err := store.Repos().Progression.GetOrCreate(context.Background(), player)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if got := prog.Counter(catalog.ActionSendMessages); got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}
}

func TestApplyCompoundCompletion(t *testing.T) {
	tracker, store, clock, sink := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, catalog.CompoundTemplateID, catalog.ActionSendMessages, 100, 0)

	ctx := context.Background()
	feed := []struct {
		action catalog.ActionType
		value  int
	}{
		{catalog.ActionSendMessages, 20},
		{catalog.ActionCompleteTranslations, 20},
		{catalog.ActionShareMedia, 10},
		{catalog.ActionSendMessages, 29},
	}
	for _, f := range feed {
		if err := tracker.Apply(ctx, player, f.action, f.value); err != nil {
			t.Fatalf("Apply(%s, %d): %v", f.action, f.value, err)
		}
	}

	// 49/20/10: two counters capped, one short by one.
	got := getInstance(t, store, inst.ID)
	if got.Completed {
		t.Fatal("completed at 49/20/10; completion must gate on all three raw caps")
	}

	if err := tracker.Apply(ctx, player, catalog.ActionSendMessages, 1); err != nil {
		t.Fatalf("Apply final message: %v", err)
	}
	got = getInstance(t, store, inst.ID)
	if !got.Completed {
		t.Fatal("not completed at 50/20/10")
	}
	if got.CurrentValue != 100 {
		t.Errorf("display value = %d, want 100 at full completion", got.CurrentValue)
	}
	if len(sink.Completed()) != 1 {
		t.Errorf("got %d completion notifications, want 1", len(sink.Completed()))
	}
}

func TestApplyCompoundDisplayValue(t *testing.T) {
	tracker, store, clock, _ := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, catalog.CompoundTemplateID, catalog.ActionSendMessages, 100, 0)

	ctx := context.Background()
	// 25/10/0: ratios 0.5, 0.5, 0 average to 1/3.
	if err := tracker.Apply(ctx, player, catalog.ActionSendMessages, 25); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := tracker.Apply(ctx, player, catalog.ActionCompleteTranslations, 10); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := getInstance(t, store, inst.ID); got.CurrentValue != 33 {
		t.Errorf("display value = %d, want 33", got.CurrentValue)
	}
}

func TestApplyCompoundIgnoresUnrelatedAction(t *testing.T) {
	tracker, store, clock, _ := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, catalog.CompoundTemplateID, catalog.ActionSendMessages, 100, 0)

	if err := tracker.Apply(context.Background(), player, catalog.ActionAddContacts, 1); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	cp, err := store.Repos().Missions.GetCompound(context.Background(), player)
	if err != nil {
		t.Fatalf("GetCompound: %v", err)
	}
	if cp != nil && (cp.Messages != 0 || cp.Translations != 0 || cp.Media != 0) {
		t.Errorf("contacts event leaked into compound counters: %+v", cp)
	}
	if got := getInstance(t, store, inst.ID); got.CurrentValue != 0 {
		t.Errorf("display value = %d, want 0", got.CurrentValue)
	}
}

func TestApplySurfacesCorruptRow(t *testing.T) {
	tracker, store, clock, _ := newTrackerFixture(t)
	inst := seedInstance(t, store, clock, "daily_chatter", catalog.ActionSendMessages, 5, 0)

	// Corrupt the row directly: claimed without completed.
	inst.Claimed = true
	if err := store.Repos().Missions.Update(context.Background(), inst); err != nil {
		t.Fatalf("Update: %v", err)
	}

	err := tracker.Apply(context.Background(), player, catalog.ActionSendMessages, 1)
	if err == nil {
		t.Fatal("Apply accepted a claimed-but-incomplete instance")
	}
	var inv *models.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("error %v is not an InvariantError", err)
	}
}

func TestApplyRejectsNonPositiveValue(t *testing.T) {
	tracker, _, _, _ := newTrackerFixture(t)
	if err := tracker.Apply(context.Background(), player, catalog.ActionSendMessages, 0); err == nil {
		t.Fatal("Apply accepted a zero value")
	}
}
