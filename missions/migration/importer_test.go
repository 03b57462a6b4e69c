package migration

import (
	"testing"

	"github.com/lingualink/gamify/missions/database/models"
)

func TestRerunSkipsRowsForExistingPlayers(t *testing.T) {
	// "old" hit the conflict clause on an earlier run; only "new" inserted.
	imported := map[string]struct{}{"new": {}}

	rewards := []*models.SpecialReward{
		{ID: "r1", PlayerID: "old"},
		{ID: "r2", PlayerID: "new"},
		{ID: "r3", PlayerID: "old"},
	}
	keptRewards, skippedRewards := filterRewards(rewards, imported)
	if len(keptRewards) != 1 || keptRewards[0].ID != "r2" {
		t.Errorf("kept rewards = %v, want only r2", keptRewards)
	}
	if skippedRewards != 2 {
		t.Errorf("skipped rewards = %d, want 2", skippedRewards)
	}

	history := []*models.MissionHistoryEntry{
		{PlayerID: "old", TemplateID: "daily_chatter"},
		{PlayerID: "new", TemplateID: "daily_chatter"},
	}
	keptHistory, skippedHistory := filterHistory(history, imported)
	if len(keptHistory) != 1 || keptHistory[0].PlayerID != "new" {
		t.Errorf("kept history = %v, want only the new player's entry", keptHistory)
	}
	if skippedHistory != 1 {
		t.Errorf("skipped history = %d, want 1", skippedHistory)
	}
}

func TestFilterKeepsEverythingForFreshImport(t *testing.T) {
	imported := map[string]struct{}{"a": {}, "b": {}}
	rewards := []*models.SpecialReward{
		{ID: "r1", PlayerID: "a"},
		{ID: "r2", PlayerID: "b"},
	}
	kept, skipped := filterRewards(rewards, imported)
	if len(kept) != 2 || skipped != 0 {
		t.Errorf("kept %d skipped %d, want all 2 kept", len(kept), skipped)
	}
}
