package migration

import (
	"testing"
	"time"

	"github.com/lingualink/gamify/missions/catalog"
)

func TestConvertPlayer(t *testing.T) {
	im := &Importer{}
	lp := LegacyPlayer{
		PlayerID:   "user-42\x00",
		Points:     2600,
		Streak:     5,
		BestStreak: 3,
		Counters: map[string]float64{
			"Messages":     120,
			"translations": 15,
			"voice":        -4,
			"quests_done":  9,
		},
		Achievements:      []string{"messages_100"},
		MissionsCompleted: 31,
		Rewards: []LegacyReward{
			{ID: "rw-1"},
			{ID: ""},
		},
	}

	prog := im.convertPlayer(lp)

	if prog.PlayerID != "user-42" {
		t.Errorf("player id = %q", prog.PlayerID)
	}
	if prog.Points != 2600 || prog.Level != catalog.LevelMaster {
		t.Errorf("points/level = %d/%s", prog.Points, prog.Level)
	}
	// The legacy export holds best streaks that lag the current streak.
	if prog.StreakDays != 5 || prog.LongestStreak != 5 {
		t.Errorf("streak = %d/%d, want 5/5", prog.StreakDays, prog.LongestStreak)
	}
	if got := prog.ActionCounters[string(catalog.ActionSendMessages)]; got != 120 {
		t.Errorf("messages counter = %d", got)
	}
	if got := prog.ActionCounters[string(catalog.ActionCompleteTranslations)]; got != 15 {
		t.Errorf("translations counter = %d", got)
	}
	if _, ok := prog.ActionCounters[string(catalog.ActionUseVoiceInput)]; ok {
		t.Error("negative legacy counter imported")
	}
	if len(prog.ActionCounters) != 2 {
		t.Errorf("counters = %v, unknown keys not dropped", prog.ActionCounters)
	}
	if prog.MissionsCompleted != 31 {
		t.Errorf("missions completed = %d", prog.MissionsCompleted)
	}
	if len(prog.OwnedRewardIDs) != 1 || prog.OwnedRewardIDs[0] != "rw-1" {
		t.Errorf("owned rewards = %v", prog.OwnedRewardIDs)
	}
}

func TestConvertPlayerClampsNegatives(t *testing.T) {
	im := &Importer{}
	prog := im.convertPlayer(LegacyPlayer{PlayerID: "p", Points: -50, Streak: -2})
	if prog.Points != 0 {
		t.Errorf("points = %d, want 0", prog.Points)
	}
	if prog.StreakDays != 0 || prog.LongestStreak != 0 {
		t.Errorf("streak = %d/%d, want 0/0", prog.StreakDays, prog.LongestStreak)
	}
	if prog.Level != catalog.LevelNovice {
		t.Errorf("level = %s", prog.Level)
	}
	if prog.Achievements == nil {
		t.Error("achievements slice is nil")
	}
}

func TestConvertReward(t *testing.T) {
	im := &Importer{}
	minted := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		in         LegacyReward
		wantType   catalog.RewardType
		wantRarity catalog.Rarity
		wantTitle  string
	}{
		{
			name:       "drifted type name",
			in:         LegacyReward{ID: "r1", Title: "Golden Frame", Type: "frame", Rarity: 4, Minted: minted},
			wantType:   catalog.RewardAvatarFrame,
			wantRarity: catalog.RarityEpic,
			wantTitle:  "Golden Frame",
		},
		{
			name:       "wallpaper alias",
			in:         LegacyReward{ID: "r2", Title: "Dusk", Type: "Wallpaper", Rarity: 2},
			wantType:   catalog.RewardBackground,
			wantRarity: catalog.RarityUncommon,
			wantTitle:  "Dusk",
		},
		{
			name:       "unknown type and rarity fall back",
			in:         LegacyReward{ID: "r3", Title: "", Type: "banner", Rarity: 9},
			wantType:   catalog.RewardTheme,
			wantRarity: catalog.RarityCommon,
			wantTitle:  "theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward := im.convertReward("p", tt.in)
			if reward.Type != tt.wantType {
				t.Errorf("type = %s, want %s", reward.Type, tt.wantType)
			}
			if reward.Rarity != tt.wantRarity {
				t.Errorf("rarity = %v, want %v", reward.Rarity, tt.wantRarity)
			}
			if reward.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", reward.Title, tt.wantTitle)
			}
			if reward.PlayerID != "p" {
				t.Errorf("player id = %q", reward.PlayerID)
			}
		})
	}
}

func TestConvertHistoryEntry(t *testing.T) {
	im := &Importer{}
	done := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)

	entry := im.convertHistoryEntry("p", LegacyHistoryEntry{
		Quest:     "daily_chatter",
		Action:    "send_messages",
		Points:    20,
		Completed: done,
		RewardID:  "rw-9",
	})
	if entry.TemplateID != "daily_chatter" || entry.Action != catalog.ActionSendMessages {
		t.Errorf("entry = %+v", entry)
	}
	if entry.PointsEarned != 20 || !entry.CompletedAt.Equal(done) {
		t.Errorf("entry = %+v", entry)
	}
	if entry.RewardID == nil || *entry.RewardID != "rw-9" {
		t.Errorf("reward id = %v", entry.RewardID)
	}

	bare := im.convertHistoryEntry("p", LegacyHistoryEntry{Quest: "q", Action: "send_messages"})
	if bare.RewardID != nil {
		t.Error("empty reward id should map to nil")
	}
}

func TestCleanseString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"nul\x00byte", "nulbyte"},
		{"bad\xff utf8", "bad utf8"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanseString(tt.in); got != tt.want {
			t.Errorf("cleanseString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
