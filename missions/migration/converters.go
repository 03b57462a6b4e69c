package migration

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database/models"
)

// legacyCounterNames maps the legacy app's counter keys to action types.
// Unknown keys are dropped, not guessed.
var legacyCounterNames = map[string]catalog.ActionType{
	"messages":      catalog.ActionSendMessages,
	"translations":  catalog.ActionCompleteTranslations,
	"media":         catalog.ActionShareMedia,
	"contacts":      catalog.ActionAddContacts,
	"conversations": catalog.ActionStartConversations,
	"voice":         catalog.ActionUseVoiceInput,
	"reactions":     catalog.ActionReactToMessages,
}

// legacyRewardNames maps legacy cosmetic type names, which drifted over app
// versions, to the current enum.
var legacyRewardNames = map[string]catalog.RewardType{
	"theme":        catalog.RewardTheme,
	"frame":        catalog.RewardAvatarFrame,
	"avatar_frame": catalog.RewardAvatarFrame,
	"sound":        catalog.RewardSound,
	"emoji":        catalog.RewardEmoji,
	"background":   catalog.RewardBackground,
	"wallpaper":    catalog.RewardBackground,
	"sticker":      catalog.RewardSticker,
}

func (im *Importer) convertPlayer(lp LegacyPlayer) *models.PlayerProgression {
	now := time.Now()

	counters := make(map[string]int64, len(lp.Counters))
	for key, value := range lp.Counters {
		action, ok := legacyCounterNames[strings.ToLower(key)]
		if !ok || value < 0 {
			continue
		}
		counters[string(action)] = int64(value)
	}

	rewardIDs := make([]string, 0, len(lp.Rewards))
	for _, lr := range lp.Rewards {
		if lr.ID != "" {
			rewardIDs = append(rewardIDs, lr.ID)
		}
	}

	points := int64(lp.Points)
	if points < 0 {
		points = 0
	}
	streak := int(lp.Streak)
	if streak < 0 {
		streak = 0
	}
	longest := int(lp.BestStreak)
	if longest < streak {
		longest = streak
	}

	achievements := lp.Achievements
	if achievements == nil {
		achievements = []string{}
	}

	return &models.PlayerProgression{
		PlayerID:          cleanseString(lp.PlayerID),
		Points:            points,
		Level:             catalog.LevelForPoints(points),
		StreakDays:        streak,
		LongestStreak:     longest,
		LastActivityDate:  lp.LastActivity,
		Achievements:      achievements,
		OwnedRewardIDs:    rewardIDs,
		ActionCounters:    counters,
		MissionsCompleted: int64(lp.MissionsCompleted),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (im *Importer) convertReward(playerID string, lr LegacyReward) *models.SpecialReward {
	rewardType, ok := legacyRewardNames[strings.ToLower(lr.Type)]
	if !ok {
		rewardType = catalog.RewardTheme
	}

	rarity := catalog.Rarity(int(lr.Rarity))
	if !rarity.Valid() {
		rarity = catalog.RarityCommon
	}

	title := cleanseString(lr.Title)
	if title == "" {
		title = string(rewardType)
	}

	return &models.SpecialReward{
		ID:       lr.ID,
		PlayerID: playerID,
		Title:    title,
		Rarity:   rarity,
		Type:     rewardType,
		Payload:  lr.Payload,
		MintedAt: lr.Minted,
	}
}

func (im *Importer) convertHistoryEntry(playerID string, lh LegacyHistoryEntry) *models.MissionHistoryEntry {
	var rewardID *string
	if lh.RewardID != "" {
		id := lh.RewardID
		rewardID = &id
	}

	return &models.MissionHistoryEntry{
		PlayerID:     playerID,
		TemplateID:   cleanseString(lh.Quest),
		Action:       catalog.ActionType(lh.Action),
		PointsEarned: int(lh.Points),
		RewardID:     rewardID,
		CompletedAt:  lh.Completed,
	}
}

// cleanseString strips invalid UTF-8 and NUL bytes, which the legacy export
// is known to contain.
func cleanseString(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), ""))
}
