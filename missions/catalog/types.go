// Package catalog holds the static rules tables of the missions engine:
// mission templates, reward archetypes, achievements, level thresholds and
// per-action point values. Catalog data is loaded once at startup, never
// mutated, and injected into the engine rather than referenced as a global.
package catalog

import "fmt"

// Rarity is the ordinal tier controlling selection weight and
// reward-escalation odds.
type Rarity int

const (
	RarityCommon Rarity = iota + 1
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return fmt.Sprintf("rarity(%d)", int(r))
	}
}

// Valid reports whether r is one of the five defined tiers.
func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

// ActionType identifies the in-app activity an event or mission refers to.
type ActionType string

const (
	ActionSendMessages         ActionType = "send_messages"
	ActionCompleteTranslations ActionType = "complete_translations"
	ActionShareMedia           ActionType = "share_media"
	ActionAddContacts          ActionType = "add_contacts"
	ActionStartConversations   ActionType = "start_conversations"
	ActionUseVoiceInput        ActionType = "use_voice_input"
	ActionReactToMessages      ActionType = "react_to_messages"
)

// ActionTypes lists every defined action type.
var ActionTypes = []ActionType{
	ActionSendMessages,
	ActionCompleteTranslations,
	ActionShareMedia,
	ActionAddContacts,
	ActionStartConversations,
	ActionUseVoiceInput,
	ActionReactToMessages,
}

// Valid reports whether a is a defined action type.
func (a ActionType) Valid() bool {
	for _, known := range ActionTypes {
		if a == known {
			return true
		}
	}
	return false
}

// RewardType is the cosmetic category of a minted special reward.
type RewardType string

const (
	RewardTheme       RewardType = "theme"
	RewardAvatarFrame RewardType = "avatar_frame"
	RewardSound       RewardType = "sound"
	RewardEmoji       RewardType = "emoji"
	RewardBackground  RewardType = "background"
	RewardSticker     RewardType = "sticker"
)

// RewardTypes lists the six cosmetic reward categories in a fixed order so a
// uniform index draw maps deterministically.
var RewardTypes = []RewardType{
	RewardTheme,
	RewardAvatarFrame,
	RewardSound,
	RewardEmoji,
	RewardBackground,
	RewardSticker,
}

// Level is the named progression tier derived from lifetime points.
type Level string

const (
	LevelNovice      Level = "novice"
	LevelApprentice  Level = "apprentice"
	LevelAdept       Level = "adept"
	LevelExpert      Level = "expert"
	LevelMaster      Level = "master"
	LevelGrandmaster Level = "grandmaster"
)

// levelThresholds is evaluated highest-first; the first matching threshold
// wins, so a lower bound can never downgrade an already-higher level.
var levelThresholds = []struct {
	points int64
	level  Level
}{
	{5000, LevelGrandmaster},
	{2500, LevelMaster},
	{1000, LevelExpert},
	{500, LevelAdept},
	{200, LevelApprentice},
}

// LevelForPoints derives the progression level from lifetime points.
func LevelForPoints(points int64) Level {
	for _, t := range levelThresholds {
		if points >= t.points {
			return t.level
		}
	}
	return LevelNovice
}

// AchievementCategory groups achievements by the counter family that
// triggers them.
type AchievementCategory string

const (
	CategoryMessages     AchievementCategory = "messages"
	CategoryTranslations AchievementCategory = "translations"
	CategoryMedia        AchievementCategory = "media"
	CategoryContacts     AchievementCategory = "contacts"
	CategoryStreak       AchievementCategory = "streak"
	CategoryMissions     AchievementCategory = "missions"
)

// ActionCategories maps each action type to the achievement family its
// cumulative counter feeds. Actions without an entry earn points and count,
// but unlock nothing directly.
var ActionCategories = map[ActionType]AchievementCategory{
	ActionSendMessages:         CategoryMessages,
	ActionCompleteTranslations: CategoryTranslations,
	ActionShareMedia:           CategoryMedia,
	ActionAddContacts:          CategoryContacts,
}

// MissionTemplate is the immutable catalog blueprint for a repeatable
// objective. Instances denormalize a copy of the template at generation time.
type MissionTemplate struct {
	ID                  string
	Title               string
	Description         string
	IconRef             string
	Action              ActionType
	TargetValue         int
	PointsReward        int
	Rarity              Rarity
	SpecialRewardChance float64
}

// CompoundTemplateID identifies the one template whose completion spans the
// three communication counters instead of its own progress value.
const CompoundTemplateID = "communication_legend"

// IsCompound reports whether the template tracks compound multi-counter
// progress.
func (t MissionTemplate) IsCompound() bool { return t.ID == CompoundTemplateID }

// Achievement is a permanent, one-time unlock triggered by a cumulative
// counter or streak crossing a threshold.
type Achievement struct {
	ID          string
	Title       string
	Category    AchievementCategory
	Requirement int64
	Points      int
}

// RewardArchetype templates the display fields of a minted special reward for
// one cosmetic type. Titles are formatted with the rarity name.
type RewardArchetype struct {
	TitleFormat string
	Description string
	Icon        string
}
