package catalog

// Per-action point values credited by the progression ledger for every
// tracked activity event.
var ActionPoints = map[ActionType]int{
	ActionSendMessages:         1,
	ActionCompleteTranslations: 5,
	ActionShareMedia:           2,
	ActionAddContacts:          3,
	ActionStartConversations:   2,
	ActionUseVoiceInput:        2,
	ActionReactToMessages:      1,
}

// Compound mission counter caps. Completion requires all three raw counters
// to reach their cap; the displayed progress is the average of the clamped
// ratios.
const (
	CompoundMessagesCap     = 50
	CompoundTranslationsCap = 20
	CompoundMediaCap        = 10
)

// Daily login bonus and streak milestone bonuses, in points.
const (
	DailyLoginBonus = 10
)

// StreakMilestoneBonuses maps exact streak lengths to a one-time bonus, fired
// as a dedicated award rather than the login bonus.
var StreakMilestoneBonuses = map[int]int{
	7:   50,
	30:  200,
	100: 500,
}

// defaultTemplates is the built-in mission template table. Exactly one
// template, communication_legend, is compound.
var defaultTemplates = []MissionTemplate{
	// Common
	{
		ID:           "daily_chatter",
		Title:        "Daily Chatter",
		Description:  "Send 10 messages",
		IconRef:      "icon_chat",
		Action:       ActionSendMessages,
		TargetValue:  10,
		PointsReward: 20,
		Rarity:       RarityCommon,
	},
	{
		ID:           "word_bridge",
		Title:        "Word Bridge",
		Description:  "Complete 3 translations",
		IconRef:      "icon_translate",
		Action:       ActionCompleteTranslations,
		TargetValue:  3,
		PointsReward: 25,
		Rarity:       RarityCommon,
	},
	{
		ID:           "show_and_tell",
		Title:        "Show and Tell",
		Description:  "Share 2 photos or videos",
		IconRef:      "icon_media",
		Action:       ActionShareMedia,
		TargetValue:  2,
		PointsReward: 20,
		Rarity:       RarityCommon,
	},
	{
		ID:           "friendly_face",
		Title:        "Friendly Face",
		Description:  "React to 5 messages",
		IconRef:      "icon_react",
		Action:       ActionReactToMessages,
		TargetValue:  5,
		PointsReward: 15,
		Rarity:       RarityCommon,
	},
	{
		ID:           "ice_breaker",
		Title:        "Ice Breaker",
		Description:  "Start a new conversation",
		IconRef:      "icon_wave",
		Action:       ActionStartConversations,
		TargetValue:  1,
		PointsReward: 20,
		Rarity:       RarityCommon,
	},
	// Uncommon
	{
		ID:                  "conversation_starter",
		Title:               "Conversation Starter",
		Description:         "Start 3 new conversations",
		IconRef:             "icon_wave",
		Action:              ActionStartConversations,
		TargetValue:         3,
		PointsReward:        40,
		Rarity:              RarityUncommon,
		SpecialRewardChance: 0.05,
	},
	{
		ID:                  "translation_sprint",
		Title:               "Translation Sprint",
		Description:         "Complete 10 translations",
		IconRef:             "icon_translate",
		Action:              ActionCompleteTranslations,
		TargetValue:         10,
		PointsReward:        50,
		Rarity:              RarityUncommon,
		SpecialRewardChance: 0.05,
	},
	{
		ID:                  "network_builder",
		Title:               "Network Builder",
		Description:         "Add 2 new contacts",
		IconRef:             "icon_contact",
		Action:              ActionAddContacts,
		TargetValue:         2,
		PointsReward:        45,
		Rarity:              RarityUncommon,
		SpecialRewardChance: 0.05,
	},
	{
		ID:                  "voice_of_reason",
		Title:               "Voice of Reason",
		Description:         "Use voice input 5 times",
		IconRef:             "icon_mic",
		Action:              ActionUseVoiceInput,
		TargetValue:         5,
		PointsReward:        40,
		Rarity:              RarityUncommon,
		SpecialRewardChance: 0.05,
	},
	// Rare
	{
		ID:                  "message_marathon",
		Title:               "Message Marathon",
		Description:         "Send 50 messages",
		IconRef:             "icon_chat_gold",
		Action:              ActionSendMessages,
		TargetValue:         50,
		PointsReward:        100,
		Rarity:              RarityRare,
		SpecialRewardChance: 0.15,
	},
	{
		ID:                  "polyglot_path",
		Title:               "Polyglot Path",
		Description:         "Complete 25 translations",
		IconRef:             "icon_globe",
		Action:              ActionCompleteTranslations,
		TargetValue:         25,
		PointsReward:        120,
		Rarity:              RarityRare,
		SpecialRewardChance: 0.15,
	},
	{
		ID:                  "gallery_curator",
		Title:               "Gallery Curator",
		Description:         "Share 10 photos or videos",
		IconRef:             "icon_gallery",
		Action:              ActionShareMedia,
		TargetValue:         10,
		PointsReward:        110,
		Rarity:              RarityRare,
		SpecialRewardChance: 0.15,
	},
	// Epic
	{
		ID:                  "translation_titan",
		Title:               "Translation Titan",
		Description:         "Complete 50 translations",
		IconRef:             "icon_trophy",
		Action:              ActionCompleteTranslations,
		TargetValue:         50,
		PointsReward:        250,
		Rarity:              RarityEpic,
		SpecialRewardChance: 0.3,
	},
	{
		ID:                  "social_storm",
		Title:               "Social Storm",
		Description:         "Send 100 messages",
		IconRef:             "icon_storm",
		Action:              ActionSendMessages,
		TargetValue:         100,
		PointsReward:        220,
		Rarity:              RarityEpic,
		SpecialRewardChance: 0.3,
	},
	// Legendary
	{
		ID:                  CompoundTemplateID,
		Title:               "Communication Legend",
		Description:         "Master every channel: 50 messages, 20 translations, 10 media shares",
		IconRef:             "icon_crown",
		Action:              ActionSendMessages,
		TargetValue:         100,
		PointsReward:        500,
		Rarity:              RarityLegendary,
		SpecialRewardChance: 1.0,
	},
}

// defaultAchievements is the built-in achievement table, grouped by the
// counter family that unlocks them.
var defaultAchievements = []Achievement{
	{ID: "messages_10", Title: "First Words", Category: CategoryMessages, Requirement: 10, Points: 20},
	{ID: "messages_100", Title: "Storyteller", Category: CategoryMessages, Requirement: 100, Points: 75},
	{ID: "messages_1000", Title: "Voice of the People", Category: CategoryMessages, Requirement: 1000, Points: 300},
	{ID: "translations_10", Title: "Apprentice Translator", Category: CategoryTranslations, Requirement: 10, Points: 30},
	{ID: "translations_50", Title: "Language Weaver", Category: CategoryTranslations, Requirement: 50, Points: 100},
	{ID: "translations_250", Title: "Polyglot", Category: CategoryTranslations, Requirement: 250, Points: 400},
	{ID: "media_5", Title: "Snapshot", Category: CategoryMedia, Requirement: 5, Points: 20},
	{ID: "media_50", Title: "Archivist", Category: CategoryMedia, Requirement: 50, Points: 150},
	{ID: "contacts_5", Title: "Circle of Friends", Category: CategoryContacts, Requirement: 5, Points: 40},
	{ID: "contacts_25", Title: "Community Pillar", Category: CategoryContacts, Requirement: 25, Points: 150},
	{ID: "streak_3", Title: "Warming Up", Category: CategoryStreak, Requirement: 3, Points: 15},
	{ID: "streak_7", Title: "Week Warrior", Category: CategoryStreak, Requirement: 7, Points: 40},
	{ID: "streak_30", Title: "Monthly Devotion", Category: CategoryStreak, Requirement: 30, Points: 150},
	{ID: "streak_100", Title: "Centurion", Category: CategoryStreak, Requirement: 100, Points: 500},
	{ID: "missions_1", Title: "First Mission", Category: CategoryMissions, Requirement: 1, Points: 10},
	{ID: "missions_10", Title: "Mission Regular", Category: CategoryMissions, Requirement: 10, Points: 60},
	{ID: "missions_50", Title: "Mission Veteran", Category: CategoryMissions, Requirement: 50, Points: 250},
}

// rewardArchetypes templates the display fields of minted special rewards by
// cosmetic type. %s is the rarity name.
var rewardArchetypes = map[RewardType]RewardArchetype{
	RewardTheme:       {TitleFormat: "%s Theme", Description: "A chat theme unlocked by your missions", Icon: "reward_theme"},
	RewardAvatarFrame: {TitleFormat: "%s Avatar Frame", Description: "A frame for your profile picture", Icon: "reward_frame"},
	RewardSound:       {TitleFormat: "%s Notification Sound", Description: "A notification sound pack", Icon: "reward_sound"},
	RewardEmoji:       {TitleFormat: "%s Emoji Pack", Description: "An exclusive emoji pack", Icon: "reward_emoji"},
	RewardBackground:  {TitleFormat: "%s Background", Description: "A conversation background", Icon: "reward_background"},
	RewardSticker:     {TitleFormat: "%s Sticker Set", Description: "A sticker set for your chats", Icon: "reward_sticker"},
}
