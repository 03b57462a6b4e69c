package catalog

import (
	"fmt"
	"sort"
)

// Catalog is the immutable, process-wide table of mission templates, reward
// archetypes and achievements. Build one with New or Default at startup and
// inject it into the engine.
type Catalog struct {
	templates     []MissionTemplate
	templatesByID map[string]MissionTemplate
	tiers         map[Rarity][]MissionTemplate
	achievements  []Achievement
	achByCategory map[AchievementCategory][]Achievement
	archetypes    map[RewardType]RewardArchetype
}

// New validates and indexes the given tables. Catalog data is static and
// version-controlled; a validation failure here is a programming error.
func New(templates []MissionTemplate, achievements []Achievement) (*Catalog, error) {
	c := &Catalog{
		templates:     make([]MissionTemplate, len(templates)),
		templatesByID: make(map[string]MissionTemplate, len(templates)),
		tiers:         make(map[Rarity][]MissionTemplate),
		achievements:  make([]Achievement, len(achievements)),
		achByCategory: make(map[AchievementCategory][]Achievement),
		archetypes:    rewardArchetypes,
	}
	copy(c.templates, templates)
	copy(c.achievements, achievements)

	compoundSeen := false
	for _, t := range c.templates {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: template with empty id")
		}
		if _, dup := c.templatesByID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", t.ID)
		}
		if t.TargetValue <= 0 {
			return nil, fmt.Errorf("catalog: template %q has non-positive target %d", t.ID, t.TargetValue)
		}
		if t.PointsReward < 0 {
			return nil, fmt.Errorf("catalog: template %q has negative reward", t.ID)
		}
		if t.SpecialRewardChance < 0 || t.SpecialRewardChance > 1 {
			return nil, fmt.Errorf("catalog: template %q has reward chance %v outside [0,1]", t.ID, t.SpecialRewardChance)
		}
		if !t.Rarity.Valid() {
			return nil, fmt.Errorf("catalog: template %q has invalid rarity %d", t.ID, t.Rarity)
		}
		if !t.Action.Valid() {
			return nil, fmt.Errorf("catalog: template %q has unknown action %q", t.ID, t.Action)
		}
		if t.IsCompound() {
			compoundSeen = true
		}
		c.templatesByID[t.ID] = t
		c.tiers[t.Rarity] = append(c.tiers[t.Rarity], t)
	}
	if !compoundSeen {
		return nil, fmt.Errorf("catalog: missing compound template %q", CompoundTemplateID)
	}

	achIDs := make(map[string]bool, len(c.achievements))
	for _, a := range c.achievements {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog: achievement with empty id")
		}
		if achIDs[a.ID] {
			return nil, fmt.Errorf("catalog: duplicate achievement id %q", a.ID)
		}
		if a.Requirement <= 0 {
			return nil, fmt.Errorf("catalog: achievement %q has non-positive requirement", a.ID)
		}
		achIDs[a.ID] = true
		c.achByCategory[a.Category] = append(c.achByCategory[a.Category], a)
	}
	// Deterministic evaluation order within a category.
	for cat := range c.achByCategory {
		sort.Slice(c.achByCategory[cat], func(i, j int) bool {
			return c.achByCategory[cat][i].Requirement < c.achByCategory[cat][j].Requirement
		})
	}

	return c, nil
}

// Default builds the catalog from the built-in tables. It panics on a
// validation failure, which can only happen if the built-in data is broken.
func Default() *Catalog {
	c, err := New(defaultTemplates, defaultAchievements)
	if err != nil {
		panic(err)
	}
	return c
}

// Template returns the template with the given id.
func (c *Catalog) Template(id string) (MissionTemplate, bool) {
	t, ok := c.templatesByID[id]
	return t, ok
}

// Templates returns all templates in catalog order.
func (c *Catalog) Templates() []MissionTemplate {
	out := make([]MissionTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Tier returns the templates of one rarity tier.
func (c *Catalog) Tier(r Rarity) []MissionTemplate {
	out := make([]MissionTemplate, len(c.tiers[r]))
	copy(out, c.tiers[r])
	return out
}

// Achievements returns all achievements.
func (c *Catalog) Achievements() []Achievement {
	out := make([]Achievement, len(c.achievements))
	copy(out, c.achievements)
	return out
}

// AchievementsInCategory returns the achievements of one category, ordered by
// ascending requirement.
func (c *Catalog) AchievementsInCategory(cat AchievementCategory) []Achievement {
	src := c.achByCategory[cat]
	out := make([]Achievement, len(src))
	copy(out, src)
	return out
}

// Archetype returns the reward display archetype for a cosmetic type.
func (c *Catalog) Archetype(t RewardType) (RewardArchetype, bool) {
	a, ok := c.archetypes[t]
	return a, ok
}
