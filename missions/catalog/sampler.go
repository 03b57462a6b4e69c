package catalog

import "github.com/lingualink/gamify/missions/interfaces"

// Tier inclusion odds for the daily sample. Tiers are independent draws, so a
// day with zero rare or better missions is a normal outcome.
const (
	secondUncommonChance = 0.5
	rareChance           = 0.5
	epicChance           = 0.2
	legendaryChance      = 0.05
)

const dailyCommonCount = 3

// SampleDaily selects the day's mission templates: always 3 Commons, 1 or 2
// Uncommons, and independently rolled Rare/Epic/Legendary inclusions. Each
// tier samples without replacement by shuffling the tier slice and taking a
// prefix, so no template repeats within a day and same-tier templates are
// selected uniformly. The result size varies from 4 to 8.
func (c *Catalog) SampleDaily(rng interfaces.RandomSource) []MissionTemplate {
	out := make([]MissionTemplate, 0, 8)
	out = append(out, c.sampleTier(rng, RarityCommon, dailyCommonCount)...)

	uncommon := 1
	if rng.Uniform() < secondUncommonChance {
		uncommon = 2
	}
	out = append(out, c.sampleTier(rng, RarityUncommon, uncommon)...)

	if rng.Uniform() < rareChance {
		out = append(out, c.sampleTier(rng, RarityRare, 1)...)
	}
	if rng.Uniform() < epicChance {
		out = append(out, c.sampleTier(rng, RarityEpic, 1)...)
	}
	if rng.Uniform() < legendaryChance {
		out = append(out, c.sampleTier(rng, RarityLegendary, 1)...)
	}

	return out
}

// sampleTier draws up to n distinct templates from one rarity tier using a
// uniform Fisher-Yates shuffle.
func (c *Catalog) sampleTier(rng interfaces.RandomSource, r Rarity, n int) []MissionTemplate {
	pool := c.Tier(r)
	if len(pool) == 0 {
		return nil
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
