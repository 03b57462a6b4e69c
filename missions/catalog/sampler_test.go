package catalog

import (
	"math"
	"testing"

	"github.com/lingualink/gamify/missions/interfaces"
)

func TestSampleDailyShape(t *testing.T) {
	cat := Default()
	rng := interfaces.NewSeededRand(42)

	for i := 0; i < 1000; i++ {
		sample := cat.SampleDaily(rng)

		counts := map[Rarity]int{}
		seen := map[string]bool{}
		for _, tmpl := range sample {
			counts[tmpl.Rarity]++
			if seen[tmpl.ID] {
				t.Fatalf("duplicate template %q in one sample", tmpl.ID)
			}
			seen[tmpl.ID] = true
		}

		if counts[RarityCommon] != 3 {
			t.Fatalf("got %d commons, want 3", counts[RarityCommon])
		}
		if counts[RarityUncommon] < 1 || counts[RarityUncommon] > 2 {
			t.Fatalf("got %d uncommons, want 1 or 2", counts[RarityUncommon])
		}
		for _, r := range []Rarity{RarityRare, RarityEpic, RarityLegendary} {
			if counts[r] > 1 {
				t.Fatalf("got %d %s templates, want at most 1", counts[r], r)
			}
		}
		if len(sample) < 4 || len(sample) > 8 {
			t.Fatalf("sample size %d out of range", len(sample))
		}
	}
}

func TestSampleDailyTierRates(t *testing.T) {
	const n = 100000
	cat := Default()
	rng := interfaces.NewSeededRand(1)

	included := map[Rarity]int{}
	secondUncommon := 0
	for i := 0; i < n; i++ {
		sample := cat.SampleDaily(rng)
		counts := map[Rarity]int{}
		for _, tmpl := range sample {
			counts[tmpl.Rarity]++
		}
		for _, r := range []Rarity{RarityRare, RarityEpic, RarityLegendary} {
			if counts[r] > 0 {
				included[r]++
			}
		}
		if counts[RarityUncommon] == 2 {
			secondUncommon++
		}
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"rare", float64(included[RarityRare]) / n, 0.5},
		{"epic", float64(included[RarityEpic]) / n, 0.2},
		{"legendary", float64(included[RarityLegendary]) / n, 0.05},
		{"second uncommon", float64(secondUncommon) / n, 0.5},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.01 {
			t.Errorf("%s inclusion rate = %.4f, want %.2f ± 0.01", c.name, c.got, c.want)
		}
	}
}

func TestSampleTierUniformity(t *testing.T) {
	const n = 50000
	cat := Default()
	rng := interfaces.NewSeededRand(7)

	counts := map[string]int{}
	commons := 0
	for i := 0; i < n; i++ {
		for _, tmpl := range cat.SampleDaily(rng) {
			if tmpl.Rarity == RarityCommon {
				counts[tmpl.ID]++
				commons++
			}
		}
	}

	pool := cat.Tier(RarityCommon)
	want := float64(commons) / float64(len(pool))
	for _, tmpl := range pool {
		got := float64(counts[tmpl.ID])
		if math.Abs(got-want)/want > 0.05 {
			t.Errorf("common template %q drawn %0.f times, want about %.0f", tmpl.ID, got, want)
		}
	}
}
