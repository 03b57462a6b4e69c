package catalog

import "github.com/sahilm/fuzzy"

// SearchMatch is one fuzzy search hit with its score.
type SearchMatch struct {
	Template MissionTemplate
	Score    int
}

type templateSource []MissionTemplate

func (s templateSource) String(i int) string { return s[i].ID + " " + s[i].Title }
func (s templateSource) Len() int            { return len(s) }

// Search fuzzy-matches templates by id and title. Used by the ops CLI to look
// up catalog entries; an empty query returns no matches.
func (c *Catalog) Search(query string) []SearchMatch {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, templateSource(c.templates))
	out := make([]SearchMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchMatch{Template: c.templates[m.Index], Score: m.Score})
	}
	return out
}
