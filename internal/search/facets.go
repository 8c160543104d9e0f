package search

import "github.com/amara/scholarfind/internal/models"

// FacetCount is one value/count pair for the sidebar filters.
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FacetCounts groups the counts for every filterable attribute of a
// result set.
type FacetCounts struct {
	Categories    []FacetCount `json:"categories"`
	FundingTypes  []FacetCount `json:"funding_types"`
	LevelsOfStudy []FacetCount `json:"level_of_study"`
	SubjectAreas  []FacetCount `json:"subject_areas"`
}

// Facets counts the attribute values present in opps. Counts reflect the
// given set only; callers wanting cross-faceted counts pass a set
// filtered by everything except the dimension being counted.
func Facets(opps []models.Opportunity) FacetCounts {
	categories := newCounter()
	funding := newCounter()
	levels := newCounter()
	subjects := newCounter()

	for _, o := range opps {
		categories.add(o.Type)
		funding.add(o.FundingType)
		for _, l := range o.LevelOfStudy {
			levels.add(l)
		}
		for _, s := range o.SubjectAreas {
			subjects.add(s)
		}
	}

	return FacetCounts{
		Categories:    categories.counts(),
		FundingTypes:  funding.counts(),
		LevelsOfStudy: levels.counts(),
		SubjectAreas:  subjects.counts(),
	}
}

// counter preserves first-seen order so facet lists render stably.
type counter struct {
	order []string
	seen  map[string]int
}

func newCounter() *counter {
	return &counter{seen: make(map[string]int)}
}

func (c *counter) add(v string) {
	if v == "" {
		return
	}
	if _, ok := c.seen[v]; !ok {
		c.order = append(c.order, v)
	}
	c.seen[v]++
}

func (c *counter) counts() []FacetCount {
	out := make([]FacetCount, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, FacetCount{Name: v, Count: c.seen[v]})
	}
	return out
}
