package search

import (
	"strings"
	"testing"

	"github.com/amara/scholarfind/internal/models"
)

func sampleOpportunities() []models.Opportunity {
	return []models.Opportunity{
		{
			ID:           "engineering-excellence-scholarship",
			Title:        "Engineering Excellence Scholarship",
			Organization: "Tech Futures Foundation",
			Location:     "United States",
			Deadline:     "2026-11-30",
			FundingType:  models.FundingFullyFunded,
			LevelOfStudy: []string{models.LevelBachelors, models.LevelMasters},
			SubjectAreas: []string{"Engineering", "Computer Science"},
			Description:  "<p>Full tuition support for engineering students.</p>",
			Type:         models.TypeScholarships,
			IsActive:     true,
		},
		{
			ID:           "global-health-fellowship",
			Title:        "Global Health Fellowship",
			Organization: "World Health Initiative",
			Location:     "Switzerland",
			Deadline:     "2026-09-15",
			FundingType:  models.FundingPartialFunding,
			LevelOfStudy: []string{models.LevelPhD, models.LevelPostdoc},
			SubjectAreas: []string{"Medicine", "Public Health"},
			Description:  "<p>Research placement in global health policy.</p>",
			Type:         models.TypeFellowships,
			IsActive:     true,
		},
		{
			ID:           "summer-software-internship",
			Title:        "Summer Software Internship",
			Organization: "Bright Labs",
			Location:     "Remote",
			Deadline:     "March 1, 2027",
			FundingType:  models.FundingMeritBased,
			LevelOfStudy: []string{models.LevelBachelors},
			SubjectAreas: []string{"Computer Science"},
			Description:  "<p>Paid internship building production services.</p>",
			Type:         models.TypeInternships,
			IsActive:     true,
		},
		{
			ID:           "arts-grant-no-deadline",
			Title:        "Creative Arts Grant",
			Organization: "Open Arts Collective",
			Location:     "United Kingdom",
			Deadline:     "Rolling",
			FundingType:  models.FundingNeedBased,
			LevelOfStudy: []string{models.LevelMasters},
			SubjectAreas: []string{"Arts"},
			Description:  "<p>Support for emerging artists.</p>",
			Type:         models.TypeScholarships,
			IsActive:     true,
		},
	}
}

func TestFilter_EmptyQueryReturnsEverything(t *testing.T) {
	opps := sampleOpportunities()
	got := Filter(opps, Query{})
	if len(got) != len(opps) {
		t.Fatalf("expected %d results, got %d", len(opps), len(got))
	}
}

func TestFilter_ResultsAreAlwaysASubset(t *testing.T) {
	opps := sampleOpportunities()
	queries := []Query{
		{Keywords: "engineering"},
		{Type: models.TypeScholarships},
		{FundingTypes: []string{models.FundingFullyFunded}},
		{LevelsOfStudy: []string{models.LevelPhD}},
		{Keywords: "health", Type: models.TypeFellowships, SubjectAreas: []string{"Medicine"}},
	}

	byID := make(map[string]bool, len(opps))
	for _, o := range opps {
		byID[o.ID] = true
	}

	for _, q := range queries {
		for _, r := range Filter(opps, q) {
			if !byID[r.ID] {
				t.Fatalf("query %+v returned record %q not in the input set", q, r.ID)
			}
		}
	}
}

func TestFilter_KeywordMatchIsWholeQuerySubstring(t *testing.T) {
	opps := sampleOpportunities()

	got := Filter(opps, Query{Keywords: "  Global Health  "})
	if len(got) != 1 || got[0].ID != "global-health-fellowship" {
		t.Fatalf("expected only the fellowship, got %v", ids(got))
	}
	for _, r := range got {
		if !strings.Contains(SearchableText(r), "global health") {
			t.Fatalf("record %q does not contain the query as a substring", r.ID)
		}
	}

	// The words match individually but never as one phrase.
	if got := Filter(opps, Query{Keywords: "health engineering"}); len(got) != 0 {
		t.Fatalf("expected no results for a non-contiguous phrase, got %v", ids(got))
	}
}

func TestFilter_KeywordsMatchDescriptionText(t *testing.T) {
	got := Filter(sampleOpportunities(), Query{Keywords: "production services"})
	if len(got) != 1 || got[0].ID != "summer-software-internship" {
		t.Fatalf("expected the internship, got %v", ids(got))
	}
}

func TestFilter_TypeAllPassesEveryCategory(t *testing.T) {
	opps := sampleOpportunities()
	for _, all := range []string{"", "all", "All", "ALL TYPES"} {
		if got := Filter(opps, Query{Type: all}); len(got) != len(opps) {
			t.Fatalf("type %q should match everything, got %d of %d", all, len(got), len(opps))
		}
	}
}

func TestFilter_FacetOrderDoesNotChangeResults(t *testing.T) {
	opps := sampleOpportunities()

	combined := Filter(opps, Query{
		Type:          models.TypeScholarships,
		FundingTypes:  []string{models.FundingFullyFunded},
		LevelsOfStudy: []string{models.LevelBachelors},
	})

	// Applying the facets one at a time must land on the same subset.
	step := Filter(opps, Query{LevelsOfStudy: []string{models.LevelBachelors}})
	step = Filter(step, Query{FundingTypes: []string{models.FundingFullyFunded}})
	step = Filter(step, Query{Type: models.TypeScholarships})

	if len(combined) != len(step) {
		t.Fatalf("combined filter returned %d, sequential returned %d", len(combined), len(step))
	}
	for i := range combined {
		if combined[i].ID != step[i].ID {
			t.Fatalf("result %d differs: %q vs %q", i, combined[i].ID, step[i].ID)
		}
	}
}

func TestFilter_EngineeringScholarshipScenario(t *testing.T) {
	got := Filter(sampleOpportunities(), Query{
		Type:          models.TypeScholarships,
		Keywords:      "engineering",
		FundingTypes:  []string{models.FundingFullyFunded},
		LevelsOfStudy: []string{models.LevelMasters},
	})
	if len(got) != 1 || got[0].ID != "engineering-excellence-scholarship" {
		t.Fatalf("expected exactly the engineering scholarship, got %v", ids(got))
	}
}

func TestFilter_SortByDeadlinePushesUnparsableLast(t *testing.T) {
	got := Filter(sampleOpportunities(), Query{SortBy: SortDeadline})
	// 2026-09-15, 2026-11-30, March 1 2027, then the unparsable "Rolling".
	want := []string{
		"global-health-fellowship",
		"engineering-excellence-scholarship",
		"summer-software-internship",
		"arts-grant-no-deadline",
	}
	gotIDs := ids(got)
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("deadline order mismatch at %d: got %v", i, gotIDs)
		}
	}
}

func TestFilter_SortByTitle(t *testing.T) {
	got := Filter(sampleOpportunities(), Query{SortBy: SortTitle})
	for i := 1; i < len(got); i++ {
		if got[i-1].Title > got[i].Title {
			t.Fatalf("titles out of order: %q before %q", got[i-1].Title, got[i].Title)
		}
	}
}

func TestFilter_DefaultSortKeepsInputOrder(t *testing.T) {
	opps := sampleOpportunities()
	got := Filter(opps, Query{SortBy: SortRelevance})
	for i := range opps {
		if got[i].ID != opps[i].ID {
			t.Fatalf("relevance order changed at %d: got %v", i, ids(got))
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	opps := sampleOpportunities()
	before := ids(opps)
	Filter(opps, Query{SortBy: SortTitle, Keywords: "scholarship"})
	after := ids(opps)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}

func TestParseDeadline(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-11-30", true},
		{"January 2, 2027", true},
		{"2 January 2027", true},
		{"01/02/2026", true},
		{"2026-11-30T00:00:00Z", true},
		{"Rolling", false},
		{"Not specified", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := ParseDeadline(tc.in); ok != tc.ok {
			t.Errorf("ParseDeadline(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestSearchableText_FlattensHTML(t *testing.T) {
	text := SearchableText(models.Opportunity{
		Title:       "Test",
		Description: "<p>Full <strong>tuition</strong> support</p>",
	})
	if strings.Contains(text, "<") {
		t.Fatalf("markup leaked into searchable text: %q", text)
	}
	if !strings.Contains(text, "full tuition support") {
		t.Fatalf("description text missing from blob: %q", text)
	}
}

func ids(opps []models.Opportunity) []string {
	out := make([]string, len(opps))
	for i, o := range opps {
		out[i] = o.ID
	}
	return out
}
