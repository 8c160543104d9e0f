// Package search filters and sorts the in-memory opportunity index. All
// functions are pure: they never mutate their input slice.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amara/scholarfind/internal/models"
)

// Sort orders accepted by Query.SortBy.
const (
	SortRelevance = "relevance"
	SortDeadline  = "deadline"
	SortTitle     = "title"
)

// Query is one search request against the opportunity index.
//
// Keywords is matched as a whole-query substring of the record's
// searchable text (lowercased, trimmed). The looser tokenized any-match
// behavior was considered and rejected: it breaks the contract that every
// returned record contains the full query as a substring.
type Query struct {
	Type          string   // "Scholarships", "Internships", "Fellowships" or "all"/empty
	Keywords      string   // free text, whole-query substring match
	FundingTypes  []string // scalar facet: record's funding type must be one of these
	LevelsOfStudy []string // set facet: intersection must be non-empty
	SubjectAreas  []string // set facet: intersection must be non-empty
	SortBy        string   // relevance (default), deadline, title
}

// Filter applies the query to opps and returns the filtered, sorted
// subset. Facet predicates are independent and AND-ed, so the order they
// are applied in never changes the result.
func Filter(opps []models.Opportunity, q Query) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(opps))

	keywords := strings.ToLower(strings.TrimSpace(q.Keywords))
	for _, o := range opps {
		if !matchesType(o, q.Type) {
			continue
		}
		if keywords != "" && !strings.Contains(SearchableText(o), keywords) {
			continue
		}
		if len(q.FundingTypes) > 0 && !contains(q.FundingTypes, o.FundingType) {
			continue
		}
		if len(q.LevelsOfStudy) > 0 && !intersects(o.LevelOfStudy, q.LevelsOfStudy) {
			continue
		}
		if len(q.SubjectAreas) > 0 && !intersects(o.SubjectAreas, q.SubjectAreas) {
			continue
		}
		out = append(out, o)
	}

	sortResults(out, q.SortBy)
	return out
}

func matchesType(o models.Opportunity, t string) bool {
	if t == "" || strings.EqualFold(t, "all") || strings.EqualFold(t, "all types") {
		return true
	}
	return o.Type == t
}

// SearchableText builds the lowercased blob a keyword query is matched
// against: title, organization, location, funding type, description text
// and every subject area and study level, joined by single spaces.
func SearchableText(o models.Opportunity) string {
	fields := []string{
		o.Title,
		o.Organization,
		o.Location,
		o.FundingType,
		htmlToText(o.Description),
	}
	fields = append(fields, o.SubjectAreas...)
	fields = append(fields, o.LevelOfStudy...)
	return strings.ToLower(strings.Join(fields, " "))
}

// htmlToText flattens description HTML to plain text so markup never
// participates in keyword matching.
func htmlToText(html string) string {
	if !strings.Contains(html, "<") {
		return html
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func sortResults(opps []models.Opportunity, sortBy string) {
	switch sortBy {
	case SortDeadline:
		sort.SliceStable(opps, func(i, j int) bool {
			di, iok := ParseDeadline(opps[i].Deadline)
			dj, jok := ParseDeadline(opps[j].Deadline)
			// Unparsable deadlines always sort to the end.
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			return di.Before(dj)
		})
	case SortTitle:
		sort.SliceStable(opps, func(i, j int) bool {
			return opps[i].Title < opps[j].Title
		})
	default:
		// Relevance: stable original order. No scoring function is defined.
	}
}

var deadlineFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

// ParseDeadline parses the deadline strings the content index carries.
// Callers render unparsable values as "Not specified" instead of failing.
func ParseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
