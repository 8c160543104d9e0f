package api

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/amara/scholarfind/internal/models"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ,", []string{"a", "b"}},
		{",,", nil},
	}
	for _, tc := range cases {
		if got := splitCSV(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCSV(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMarkFavorites(t *testing.T) {
	opps := []models.Opportunity{
		{ID: "a"},
		{ID: "b", IsFavorited: true}, // stale flag must be overwritten
		{ID: "c"},
	}
	markFavorites(opps, []string{"a", "missing"})

	if !opps[0].IsFavorited {
		t.Error("a should be favorited")
	}
	if opps[1].IsFavorited {
		t.Error("b should have its stale flag cleared")
	}
	if opps[2].IsFavorited {
		t.Error("c should not be favorited")
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"limit=10&offset=20", 10, 20},
		{"limit=0", 50, 0},
		{"limit=-5&offset=-1", 50, 0},
		{"limit=9999", 50, 0},
		{"limit=abc&offset=xyz", 50, 0},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/?"+tc.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		limit, offset := pageParams(c, 50)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
				tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
