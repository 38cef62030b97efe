package jobsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPostingLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		posting  Posting
		expected string
	}{
		{
			name:     "all parts",
			posting:  Posting{City: "Seattle", State: "WA", Country: "US"},
			expected: "Seattle, WA, US",
		},
		{
			name:     "partial",
			posting:  Posting{State: "WA"},
			expected: "WA",
		},
		{
			name:     "remote fallback",
			posting:  Posting{IsRemote: true},
			expected: "Remote",
		},
		{
			name:     "empty",
			posting:  Posting{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.posting.Location(); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestReportByEmployer(t *testing.T) {
	t.Parallel()

	postings := &Postings{Items: []*Posting{
		{Title: "Communications Manager", Employer: "Acme", City: "Seattle", SalaryMin: 90000, SalaryMax: 120000},
		{Title: "PR Specialist", Employer: "Acme"},
		{Title: "Internal Comms Lead", Employer: "Globex"},
	}}

	report := postings.ReportByEmployer()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme entries, got %d", len(report["Acme"]))
	}
	if report["Acme"][0]["salary"] != "90000-120000" {
		t.Fatalf("unexpected salary: %q", report["Acme"][0]["salary"])
	}
	if _, ok := report["Acme"][1]["salary"]; ok {
		t.Fatalf("did not expect salary for posting without bounds")
	}
	if len(report["Globex"]) != 1 {
		t.Fatalf("expected 1 Globex entry")
	}
}

func TestSearchDecodesPostings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" {
			t.Errorf("missing query parameter")
		}
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": []map[string]any{
				{
					"job_title":       "Communications Manager",
					"employer_name":   "Acme",
					"job_description": "internal communications role",
					"job_city":        "Seattle",
					"job_apply_link":  "https://example.com/apply",
				},
			},
		})
	}))
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "test-key")
	client.APIURL = server.URL

	postings, err := client.Search(&SearchParams{Query: "communications manager"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postings.Len() != 1 {
		t.Fatalf("expected 1 posting, got %d", postings.Len())
	}
	if postings.Items[0].Employer != "Acme" {
		t.Fatalf("unexpected employer: %q", postings.Items[0].Employer)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	client := New(context.Background(), zap.NewNop(), "key")
	if _, err := client.Search(&SearchParams{}); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestSearchCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := newSearchCache(dir)
	params := &SearchParams{Query: "communications"}

	if _, ok := cache.get(params); ok {
		t.Fatalf("expected cache miss on empty dir")
	}

	postings := &Postings{Items: []*Posting{{Title: "Comms Lead", Employer: "Acme"}}}
	if err := cache.put(params, postings); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := cache.get(params)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Len() != 1 || got.Items[0].Title != "Comms Lead" {
		t.Fatalf("unexpected cached postings: %+v", got.Items)
	}

	// A different query misses.
	if _, ok := cache.get(&SearchParams{Query: "other"}); ok {
		t.Fatalf("expected miss for different params")
	}
}

func TestSearchCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	cache := newSearchCache(dir)
	params := &SearchParams{Query: "communications"}

	base := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return base }
	defer func() { timeNow = time.Now }()

	postings := &Postings{Items: []*Posting{{Title: "Comms Lead"}}}
	if err := cache.put(params, postings); err != nil {
		t.Fatalf("put: %v", err)
	}

	timeNow = func() time.Time { return base.Add(cacheTTL + time.Minute) }
	if _, ok := cache.get(params); ok {
		t.Fatalf("expected expired entry to miss")
	}

	_ = os.Remove(cache.path())
}
