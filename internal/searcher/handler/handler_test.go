package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/booleval"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/vector"
)

type recordingTracker struct {
	events []analytics.QueryEvent
}

func (rt *recordingTracker) Track(event interface{}) {
	if qe, ok := event.(analytics.QueryEvent); ok {
		rt.events = append(rt.events, qe)
	}
}

func newTestHandler(t *testing.T) (*Handler, *recordingTracker) {
	t.Helper()
	analyzer := tokenizer.NewDefault()
	docs := corpus.Corpus{
		"Doc1": "superconductors repel a magnet",
		"Doc2": "a magnet repels a superconductor",
	}
	engine := indexer.NewEngine(analyzer)
	engine.Build(docs)
	pt := permuterm.Build(engine.Snapshot())
	vm := vector.NewModel(tokenizer.New(tokenizer.RankedStopWords), docs)
	exec := executor.New(engine, parser.New(analyzer), booleval.New(engine, pt), pt, vm)
	tracker := &recordingTracker{}
	return New(exec, engine, nil, tracker, nil, 10, 100), tracker
}

func TestSearchBoolean(t *testing.T) {
	h, tracker := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=magnet+AND+NOT+superconductor", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result executor.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 1 || len(result.DocIDs) != 1 || result.DocIDs[0] != "Doc1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(tracker.events) != 1 || tracker.events[0].Type != analytics.EventQuery {
		t.Errorf("tracked events = %+v, want one query event", tracker.events)
	}
}

func TestSearchVectorMode(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=magnet+superconductor&mode=vector", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result executor.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Ranked) == 0 || result.Ranked[0].DocID != "Doc2" {
		t.Errorf("ranked = %+v, want Doc2 first", result.Ranked)
	}
}

func TestSearchValidation(t *testing.T) {
	h, tracker := newTestHandler(t)
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing q", "/api/v1/search", http.StatusBadRequest},
		{"bad mode", "/api/v1/search?q=magnet&mode=fuzzy", http.StatusBadRequest},
		{"bad limit", "/api/v1/search?q=magnet&limit=zero", http.StatusBadRequest},
		{"invalid boolean query", "/api/v1/search?q=AND+magnet", http.StatusBadRequest},
		{"zero result ok", "/api/v1/search?q=graphene", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Search(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
	// Only the successful zero-result query should have been tracked.
	if len(tracker.events) != 1 || tracker.events[0].Type != analytics.EventZeroResult {
		t.Errorf("tracked events = %+v, want one zero_result event", tracker.events)
	}
}

func TestTermsListing(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Terms(rec, httptest.NewRequest(http.MethodGet, "/api/v1/terms", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		TotalTerms int `json:"total_terms"`
		Terms      []struct {
			Term string   `json:"term"`
			Docs []string `json:"docs"`
		} `json:"terms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.TotalTerms == 0 || len(body.Terms) != body.TotalTerms {
		t.Errorf("unexpected terms body: %+v", body)
	}
	for i := 1; i < len(body.Terms); i++ {
		if body.Terms[i-1].Term > body.Terms[i].Term {
			t.Fatalf("terms not sorted: %q before %q", body.Terms[i-1].Term, body.Terms[i].Term)
		}
	}
}

func TestCacheEndpointsDisabled(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.CacheStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("CacheStats status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.CacheInvalidate(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("CacheInvalidate status = %d, want 503", rec.Code)
	}
}
