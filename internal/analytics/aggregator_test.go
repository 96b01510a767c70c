package analytics

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"
)

func record(t *testing.T, agg *Aggregator, event interface{}) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	if err := HandleEvent(agg)(context.Background(), []byte("analytics"), data); err != nil {
		t.Fatal(err)
	}
}

func TestAggregatorStats(t *testing.T) {
	agg := NewAggregator(nil)

	for i := 0; i < 3; i++ {
		record(t, agg, QueryEvent{
			Type:      EventQuery,
			Query:     "magnet",
			Mode:      "boolean",
			TotalHits: 2,
			LatencyMs: int64(10 * (i + 1)),
			CacheHit:  i > 0,
			Timestamp: time.Now().UTC(),
		})
	}
	record(t, agg, QueryEvent{
		Type:      EventZeroResult,
		Query:     "graphene",
		Mode:      "vector",
		TotalHits: 0,
		LatencyMs: 5,
		Timestamp: time.Now().UTC(),
	})
	record(t, agg, BuildEvent{
		Type:      EventIndexBuild,
		Documents: 42,
		Terms:     100,
		Timestamp: time.Now().UTC(),
	})

	stats := agg.Stats()
	if stats.TotalQueries != 4 {
		t.Errorf("TotalQueries = %d, want 4", stats.TotalQueries)
	}
	if stats.QueriesByMode["boolean"] != 3 || stats.QueriesByMode["vector"] != 1 {
		t.Errorf("QueriesByMode = %v", stats.QueriesByMode)
	}
	if stats.CacheHits != 2 || stats.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 2/2", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if stats.IndexBuilds != 1 || stats.IndexedDocuments != 42 {
		t.Errorf("builds/docs = %d/%d, want 1/42", stats.IndexBuilds, stats.IndexedDocuments)
	}
	if len(stats.TopQueries) == 0 || stats.TopQueries[0].Query != "magnet" || stats.TopQueries[0].Count != 3 {
		t.Errorf("TopQueries = %v", stats.TopQueries)
	}
	if len(stats.ZeroResultQueries) != 1 || stats.ZeroResultQueries[0].Query != "graphene" {
		t.Errorf("ZeroResultQueries = %v", stats.ZeroResultQueries)
	}
	if stats.AvgLatencyMs != 16.25 {
		t.Errorf("AvgLatencyMs = %v, want 16.25", stats.AvgLatencyMs)
	}
	if stats.P50LatencyMs != 20 {
		t.Errorf("P50LatencyMs = %d, want 20", stats.P50LatencyMs)
	}
}

func TestStatsHandler(t *testing.T) {
	agg := NewAggregator(nil)
	for i := 0; i < 3; i++ {
		record(t, agg, QueryEvent{Type: EventQuery, Query: "magnet", Mode: "boolean", TotalHits: 1, Timestamp: time.Now().UTC()})
	}
	record(t, agg, QueryEvent{Type: EventQuery, Query: "re*val", Mode: "wildcard", TotalHits: 2, Timestamp: time.Now().UTC()})
	handler := agg.StatsHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/api/v1/analytics", nil))
	var stats AggregatedStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalQueries != 4 || stats.QueriesByMode["boolean"] != 3 {
		t.Errorf("stats = %+v, want 4 total with 3 boolean", stats)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/api/v1/analytics?mode=boolean", nil))
	var ms ModeStats
	if err := json.Unmarshal(rec.Body.Bytes(), &ms); err != nil {
		t.Fatal(err)
	}
	if ms.Mode != "boolean" || ms.Queries != 3 || ms.Share != 0.75 {
		t.Errorf("mode stats = %+v, want boolean 3 queries share 0.75", ms)
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/api/v1/analytics?mode=vector", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &ms); err != nil {
		t.Fatal(err)
	}
	if ms.Queries != 0 || ms.Share != 0 {
		t.Errorf("unseen mode stats = %+v, want zero counts", ms)
	}
}

func TestAggregatorSkipsGarbage(t *testing.T) {
	agg := NewAggregator(nil)
	if err := HandleEvent(agg)(context.Background(), nil, []byte("not json")); err != nil {
		t.Fatalf("garbage must be skipped, got error %v", err)
	}
	if stats := agg.Stats(); stats.TotalQueries != 0 {
		t.Errorf("TotalQueries = %d, want 0", stats.TotalQueries)
	}
}
