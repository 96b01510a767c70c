package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/kafka"
)

type AggregatedStats struct {
	TotalQueries      int64            `json:"total_queries"`
	QueriesByMode     map[string]int64 `json:"queries_by_mode"`
	CacheHits         int64            `json:"cache_hits"`
	CacheMisses       int64            `json:"cache_misses"`
	ZeroResultCount   int64            `json:"zero_result_count"`
	IndexBuilds       int64            `json:"index_builds"`
	IndexedDocuments  int64            `json:"indexed_documents"`
	AvgLatencyMs      float64          `json:"avg_latency_ms"`
	P50LatencyMs      int64            `json:"p50_latency_ms"`
	P95LatencyMs      int64            `json:"p95_latency_ms"`
	P99LatencyMs      int64            `json:"p99_latency_ms"`
	TopQueries        []QueryCount     `json:"top_queries"`
	ZeroResultQueries []QueryCount     `json:"zero_result_queries"`
	QueriesPerMinute  float64          `json:"queries_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// ModeStats is the narrowed view served when a stats request asks for a
// single query mode.
type ModeStats struct {
	Mode    string  `json:"mode"`
	Queries int64   `json:"queries"`
	Share   float64 `json:"share"`
}

// Aggregator consumes the query event topic and maintains rolling stats.
type Aggregator struct {
	mu                sync.RWMutex
	totalQueries      atomic.Int64
	cacheHits         atomic.Int64
	cacheMisses       atomic.Int64
	zeroResults       atomic.Int64
	indexBuilds       atomic.Int64
	indexedDocs       atomic.Int64
	queriesByMode     map[string]int64
	latencies         []int64
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	startTime         time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		queriesByMode:     make(map[string]int64),
		latencies:         make([]int64, 0, 10000),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		startTime:         time.Now(),
		consumer:          consumer,
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// Start blocks consuming the event topic until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent decodes incoming messages and records them. Undecodable
// messages are logged and skipped, never retried.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[QueryEvent](value)
		if err == nil && event.Type != EventIndexBuild {
			agg.recordQueryEvent(event)
			return nil
		}
		buildEvent, buildErr := kafka.DecodeJSON[BuildEvent](value)
		if buildErr != nil || buildEvent.Type != EventIndexBuild {
			agg.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		agg.recordBuildEvent(buildEvent)
		return nil
	}
}

func (a *Aggregator) recordQueryEvent(event QueryEvent) {
	a.totalQueries.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.TotalHits == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.queriesByMode[event.Mode]++
	a.latencies = append(a.latencies, event.LatencyMs)
	a.queryCounts[event.Query]++
	if event.TotalHits == 0 {
		a.zeroResultQueries[event.Query]++
	}
	a.mu.Unlock()
}

func (a *Aggregator) recordBuildEvent(event BuildEvent) {
	a.indexBuilds.Add(1)
	a.indexedDocs.Store(int64(event.Documents))
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:     a.totalQueries.Load(),
		QueriesByMode:    make(map[string]int64, len(a.queriesByMode)),
		CacheHits:        a.cacheHits.Load(),
		CacheMisses:      a.cacheMisses.Load(),
		ZeroResultCount:  a.zeroResults.Load(),
		IndexBuilds:      a.indexBuilds.Load(),
		IndexedDocuments: a.indexedDocs.Load(),
	}
	for mode, count := range a.queriesByMode {
		stats.QueriesByMode[mode] = count
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.ZeroResultQueries = topN(a.zeroResultQueries, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}
	return stats
}

// StatsHandler serves the aggregated stats as JSON. A mode query parameter
// (boolean, wildcard, or vector) narrows the response to that mode's share
// of the query traffic.
func (a *Aggregator) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := a.Stats()
		w.Header().Set("Content-Type", "application/json")

		var body any = stats
		if mode := r.URL.Query().Get("mode"); mode != "" {
			ms := ModeStats{Mode: mode, Queries: stats.QueriesByMode[mode]}
			if stats.TotalQueries > 0 {
				ms.Share = float64(ms.Queries) / float64(stats.TotalQueries)
			}
			body = ms
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			a.logger.Error("failed to write analytics response", "error", err)
		}
	}
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
