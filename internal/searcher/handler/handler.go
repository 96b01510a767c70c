// Package handler exposes the HTTP API of the search service: query
// evaluation, index term listing, and cache administration.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/metrics"
)

// SearchExecutor evaluates one query under a mode.
type SearchExecutor interface {
	Execute(ctx context.Context, query string, mode executor.Mode, limit int) (*executor.SearchResult, error)
}

type Handler struct {
	executor     SearchExecutor
	engine       *indexer.Engine
	cache        *cache.QueryCache
	tracker      analytics.Tracker
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

func New(exec SearchExecutor, engine *indexer.Engine, queryCache *cache.QueryCache, tracker analytics.Tracker, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	if tracker == nil {
		tracker = analytics.Noop{}
	}
	return &Handler{
		executor:     exec,
		engine:       engine,
		cache:        queryCache,
		tracker:      tracker,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=&mode=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	mode, err := executor.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.writeAppError(w, log, err)
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > h.maxResults {
			parsed = h.maxResults
		}
		limit = parsed
	}

	var result *executor.SearchResult
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, mode, limit, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, query, mode, limit)
		})
	} else {
		result, err = h.executor.Execute(ctx, query, mode, limit)
	}
	if err != nil {
		h.writeAppError(w, log, err)
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	returned := len(result.DocIDs) + len(result.Ranked)

	log.Info("search completed",
		"query", query,
		"mode", mode,
		"total_hits", result.TotalHits,
		"returned", returned,
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	h.recordMetrics(mode, result.TotalHits, returned, cacheHit, time.Since(start))

	eventType := analytics.EventQuery
	if result.TotalHits == 0 {
		eventType = analytics.EventZeroResult
	}
	h.tracker.Track(analytics.QueryEvent{
		Type:      eventType,
		Query:     query,
		Mode:      string(mode),
		TotalHits: result.TotalHits,
		Returned:  returned,
		LatencyMs: latencyMs,
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: logger.RequestIDFromContext(ctx),
	})

	h.writeJSON(w, http.StatusOK, result)
}

// Terms handles GET /api/v1/terms: the full sorted index listing with
// document counts.
func (h *Handler) Terms(w http.ResponseWriter, r *http.Request) {
	type termInfo struct {
		Term string   `json:"term"`
		Docs []string `json:"docs"`
	}
	snapshot := h.engine.Snapshot()
	terms := make([]termInfo, 0, len(snapshot))
	for _, tp := range snapshot {
		terms = append(terms, termInfo{Term: tp.Term, Docs: tp.Postings.Docs()})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"total_terms": len(terms),
		"terms":       terms,
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) recordMetrics(mode executor.Mode, totalHits, returned int, cacheHit bool, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	resultType := "hits"
	if totalHits == 0 {
		resultType = "zero"
	}
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	h.metrics.QueriesTotal.WithLabelValues(string(mode), resultType).Inc()
	h.metrics.QueryLatency.WithLabelValues(string(mode), cacheStatus).Observe(elapsed.Seconds())
	h.metrics.QueryResultsCount.Observe(float64(returned))
	if cacheHit {
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
}

func (h *Handler) writeAppError(w http.ResponseWriter, log *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.writeError(w, appErr.StatusCode, appErr.Message)
		return
	}
	log.Error("search execution failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "search failed")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
