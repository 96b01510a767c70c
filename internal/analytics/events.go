package analytics

import "time"

type EventType string

const (
	EventQuery      EventType = "query"
	EventZeroResult EventType = "zero_result"
	EventIndexBuild EventType = "index_build"
)

// QueryEvent is emitted by the search handler for every evaluated query.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Mode      string    `json:"mode"`
	Terms     []string  `json:"terms"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// BuildEvent is emitted once per index build.
type BuildEvent struct {
	Type         EventType `json:"type"`
	Documents    int       `json:"documents"`
	Terms        int       `json:"terms"`
	BuildSeconds float64   `json:"build_seconds"`
	Timestamp    time.Time `json:"timestamp"`
}
