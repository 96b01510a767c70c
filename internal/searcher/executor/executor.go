// Package executor dispatches queries to the evaluator selected by mode and
// shapes the results for the HTTP layer.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/booleval"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/vector"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
)

// Mode selects the query evaluator.
type Mode string

const (
	ModeBoolean  Mode = "boolean"
	ModeWildcard Mode = "wildcard"
	ModeVector   Mode = "vector"
)

// ParseMode validates a raw mode string, defaulting to boolean when empty.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "":
		return ModeBoolean, nil
	case ModeBoolean, ModeWildcard, ModeVector:
		return Mode(raw), nil
	default:
		return "", apperrors.Newf(apperrors.ErrUnknownMode, 400, "unknown query mode %q", raw)
	}
}

// SearchResult is the JSON shape returned for every query mode. Boolean and
// wildcard results carry matched terms and document IDs; vector results
// additionally carry scores.
type SearchResult struct {
	Query        string             `json:"query"`
	Mode         Mode               `json:"mode"`
	TotalHits    int                `json:"total_hits"`
	DocIDs       []string           `json:"doc_ids,omitempty"`
	Ranked       []vector.ScoredDoc `json:"ranked,omitempty"`
	MatchedTerms []string           `json:"matched_terms,omitempty"`
	TookMS       int64              `json:"took_ms"`
}

type Executor struct {
	engine    *indexer.Engine
	parser    *parser.Parser
	booleval  *booleval.Evaluator
	permuterm *permuterm.Index
	vector    *vector.Model
	logger    *slog.Logger
}

func New(engine *indexer.Engine, p *parser.Parser, bev *booleval.Evaluator, pt *permuterm.Index, vm *vector.Model) *Executor {
	return &Executor{
		engine:    engine,
		parser:    p,
		booleval:  bev,
		permuterm: pt,
		vector:    vm,
		logger:    slog.Default().With("component", "query-executor"),
	}
}

// Execute evaluates query under the given mode. limit <= 0 means unlimited.
func (e *Executor) Execute(ctx context.Context, query string, mode Mode, limit int) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := &SearchResult{Query: query, Mode: mode}
	switch mode {
	case ModeBoolean:
		plan, err := e.parser.Parse(query)
		if err != nil {
			return nil, err
		}
		docIDs, err := e.booleval.Evaluate(plan)
		if err != nil {
			return nil, err
		}
		result.DocIDs = docIDs
		result.TotalHits = len(docIDs)
	case ModeWildcard:
		terms, err := e.permuterm.Match(query)
		if err != nil {
			return nil, err
		}
		postings, err := e.permuterm.Lookup(query)
		if err != nil {
			return nil, err
		}
		result.MatchedTerms = terms
		result.DocIDs = postings.Docs()
		result.TotalHits = len(result.DocIDs)
	case ModeVector:
		ranked := e.vector.Query(query)
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		result.Ranked = ranked
		result.TotalHits = len(ranked)
	default:
		return nil, apperrors.Newf(apperrors.ErrUnknownMode, 400, "unknown query mode %q", mode)
	}

	if limit > 0 && len(result.DocIDs) > limit {
		result.DocIDs = result.DocIDs[:limit]
	}
	result.TookMS = time.Since(start).Milliseconds()
	e.logger.Info("query executed",
		"query", query,
		"mode", mode,
		"hits", result.TotalHits,
		"took_ms", result.TookMS,
	)
	return result, nil
}
