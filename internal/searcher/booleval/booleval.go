// Package booleval evaluates parsed boolean query plans against the term
// index. Set algebra is over document IDs: AND intersects, OR unions, XOR
// takes the symmetric difference, and NOT complements against the full
// corpus universe.
package booleval

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
)

// Evaluator resolves operands against the engine and permuterm dictionary
// and combines them with boolean set algebra.
type Evaluator struct {
	engine    *indexer.Engine
	permuterm *permuterm.Index
}

func New(engine *indexer.Engine, pt *permuterm.Index) *Evaluator {
	return &Evaluator{engine: engine, permuterm: pt}
}

// Evaluate runs a parsed plan and returns the sorted matching document IDs.
func (ev *Evaluator) Evaluate(plan *parser.Plan) ([]string, error) {
	left, err := ev.resolve(plan.Left)
	if err != nil {
		return nil, err
	}
	if plan.Right == nil {
		return left.Docs(), nil
	}
	right, err := ev.resolve(*plan.Right)
	if err != nil {
		return nil, err
	}

	var result index.PostingSet
	switch plan.Op {
	case parser.OpAnd:
		result = intersect(left, right)
	case parser.OpOr:
		result = union(left, right)
	case parser.OpXor:
		result = symmetricDifference(left, right)
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "unsupported operator in %q", plan.RawQuery)
	}
	return result.Docs(), nil
}

// resolve turns one operand into a posting set, applying wildcard expansion
// and NOT complement.
func (ev *Evaluator) resolve(operand parser.Operand) (index.PostingSet, error) {
	var set index.PostingSet
	switch {
	case !operand.Wildcard:
		set = ev.engine.Search(operand.Term)
	case strings.HasSuffix(operand.Term, "*") && strings.Count(operand.Term, "*") == 1:
		// Trailing wildcard walks the tree directly, no rotation needed.
		set = index.NewPostingSet()
		for _, tp := range ev.engine.PrefixCollect(strings.TrimSuffix(operand.Term, "*")) {
			for doc := range tp.Postings {
				set.Add(doc)
			}
		}
	default:
		var err error
		set, err = ev.permuterm.Lookup(operand.Term)
		if err != nil {
			return nil, err
		}
	}

	if operand.Negated {
		return ev.complement(set), nil
	}
	return set, nil
}

func (ev *Evaluator) complement(set index.PostingSet) index.PostingSet {
	result := index.NewPostingSet()
	for doc := range ev.engine.Universe() {
		if !set.Contains(doc) {
			result.Add(doc)
		}
	}
	return result
}

func intersect(a, b index.PostingSet) index.PostingSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	result := index.NewPostingSet()
	for doc := range a {
		if b.Contains(doc) {
			result.Add(doc)
		}
	}
	return result
}

func union(a, b index.PostingSet) index.PostingSet {
	result := index.NewPostingSet()
	for doc := range a {
		result.Add(doc)
	}
	for doc := range b {
		result.Add(doc)
	}
	return result
}

func symmetricDifference(a, b index.PostingSet) index.PostingSet {
	result := index.NewPostingSet()
	for doc := range a {
		if !b.Contains(doc) {
			result.Add(doc)
		}
	}
	for doc := range b {
		if !a.Contains(doc) {
			result.Add(doc)
		}
	}
	return result
}
