// Package parser turns raw boolean query strings into evaluable plans.
//
// The grammar is a single optional binary operator over one or two
// operands: `a`, `NOT a`, `a AND b`, `a AND NOT b`, `a OR NOT b`,
// `a XOR b`, and so on. Operands may carry one `*` wildcard
// (`super*`, `te*m`, `*ing`).
package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
)

// Op is a binary boolean operator.
type Op int

const (
	OpNone Op = iota
	OpAnd
	OpOr
	OpXor
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpXor:
		return "XOR"
	default:
		return ""
	}
}

// Operand is a single query term, possibly negated, possibly containing a
// `*` wildcard.
type Operand struct {
	Term     string
	Negated  bool
	Wildcard bool
}

// Plan is a parsed boolean query: one operand, or two joined by Op.
type Plan struct {
	Left     Operand
	Op       Op
	Right    *Operand
	RawQuery string
}

// Terms returns the operand terms of the plan, for logging and analytics.
func (p *Plan) Terms() []string {
	terms := []string{p.Left.Term}
	if p.Right != nil {
		terms = append(terms, p.Right.Term)
	}
	return terms
}

// Parser normalises operand terms with the same analyzer the index was
// built with, so queries and index agree on casing.
type Parser struct {
	analyzer *tokenizer.Analyzer
}

func New(analyzer *tokenizer.Analyzer) *Parser {
	return &Parser{analyzer: analyzer}
}

// Parse parses a raw boolean query into a Plan.
func (p *Parser) Parse(query string) (*Plan, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "empty query")
	}

	var operands []Operand
	op := OpNone
	negateNext := false

	for _, word := range words {
		switch strings.ToUpper(word) {
		case "AND", "OR", "XOR":
			if len(operands) == 0 || op != OpNone {
				return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "misplaced operator %q", word)
			}
			op = opFromWord(strings.ToUpper(word))
			continue
		case "NOT":
			if negateNext {
				return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "double negation")
			}
			negateNext = true
			continue
		}

		operand, err := p.parseOperand(word)
		if err != nil {
			return nil, err
		}
		operand.Negated = negateNext
		negateNext = false
		operands = append(operands, operand)
	}

	if negateNext {
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "dangling NOT")
	}
	switch {
	case len(operands) == 0:
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "no searchable terms in %q", query)
	case len(operands) == 1 && op != OpNone:
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "operator %s missing right operand", op)
	case len(operands) > 2:
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "at most two operands supported, got %d", len(operands))
	case len(operands) == 2 && op == OpNone:
		// Bare juxtaposition defaults to AND, matching common engines.
		op = OpAnd
	}

	plan := &Plan{Left: operands[0], Op: op, RawQuery: query}
	if len(operands) == 2 {
		plan.Right = &operands[1]
	}
	return plan, nil
}

func (p *Parser) parseOperand(word string) (Operand, error) {
	word = strings.ToLower(word)
	if strings.Contains(word, "*") {
		if strings.Count(word, "*") > 1 {
			return Operand{}, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "at most one wildcard per term: %q", word)
		}
		return Operand{Term: word, Wildcard: true}, nil
	}
	tokens := p.analyzer.Tokenize(word)
	if len(tokens) == 0 {
		return Operand{}, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "unusable term %q", word)
	}
	return Operand{Term: tokens[0]}, nil
}

func opFromWord(word string) Op {
	switch word {
	case "AND":
		return OpAnd
	case "OR":
		return OpOr
	case "XOR":
		return OpXor
	}
	return OpNone
}
