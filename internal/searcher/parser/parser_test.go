package parser

import (
	"errors"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
)

func TestParse(t *testing.T) {
	p := New(tokenizer.NewDefault())
	tests := []struct {
		query string
		left  Operand
		op    Op
		right *Operand
	}{
		{"magnet", Operand{Term: "magnet"}, OpNone, nil},
		{"NOT magnet", Operand{Term: "magnet", Negated: true}, OpNone, nil},
		{"superconductor AND magnet", Operand{Term: "superconductor"}, OpAnd, &Operand{Term: "magnet"}},
		{"magnet AND NOT superconductor", Operand{Term: "magnet"}, OpAnd, &Operand{Term: "superconductor", Negated: true}},
		{"Magnet OR Superconductor", Operand{Term: "magnet"}, OpOr, &Operand{Term: "superconductor"}},
		{"magnet xor superconductor", Operand{Term: "magnet"}, OpXor, &Operand{Term: "superconductor"}},
		{"super* AND magnet", Operand{Term: "super*", Wildcard: true}, OpAnd, &Operand{Term: "magnet"}},
		{"te*m", Operand{Term: "te*m", Wildcard: true}, OpNone, nil},
		// Juxtaposition defaults to AND.
		{"magnet superconductor", Operand{Term: "magnet"}, OpAnd, &Operand{Term: "superconductor"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			plan, err := p.Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.query, err)
			}
			if plan.Left != tt.left {
				t.Errorf("Left = %+v, want %+v", plan.Left, tt.left)
			}
			if plan.Op != tt.op {
				t.Errorf("Op = %v, want %v", plan.Op, tt.op)
			}
			switch {
			case tt.right == nil && plan.Right != nil:
				t.Errorf("Right = %+v, want nil", plan.Right)
			case tt.right != nil && (plan.Right == nil || *plan.Right != *tt.right):
				t.Errorf("Right = %+v, want %+v", plan.Right, tt.right)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	p := New(tokenizer.NewDefault())
	for _, query := range []string{
		"",
		"   ",
		"AND magnet",
		"magnet AND",
		"magnet AND OR superconductor",
		"magnet NOT",
		"NOT NOT magnet",
		"a AND b AND c",
		"sup**",
	} {
		if _, err := p.Parse(query); !errors.Is(err, apperrors.ErrInvalidQuery) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidQuery", query, err)
		}
	}
}

func TestPlanTerms(t *testing.T) {
	p := New(tokenizer.NewDefault())
	plan, err := p.Parse("magnet AND NOT superconductor")
	if err != nil {
		t.Fatal(err)
	}
	terms := plan.Terms()
	if len(terms) != 2 || terms[0] != "magnet" || terms[1] != "superconductor" {
		t.Errorf("Terms() = %v", terms)
	}
}
