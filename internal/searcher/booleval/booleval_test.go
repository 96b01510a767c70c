package booleval

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *parser.Parser) {
	t.Helper()
	engine := indexer.NewEngine(tokenizer.NewDefault())
	engine.Build(corpus.Corpus{
		"Doc1": "superconductors repel a magnet",
		"Doc2": "a magnet repels a superconductor",
	})
	pt := permuterm.Build(engine.Snapshot())
	return New(engine, pt), parser.New(tokenizer.NewDefault())
}

func TestEvaluate(t *testing.T) {
	ev, p := newTestEvaluator(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"superconductor AND magnet", []string{"Doc2"}},
		{"magnet AND NOT superconductor", []string{"Doc1"}},
		{"superconductor OR magnet", []string{"Doc1", "Doc2"}},
		{"superconductor XOR magnet", []string{"Doc1"}},
		{"NOT magnet", []string{}},
		{"magnet OR NOT superconductor", []string{"Doc1", "Doc2"}},
		{"s*", []string{"Doc1", "Doc2"}},
		{"super* AND magnet", []string{"Doc1", "Doc2"}},
		{"*conductor", []string{"Doc2"}},
		{"repel*", []string{"Doc1", "Doc2"}},
		{"magnet", []string{"Doc1", "Doc2"}},
		{"graphene OR magnet", []string{"Doc1", "Doc2"}},
		{"graphene AND magnet", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			plan, err := p.Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.query, err)
			}
			got, err := ev.Evaluate(plan)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.query, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvaluateDoubleNegation(t *testing.T) {
	ev, p := newTestEvaluator(t)
	plan, err := p.Parse("NOT graphene")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ev.Evaluate(plan)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Doc1", "Doc2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Evaluate(NOT graphene) = %v, want %v", got, want)
	}
}
