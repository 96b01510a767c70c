package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/booleval"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/vector"
)

func benchExecutor(b *testing.B, size int) *executor.Executor {
	b.Helper()
	docs := syntheticCorpus(size)
	analyzer := tokenizer.NewDefault()
	engine := indexer.NewEngine(analyzer)
	engine.Build(docs)
	pt := permuterm.Build(engine.Snapshot())
	vm := vector.NewModel(tokenizer.New(tokenizer.RankedStopWords), docs)
	return executor.New(engine, parser.New(analyzer), booleval.New(engine, pt), pt, vm)
}

// BenchmarkQueryParse measures parsing latency for queries of varying shape.
func BenchmarkQueryParse(b *testing.B) {
	p := parser.New(tokenizer.NewDefault())
	queries := []struct {
		name  string
		query string
	}{
		{"single", "retrieval"},
		{"negated", "NOT retrieval"},
		{"boolean_and", "retrieval AND ranking"},
		{"and_not", "retrieval AND NOT ranking"},
		{"xor", "retrieval XOR ranking"},
		{"wildcard", "re*val AND ranking"},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				plan, err := p.Parse(q.query)
				if err != nil {
					b.Fatal(err)
				}
				_ = plan
			}
		})
	}
}

// BenchmarkBooleanEvaluate measures plan evaluation over 10 000 documents.
func BenchmarkBooleanEvaluate(b *testing.B) {
	docs := syntheticCorpus(10000)
	analyzer := tokenizer.NewDefault()
	engine := indexer.NewEngine(analyzer)
	engine.Build(docs)
	pt := permuterm.Build(engine.Snapshot())
	ev := booleval.New(engine, pt)
	p := parser.New(analyzer)

	queries := []struct {
		name  string
		query string
	}{
		{"and", "retrieval AND ranking"},
		{"or", "retrieval OR ranking"},
		{"xor", "retrieval XOR ranking"},
		{"not", "retrieval AND NOT ranking"},
		{"prefix", "re* AND ranking"},
	}
	for _, q := range queries {
		plan, err := p.Parse(q.query)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				docIDs, err := ev.Evaluate(plan)
				if err != nil {
					b.Fatal(err)
				}
				_ = docIDs
			}
		})
	}
}

// BenchmarkVectorQuery measures ranked retrieval latency as the corpus
// grows.
func BenchmarkVectorQuery(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("docs_%d", size), func(b *testing.B) {
			vm := vector.NewModel(tokenizer.New(tokenizer.RankedStopWords), syntheticCorpus(size))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ranked := vm.Query("retrieval ranking model")
				_ = ranked
			}
		})
	}
}

// BenchmarkExecute measures the full dispatch path per mode.
func BenchmarkExecute(b *testing.B) {
	exec := benchExecutor(b, 10000)
	ctx := context.Background()

	modes := []struct {
		name  string
		query string
		mode  executor.Mode
	}{
		{"boolean", "retrieval AND ranking", executor.ModeBoolean},
		{"wildcard", "re*val", executor.ModeWildcard},
		{"vector", "retrieval ranking model", executor.ModeVector},
	}
	for _, m := range modes {
		b.Run(m.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				result, err := exec.Execute(ctx, m.query, m.mode, 10)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}
