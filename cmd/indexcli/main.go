// Command indexcli builds the term index from a corpus directory and runs
// queries offline, without the HTTP service. It prints the full index
// listing, evaluates a single query in any mode, or emits a TREC run file
// for ranked queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/booleval"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/permuterm"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/searcher/vector"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/logger"
)

func main() {
	var (
		dir     = flag.String("dir", "corpus", "corpus directory of .txt files")
		query   = flag.String("query", "", "query to evaluate (omit to dump the index)")
		mode    = flag.String("mode", "boolean", "query mode: boolean, wildcard, or vector")
		limit   = flag.Int("limit", 0, "maximum results (0 = unlimited)")
		trec    = flag.Bool("trec", false, "emit TREC run format (vector mode only)")
		queryID = flag.String("query-id", "Q1", "query ID for TREC output")
		runID   = flag.String("run-id", "corpussearch", "run ID for TREC output")
		level   = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	logger.Setup(*level, "text")

	docs, err := corpus.LoadDir(*dir)
	if err != nil {
		fatal("loading corpus: %v", err)
	}
	if len(docs) == 0 {
		fatal("no .txt documents found in %s", *dir)
	}

	start := time.Now()
	engine := indexer.NewEngine(tokenizer.NewDefault())
	engine.Build(docs)
	pt := permuterm.Build(engine.Snapshot())
	vm := vector.NewModel(tokenizer.New(tokenizer.RankedStopWords), docs)
	slog.Debug("index built", "took", time.Since(start))

	if *query == "" {
		dumpIndex(engine)
		return
	}

	parsedMode, err := executor.ParseMode(*mode)
	if err != nil {
		fatal("%v", err)
	}
	if *trec && parsedMode != executor.ModeVector {
		fatal("-trec requires -mode vector")
	}

	exec := executor.New(engine, parser.New(tokenizer.NewDefault()), booleval.New(engine, pt), pt, vm)
	result, err := exec.Execute(context.Background(), *query, parsedMode, *limit)
	if err != nil {
		fatal("query failed: %v", err)
	}

	switch parsedMode {
	case executor.ModeVector:
		if *trec {
			for _, line := range vector.TRECLines(*queryID, result.Ranked, *runID) {
				fmt.Println(line)
			}
			return
		}
		fmt.Printf("Query: %s\n", *query)
		for i, doc := range result.Ranked {
			fmt.Printf("%3d. %s  %.6f\n", i+1, doc.DocID, doc.Score)
		}
	case executor.ModeWildcard:
		fmt.Printf("Query: %s\n", *query)
		fmt.Printf("Terms found: %d\n", len(result.MatchedTerms))
		for _, term := range result.MatchedTerms {
			fmt.Printf("  %s: %s\n", term, strings.Join(engine.Search(term).Docs(), ", "))
		}
	default:
		fmt.Printf("Query: %s\n", *query)
		fmt.Printf("Matches: %d\n", result.TotalHits)
		for _, docID := range result.DocIDs {
			fmt.Printf("  %s\n", docID)
		}
	}
}

// dumpIndex prints every indexed term with its documents, sorted by term.
func dumpIndex(engine *indexer.Engine) {
	fmt.Println("=== INVERTED INDEX (2-3 Tree) ===")
	for _, tp := range engine.Snapshot() {
		fmt.Printf("%s -> [%s]\n", tp.Term, strings.Join(tp.Postings.Docs(), ", "))
	}
	fmt.Printf("\n%d terms, %d documents\n", engine.Terms(), engine.TotalDocs())
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
