package indexer

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
)

var testCorpus = corpus.Corpus{
	"Doc1": "superconductors repel a magnet",
	"Doc2": "a magnet repels a superconductor",
}

func TestEngineBuildAndSearch(t *testing.T) {
	e := NewEngine(tokenizer.NewDefault())
	e.Build(testCorpus)

	if got := e.Search("magnet").Docs(); !reflect.DeepEqual(got, []string{"Doc1", "Doc2"}) {
		t.Errorf("Search(magnet) = %v, want [Doc1 Doc2]", got)
	}
	if got := e.Search("superconductors").Docs(); !reflect.DeepEqual(got, []string{"Doc1"}) {
		t.Errorf("Search(superconductors) = %v, want [Doc1] (no stemming)", got)
	}
	// "a" is a stop word and must not be indexed.
	if got := e.Search("a"); len(got) != 0 {
		t.Errorf("Search(a) = %v, want empty", got)
	}
	if e.TotalDocs() != 2 {
		t.Errorf("TotalDocs() = %d, want 2", e.TotalDocs())
	}
}

func TestEnginePrefixCollect(t *testing.T) {
	e := NewEngine(tokenizer.NewDefault())
	e.Build(testCorpus)

	matches := e.PrefixCollect("super")
	terms := make(map[string]bool, len(matches))
	for _, tp := range matches {
		terms[tp.Term] = true
	}
	if !terms["superconductors"] || !terms["superconductor"] {
		t.Errorf("PrefixCollect(super) matched %v, want both inflections", terms)
	}
}

func TestEngineSnapshotSorted(t *testing.T) {
	e := NewEngine(tokenizer.NewDefault())
	e.Build(testCorpus)

	snap := e.Snapshot()
	if len(snap) == 0 {
		t.Fatal("empty snapshot")
	}
	for i := 1; i < len(snap); i++ {
		if snap[i-1].Term > snap[i].Term {
			t.Fatalf("snapshot not sorted: %q before %q", snap[i-1].Term, snap[i].Term)
		}
	}
}

func TestEngineDocStats(t *testing.T) {
	e := NewEngine(tokenizer.NewDefault())
	e.Build(testCorpus)

	// Doc1: superconductors, repel, magnet (stop word "a" dropped).
	if got := e.DocLength("Doc1"); got != 3 {
		t.Errorf("DocLength(Doc1) = %d, want 3", got)
	}
	if got := e.AvgDocLength(); got != 3 {
		t.Errorf("AvgDocLength() = %v, want 3", got)
	}
	if got := len(e.Universe()); got != 2 {
		t.Errorf("Universe() size = %d, want 2", got)
	}
}
