package vector

import (
	"math"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
)

var rankedCorpus = corpus.Corpus{
	"d1": "for english model retireval have a relevance model while vector space model retrieval",
	"d2": "r-precision measure is relevant to average precision measure",
	"d3": "most efficient retrieval models are language model and vector space model",
	"d4": "english is the most efficient language",
	"d5": "retrieval efficiency is measured by average precision",
}

func newTestModel() *Model {
	return NewModel(tokenizer.New(tokenizer.RankedStopWords), rankedCorpus)
}

func TestQueryRanking(t *testing.T) {
	m := newTestModel()

	// "effici" matches nothing (no stemming), so only "retrieval" and
	// "model" contribute.
	ranked := m.Query("effici* retrieval model")
	gotIDs := make([]string, len(ranked))
	for i, doc := range ranked {
		gotIDs[i] = doc.DocID
	}
	if want := []string{"d1", "d3", "d5"}; !reflect.DeepEqual(gotIDs, want) {
		t.Fatalf("Query ranking = %v, want %v", gotIDs, want)
	}

	wantScores := []float64{0.621235, 0.550543, 0.217764}
	for i, doc := range ranked {
		if math.Abs(doc.Score-wantScores[i]) > 1e-4 {
			t.Errorf("score[%d] = %.6f, want %.6f", i, doc.Score, wantScores[i])
		}
	}
}

func TestQueryUnknownTerms(t *testing.T) {
	m := newTestModel()
	if got := m.Query("zebra quark"); len(got) != 0 {
		t.Errorf("Query with unknown terms = %v, want empty", got)
	}
	// Stop-word-only queries match nothing either.
	if got := m.Query("the of and"); len(got) != 0 {
		t.Errorf("stop-word query = %v, want empty", got)
	}
}

func TestQueryTieBreakByDocID(t *testing.T) {
	m := NewModel(tokenizer.New(tokenizer.RankedStopWords), corpus.Corpus{
		"b": "quark lepton",
		"a": "quark lepton",
	})
	ranked := m.Query("quark")
	if len(ranked) != 2 || ranked[0].DocID != "a" || ranked[1].DocID != "b" {
		t.Errorf("tie break = %v, want a before b", ranked)
	}
	if ranked[0].Score != ranked[1].Score {
		t.Errorf("identical documents scored differently: %v", ranked)
	}
}

func TestScoresBoundedByOne(t *testing.T) {
	m := newTestModel()
	for _, query := range []string{"model", "retrieval model", "average precision measure"} {
		for _, doc := range m.Query(query) {
			if doc.Score < 0 || doc.Score > 1+1e-9 {
				t.Errorf("Query(%q): score %f for %s out of [0,1]", query, doc.Score, doc.DocID)
			}
		}
	}
}

func TestTRECLines(t *testing.T) {
	ranked := []ScoredDoc{
		{DocID: "d1", Score: 0.621235},
		{DocID: "d3", Score: 0.550543},
	}
	got := TRECLines("Q1", ranked, "csp")
	want := []string{
		"Q1 Q0 d1 1 0.621235 csp",
		"Q1 Q0 d3 2 0.550543 csp",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TRECLines = %v, want %v", got, want)
	}
}
