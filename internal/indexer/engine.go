// Package indexer builds the 2-3 tree term index from a corpus and exposes
// the read side used by the query evaluators. Construction is strictly
// single-writer: Build must finish before any reads, after which the engine
// is immutable and safe for concurrent readers.
package indexer

import (
	"log/slog"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
)

type Engine struct {
	analyzer   *tokenizer.Analyzer
	tree       *index.Tree
	universe   map[string]struct{}
	docLengths map[string]int
	totalTerms int64
	logger     *slog.Logger
}

func NewEngine(analyzer *tokenizer.Analyzer) *Engine {
	return &Engine{
		analyzer:   analyzer,
		tree:       index.NewTree(),
		universe:   make(map[string]struct{}),
		docLengths: make(map[string]int),
		logger:     slog.Default().With("component", "indexer"),
	}
}

// Build indexes the whole corpus, document by document in sorted docID
// order. It must be called exactly once, before any read method.
func (e *Engine) Build(docs corpus.Corpus) {
	for _, docID := range docs.DocIDs() {
		e.addDocument(docID, docs[docID])
	}
	e.logger.Info("index built",
		"documents", len(e.docLengths),
		"terms", e.tree.Len(),
		"total_tokens", e.totalTerms,
	)
}

func (e *Engine) addDocument(docID, text string) {
	terms := e.analyzer.Normalize(text)
	for _, term := range terms {
		e.tree.Insert(term, docID)
	}
	e.universe[docID] = struct{}{}
	e.docLengths[docID] = len(terms)
	e.totalTerms += int64(len(terms))
	e.logger.Debug("document indexed", "doc_id", docID, "term_count", len(terms))
}

// Search returns the posting set for an exact, already-normalised term.
func (e *Engine) Search(term string) index.PostingSet {
	return e.tree.Search(term)
}

// PrefixCollect returns every indexed term starting with prefix together
// with its postings.
func (e *Engine) PrefixCollect(prefix string) []index.TermPostings {
	return e.tree.PrefixCollect(prefix)
}

// Snapshot materialises the whole index sorted by term. Used for the terms
// listing and for building the permuterm dictionary.
func (e *Engine) Snapshot() []index.TermPostings {
	entries := e.tree.Traverse()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// Universe returns the set of all indexed document IDs.
func (e *Engine) Universe() map[string]struct{} {
	return e.universe
}

// TotalDocs returns the number of indexed documents.
func (e *Engine) TotalDocs() int {
	return len(e.docLengths)
}

// Terms returns the number of distinct terms inserted into the tree.
func (e *Engine) Terms() int {
	return e.tree.Len()
}

// DocLength returns the normalised token count of a document.
func (e *Engine) DocLength(docID string) int {
	return e.docLengths[docID]
}

// AvgDocLength returns the mean normalised token count per document.
func (e *Engine) AvgDocLength() float64 {
	if len(e.docLengths) == 0 {
		return 0
	}
	return float64(e.totalTerms) / float64(len(e.docLengths))
}
