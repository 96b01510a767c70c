package index

import "sort"

// PostingSet is a set of document identifiers containing a term. Adding the
// same document twice is a no-op, and sets only ever grow.
type PostingSet map[string]struct{}

// NewPostingSet creates a PostingSet containing the given documents.
func NewPostingSet(docIDs ...string) PostingSet {
	s := make(PostingSet, len(docIDs))
	for _, id := range docIDs {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts a document ID into the set.
func (s PostingSet) Add(docID string) {
	s[docID] = struct{}{}
}

// Contains reports whether the set holds the given document ID.
func (s PostingSet) Contains(docID string) bool {
	_, ok := s[docID]
	return ok
}

// Docs returns the document IDs in sorted order.
func (s PostingSet) Docs() []string {
	docs := make([]string, 0, len(s))
	for id := range s {
		docs = append(docs, id)
	}
	sort.Strings(docs)
	return docs
}

// TermPostings pairs a term with its posting set, as produced by tree
// traversals.
type TermPostings struct {
	Term     string
	Postings PostingSet
}
