// Package permuterm implements single-wildcard term matching over the
// built index. Every indexed term t is augmented to t+"$" and all
// rotations of the augmented form are stored; a pattern p*q is answered by
// rotating it to q$p and prefix-matching against the rotation dictionary,
// which handles a `*` in any position with one sorted-slice scan.
package permuterm

import (
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/errors"
)

const terminator = "$"

type rotation struct {
	key  string
	term string
}

// Index is the permuterm dictionary, read-only after Build.
type Index struct {
	rotations []rotation
	postings  map[string]index.PostingSet
}

// Build constructs the dictionary from a full index snapshot. Entries with
// empty posting sets are skipped since they resolve no documents.
func Build(entries []index.TermPostings) *Index {
	ix := &Index{postings: make(map[string]index.PostingSet, len(entries))}
	for _, tp := range entries {
		if len(tp.Postings) == 0 {
			continue
		}
		ix.postings[tp.Term] = tp.Postings
		aug := tp.Term + terminator
		for i := 0; i < len(aug); i++ {
			ix.rotations = append(ix.rotations, rotation{
				key:  aug[i:] + aug[:i],
				term: tp.Term,
			})
		}
	}
	sort.Slice(ix.rotations, func(i, j int) bool {
		return ix.rotations[i].key < ix.rotations[j].key
	})
	return ix
}

// Terms returns the number of distinct terms in the dictionary.
func (ix *Index) Terms() int { return len(ix.postings) }

// Match returns the sorted set of indexed terms matching a pattern with
// exactly one `*`.
func (ix *Index) Match(pattern string) ([]string, error) {
	star := strings.Index(pattern, "*")
	if star < 0 || strings.Count(pattern, "*") > 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400,
			"pattern %q must contain exactly one wildcard", pattern)
	}
	// p*q rotates to q$p so the wildcard trails.
	prefix := pattern[star+1:] + terminator + pattern[:star]

	lo := sort.Search(len(ix.rotations), func(i int) bool {
		return ix.rotations[i].key >= prefix
	})
	seen := make(map[string]struct{})
	var terms []string
	for i := lo; i < len(ix.rotations) && strings.HasPrefix(ix.rotations[i].key, prefix); i++ {
		term := ix.rotations[i].term
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms, nil
}

// Lookup unions the posting sets of every term matching the pattern.
func (ix *Index) Lookup(pattern string) (index.PostingSet, error) {
	terms, err := ix.Match(pattern)
	if err != nil {
		return nil, err
	}
	result := index.NewPostingSet()
	for _, term := range terms {
		for doc := range ix.postings[term] {
			result.Add(doc)
		}
	}
	return result, nil
}
