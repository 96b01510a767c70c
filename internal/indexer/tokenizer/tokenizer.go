// Package tokenizer provides text normalisation for the index builder and
// query evaluators. It lower-cases input, extracts runs of letters, and
// removes stop words. Terms are indexed exactly as they appear: there is no
// stemming, so "superconductor" and "superconductors" stay distinct.
package tokenizer

import (
	"strings"
	"unicode"
)

// DefaultStopWords is the stop-word list applied when no custom set is
// supplied.
var DefaultStopWords = []string{
	"a", "an", "the", "in", "is", "it", "that", "they",
	"can", "be", "will", "but", "such", "also", "have",
	"if", "at", "to", "as",
}

// RankedStopWords extends DefaultStopWords with the function words dropped
// by the ranked retrieval model.
var RankedStopWords = append(append([]string{}, DefaultStopWords...),
	"near", "very", "for", "while", "and", "or", "are", "by", "of",
)

// Analyzer turns raw text into normalised index terms. The stop-word set is
// fixed at construction; a zero-value Analyzer is not usable.
type Analyzer struct {
	stopWords map[string]struct{}
}

// New creates an Analyzer with the given stop words.
func New(stopWords []string) *Analyzer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Analyzer{stopWords: set}
}

// NewDefault creates an Analyzer with DefaultStopWords.
func NewDefault() *Analyzer {
	return New(DefaultStopWords)
}

// Tokenize lower-cases text and splits it into maximal runs of letters.
// Stop words are retained; use Normalize for the full pipeline.
func (a *Analyzer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Normalize tokenizes text and drops stop words. The result is the term
// stream fed to the index builder.
func (a *Analyzer) Normalize(text string) []string {
	tokens := a.Tokenize(text)
	terms := tokens[:0]
	for _, tok := range tokens {
		if _, isStop := a.stopWords[tok]; isStop {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// IsStopWord reports whether the given (already lower-cased) token is in
// the analyzer's stop-word set.
func (a *Analyzer) IsStopWord(token string) bool {
	_, ok := a.stopWords[token]
	return ok
}
