// Package vector implements ranked retrieval with tf-idf weighting and
// cosine normalization. Document vectors carry log-scaled term frequencies
// normalized by vector length; query vectors additionally carry idf. Scores
// are the dot product of the two, so a cosine similarity up to the missing
// document-side idf factor.
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/internal/indexer/tokenizer"
)

// termEntry records one term's statistics in one document.
type termEntry struct {
	tf     int
	tfLog  float64
	weight float64 // tfLog / document vector length
}

// Model is the vector space retrieval model, read-only after NewModel.
type Model struct {
	analyzer   *tokenizer.Analyzer
	inverted   map[string]map[string]termEntry
	docLengths map[string]float64
	totalDocs  int
}

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// NewModel builds the weighted inverted index from the corpus in three
// passes: raw term frequencies, log scaling, then cosine normalization.
func NewModel(analyzer *tokenizer.Analyzer, docs corpus.Corpus) *Model {
	m := &Model{
		analyzer:   analyzer,
		inverted:   make(map[string]map[string]termEntry),
		docLengths: make(map[string]float64, len(docs)),
		totalDocs:  len(docs),
	}

	for docID, text := range docs {
		for _, term := range analyzer.Normalize(text) {
			postings := m.inverted[term]
			if postings == nil {
				postings = make(map[string]termEntry)
				m.inverted[term] = postings
			}
			entry := postings[docID]
			entry.tf++
			postings[docID] = entry
		}
	}

	docVectors := make(map[string]map[string]float64, len(docs))
	for term, postings := range m.inverted {
		for docID, entry := range postings {
			entry.tfLog = tfLog(entry.tf)
			postings[docID] = entry
			vec := docVectors[docID]
			if vec == nil {
				vec = make(map[string]float64)
				docVectors[docID] = vec
			}
			vec[term] = entry.tfLog
		}
	}

	for docID, vec := range docVectors {
		var sum float64
		for _, w := range vec {
			sum += w * w
		}
		length := math.Sqrt(sum)
		m.docLengths[docID] = length
		for term := range vec {
			entry := m.inverted[term][docID]
			if length > 0 {
				entry.weight = entry.tfLog / length
			}
			m.inverted[term][docID] = entry
		}
	}
	return m
}

// Query ranks documents against the query text. Query terms absent from the
// index contribute nothing. Results are ordered by descending score, ties
// broken by ascending document ID.
func (m *Model) Query(query string) []ScoredDoc {
	queryTF := make(map[string]int)
	for _, term := range m.analyzer.Normalize(query) {
		queryTF[term]++
	}

	queryWeights := make(map[string]float64, len(queryTF))
	var queryLength float64
	for term, tf := range queryTF {
		postings, ok := m.inverted[term]
		if !ok {
			continue
		}
		weight := tfLog(tf) * m.idf(len(postings))
		queryWeights[term] = weight
		queryLength += weight * weight
	}
	queryLength = math.Sqrt(queryLength)
	if queryLength > 0 {
		for term := range queryWeights {
			queryWeights[term] /= queryLength
		}
	}

	scores := make(map[string]float64)
	for term, qw := range queryWeights {
		for docID, entry := range m.inverted[term] {
			scores[docID] += qw * entry.weight
		}
	}

	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	return ranked
}

// Terms returns the number of distinct terms in the model.
func (m *Model) Terms() int { return len(m.inverted) }

// TRECLines formats ranked results in the standard TREC run format:
// query_id Q0 doc_id rank score run_id.
func TRECLines(queryID string, ranked []ScoredDoc, runID string) []string {
	lines := make([]string, 0, len(ranked))
	for i, doc := range ranked {
		lines = append(lines, fmt.Sprintf("%s Q0 %s %d %.6f %s", queryID, doc.DocID, i+1, doc.Score, runID))
	}
	return lines
}

func tfLog(tf int) float64 {
	if tf <= 0 {
		return 0
	}
	return 1 + math.Log10(float64(tf))
}

func (m *Model) idf(df int) float64 {
	if df <= 0 {
		return 0
	}
	return math.Log10(float64(m.totalDocs) / float64(df))
}
