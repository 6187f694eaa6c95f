//go:build cgo

package store

import (
	"sort"

	"github.com/DataIntelligenceCrew/go-faiss"
)

// faissScorer builds a flat (exact, brute-force) inner-product index per
// call and searches it. Grounded on the teacher's RealFAISSIndexer
// (indexer/faiss_real.go), but simplified to a single-shot build+search
// rather than a persistent incremental index — the query engine already
// loads the full embedding matrix fresh on every search (spec.md §4.6), so
// there is no warm index to keep between calls.
type faissScorer struct{}

// NewScorer returns the scorer this build was compiled with.
func NewScorer() Scorer { return faissScorer{} }

func (faissScorer) TopK(query []float32, matrix [][]float32, k int) []ScoredRow {
	if len(matrix) == 0 || k <= 0 {
		return nil
	}
	dims := len(matrix[0])

	index, err := faiss.NewIndexFlatIP(dims)
	if err != nil {
		return topKDotProduct(query, matrix, k)
	}
	defer index.Delete()

	flat := make([]float32, 0, len(matrix)*dims)
	for _, row := range matrix {
		flat = append(flat, row...)
	}
	if err := index.Add(flat); err != nil {
		return topKDotProduct(query, matrix, k)
	}

	effK := k
	if effK > len(matrix) {
		effK = len(matrix)
	}
	scores, labels, err := index.Search(query, int64(effK))
	if err != nil {
		return topKDotProduct(query, matrix, k)
	}

	out := make([]ScoredRow, 0, len(labels))
	for i, id := range labels {
		if id < 0 {
			continue
		}
		out = append(out, ScoredRow{Row: int(id), Score: scores[i]})
	}

	// IndexFlatIP already returns results sorted by score descending; the
	// explicit sort just pins the ascending-row tie-break spec.md requires.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Row < out[j].Row
	})
	return out
}
