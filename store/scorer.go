package store

// Scorer ranks a matrix of L2-normalised row vectors against a query
// vector by cosine similarity (equivalently, inner product on normalised
// vectors). Both implementations compute an identical mathematical
// quantity over the whole matrix — neither is an approximate structure —
// per SPEC_FULL.md §4.5's "exact scorer" split.
//
// TopK returns up to k (row index, score) pairs sorted by score
// descending, ties broken by ascending row index.
type Scorer interface {
	TopK(query []float32, matrix [][]float32, k int) []ScoredRow
}

// ScoredRow is one ranked row.
type ScoredRow struct {
	Row   int
	Score float32
}
