//go:build !cgo

package store

import (
	"container/heap"
	"sort"
)

// bruteForceScorer computes a dot product against every row in pure Go.
// This is the default build — no CGO, no go-faiss — used whenever the
// binary was not compiled with CGO enabled.
type bruteForceScorer struct{}

// NewScorer returns the scorer this build was compiled with.
func NewScorer() Scorer { return bruteForceScorer{} }

func (bruteForceScorer) TopK(query []float32, matrix [][]float32, k int) []ScoredRow {
	return topKDotProduct(query, matrix, k)
}

// topKDotProduct scores every row against query but never sorts the full
// result set (spec.md §9: "do not sort the whole score array; use a bounded
// heap of size K"). It keeps a min-heap of at most k candidates, evicting the
// current worst candidate whenever a better row arrives, then sorts only that
// bounded heap for the final ordered result.
func topKDotProduct(query []float32, matrix [][]float32, k int) []ScoredRow {
	if k > len(matrix) {
		k = len(matrix)
	}
	if k <= 0 {
		return nil
	}

	h := make(worstFirstHeap, 0, k)
	for i, row := range matrix {
		candidate := ScoredRow{Row: i, Score: dot(query, row)}
		if len(h) < k {
			heap.Push(&h, candidate)
			continue
		}
		if h.worseThan(h[0], candidate) {
			h[0] = candidate
			heap.Fix(&h, 0)
		}
	}

	scored := []ScoredRow(h)
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Row < scored[j].Row
	})
	return scored
}

// worstFirstHeap is a container/heap min-heap ordered so that the single
// worst-ranked candidate (lowest score, ties broken toward the higher row
// index) always sits at index 0, ready for O(log k) eviction.
type worstFirstHeap []ScoredRow

func (h worstFirstHeap) worseThan(a, b ScoredRow) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Row > b.Row
}

func (h worstFirstHeap) Len() int           { return len(h) }
func (h worstFirstHeap) Less(i, j int) bool { return h.worseThan(h[i], h[j]) }
func (h worstFirstHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirstHeap) Push(x interface{}) {
	*h = append(*h, x.(ScoredRow))
}

func (h *worstFirstHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func dot(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
