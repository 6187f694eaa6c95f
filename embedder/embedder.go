// Package embedder builds the TF-IDF vocabulary and produces fixed-dimension
// L2-normalised embeddings for chunk and query text, in one of two
// interchangeable modes (tfidf, transformer). Grounded on the teacher's
// Embedder interface (embedder/embedder.go) and its TF-IDF/ONNX backends,
// generalized from CodeBERT-dimension code embeddings to the spec's
// page-chunk embeddings.
package embedder

import (
	"context"
	"math"
)

// Embedder produces normalised vectors for a batch of texts. Both
// implementations (TF-IDF and transformer) satisfy this with an identical
// output contract: a fixed dimension, L2-normalised (or all-zero) vector
// per input text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Model() string
}

// Batch sizes per spec.md §5: indexing suspends between embedding batches
// to let progress callbacks run.
const (
	TransformerBatchSize = 10
	TFIDFBatchSize       = 100
)

// Normalize L2-normalises v, returning a new slice. The zero vector is
// returned unchanged since there is nothing to scale.
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
