// Package query implements the knowledge-base search operation: load the
// persisted index, embed the query in whichever mode produced it, score
// every chunk by cosine similarity, and return the top-K. Grounded on the
// teacher's query/service.go for the overall shape (load → embed → score
// → format), generalized from code-search hits to page chunks.
package query

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/piyushimraw/meeseeks-cli/kbse/embedder"
	"github.com/piyushimraw/meeseeks-cli/kbse/store"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// DefaultTopK is used when a caller passes top_k <= 0, per spec.md §4.6.
const DefaultTopK = 5

// Engine answers search requests against a KB root directory.
type Engine struct {
	root        string
	coordinator *embedder.Coordinator
	scorer      store.Scorer
}

// NewEngine builds a query engine backed by coordinator for transformer
// mode and the process's compiled-in Scorer (store.NewScorer) for ranking.
func NewEngine(root string, coordinator *embedder.Coordinator) *Engine {
	return &Engine{root: root, coordinator: coordinator, scorer: store.NewScorer()}
}

// Search implements spec.md §4.6. It never errors: an absent index, an
// unavailable embedding mode, or any load failure all degrade to an empty
// result, matching the facade's search_kb contract.
func (e *Engine) Search(ctx context.Context, kbID, query string, topK int) []types.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	l := store.NewLayout(e.root, kbID)
	chunkIdx, matrix, vocab, err := store.Load(l)
	if err != nil {
		return nil
	}
	if len(chunkIdx.Chunks) == 0 {
		return nil
	}

	qvec, ok := e.embedQuery(ctx, chunkIdx.Model, query, vocab, chunkIdx.Dimensions)
	if !ok {
		return nil
	}

	k := topK
	if k > len(matrix) {
		k = len(matrix)
	}
	ranked := e.scorer.TopK(qvec, matrix, k)

	out := make([]types.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, types.SearchResult{
			Chunk: chunkIdx.Chunks[r.Row],
			Score: float64(r.Score),
		})
	}
	return out
}

// embedQuery produces a query vector in the same mode the index was built
// with. A transformer-built index is unusable when the transformer is not
// available in this process — per spec.md §4.4, the engine must not
// cross-mix a TF-IDF query vector against a transformer index (or vice
// versa), so it reports failure instead.
func (e *Engine) embedQuery(ctx context.Context, mode, query string, vocab *types.Vocabulary, dims int) ([]float32, bool) {
	switch mode {
	case types.ModelTFIDF:
		if vocab == nil {
			return nil, false
		}
		emb := embedder.NewTFIDFEmbedder(*vocab)
		vecs, err := emb.EmbedBatch(ctx, []string{query})
		if err != nil || len(vecs) == 0 {
			return nil, false
		}
		return vecs[0], true
	default:
		tr, ok := e.coordinator.Transformer(ctx)
		if !ok || tr.Dimensions() != dims {
			return nil, false
		}
		vecs, err := tr.EmbedBatch(ctx, []string{query})
		if err != nil || len(vecs) == 0 {
			return nil, false
		}
		return vecs[0], true
	}
}

// Cosine computes dot(a,b)/(‖a‖·‖b‖), returning 0 (never NaN) when either
// vector has zero norm. Search does not call it: store.Scorer
// implementations operate on pre-normalised vectors and use plain dot
// product instead, since normalisation already happened at embed time
// (spec.md §4.4) — this helper exists for inputs that aren't guaranteed
// normalised.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// FormatMarkdown renders results as the Markdown blob spec.md §4.6
// describes for downstream prompt assembly: each result is
// "## <title>\n\nSource: <url>\n\n<text>", joined by "\n\n---\n\n".
func FormatMarkdown(results []types.SearchResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		title := r.Chunk.PageTitle
		if title == "" {
			title = r.Chunk.PageURL
		}
		blocks[i] = fmt.Sprintf("## %s\n\nSource: %s\n\n%s", title, r.Chunk.PageURL, r.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
