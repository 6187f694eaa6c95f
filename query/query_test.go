package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushimraw/meeseeks-cli/kbse/chunker"
	"github.com/piyushimraw/meeseeks-cli/kbse/embedder"
	"github.com/piyushimraw/meeseeks-cli/kbse/store"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

func buildTinyKB(t *testing.T, root string) {
	t.Helper()

	p1 := types.PageRecord{Hash: "h1", URL: "https://a.example/", Text: "Cats are small carnivorous mammals. Dogs are loyal companions. Birds can fly."}
	p2 := types.PageRecord{Hash: "h2", URL: "https://b.example/", Text: "Servers respond to HTTP requests. Clients send HTTP requests."}

	var chunks []types.Chunk
	for _, p := range []types.PageRecord{p1, p2} {
		built := chunker.BuildChunks(p, 80, 10)
		for _, c := range built {
			c.ID = len(chunks)
			chunks = append(chunks, c)
		}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vocab := embedder.BuildVocabulary(texts)
	emb := embedder.NewTFIDFEmbedder(vocab)
	vectors, err := emb.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)

	idx := types.ChunkIndex{Model: types.ModelTFIDF, Dimensions: vocab.Dimensions, Chunks: chunks}
	l := store.NewLayout(root, "kb1")
	require.NoError(t, store.Save(l, idx, vectors, &vocab))
}

func TestSearchTinyKBFindsHTTPPage(t *testing.T) {
	// Each page packs into exactly one chunk under S=80 (see chunker's
	// TestChunkTinyKB), so the tiny KB holds only two chunks total; the top-1
	// result is the one asserted here rather than "both of two results".
	root := t.TempDir()
	buildTinyKB(t, root)

	engine := NewEngine(root, embedder.NewCoordinator())
	results := engine.Search(context.Background(), "kb1", "http request", 1)

	require.Len(t, results, 1)
	assert.Equal(t, "h2", results[0].Chunk.PageHash)
	assert.Greater(t, results[0].Score, float64(0))
}

func TestSearchZeroMatchQueryReturnsZeroScores(t *testing.T) {
	root := t.TempDir()
	buildTinyKB(t, root)

	engine := NewEngine(root, embedder.NewCoordinator())
	results := engine.Search(context.Background(), "kb1", "quantum", 2)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Score, "expected score 0 for an out-of-vocabulary query")
	}
}

func TestSearchNoIndexReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	engine := NewEngine(root, embedder.NewCoordinator())
	results := engine.Search(context.Background(), "missing", "anything", 5)
	assert.Empty(t, results)
}

func TestCosineNeverNaN(t *testing.T) {
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{0, 0}))
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{0, 0}))
}

func TestFormatMarkdown(t *testing.T) {
	results := []types.SearchResult{
		{Chunk: types.Chunk{PageTitle: "A", PageURL: "u1", Text: "t1"}, Score: 0.9},
		{Chunk: types.Chunk{PageTitle: "B", PageURL: "u2", Text: "t2"}, Score: 0.5},
	}
	md := FormatMarkdown(results)
	want := "## A\n\nSource: u1\n\nt1\n\n---\n\n## B\n\nSource: u2\n\nt2"
	assert.Equal(t, want, md)
}
