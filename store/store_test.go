package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

func sampleIndex() (types.ChunkIndex, [][]float32) {
	idx := types.ChunkIndex{
		Model:      types.ModelTFIDF,
		Dimensions: 2,
		Chunks: []types.Chunk{
			{ID: 0, PageHash: "h1", PageURL: "https://a.example/", Text: "first"},
			{ID: 1, PageHash: "h1", PageURL: "https://a.example/", Text: "second"},
		},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	return idx, vectors
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "kb1")

	idx, vectors := sampleIndex()
	vocab := types.Vocabulary{
		Words:      map[string]int{"first": 0, "second": 1},
		Order:      []string{"first", "second"},
		IDF:        []float64{1.1, 1.2},
		Dimensions: 2,
	}

	require.NoError(t, Save(l, idx, vectors, &vocab))

	loadedIdx, loadedVecs, loadedVocab, err := Load(l)
	require.NoError(t, err)
	require.Len(t, loadedIdx.Chunks, 2)
	assert.Equal(t, float32(1), loadedVecs[0][0])
	assert.Equal(t, float32(1), loadedVecs[1][1])
	require.NotNil(t, loadedVocab)
	assert.Equal(t, 2, loadedVocab.Dimensions)

	m, err := ReadManifest(l)
	require.NoError(t, err)
	assert.True(t, m.Indexed)
	assert.Equal(t, 2, m.ChunkCount)
	assert.Equal(t, "tfidf", m.IndexMode)
}

func TestLoadNoIndex(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "missing-kb")

	_, _, _, err := Load(l)
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestIsIndexed(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "kb1")

	assert.False(t, IsIndexed(l), "expected IsIndexed=false before any Save")

	idx, vectors := sampleIndex()
	require.NoError(t, Save(l, idx, vectors, nil))

	assert.True(t, IsIndexed(l), "expected IsIndexed=true after Save")
}

func TestReindexIsIdempotent(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "kb1")

	idx, vectors := sampleIndex()

	require.NoError(t, Save(l, idx, vectors, nil))
	firstSize, err := os.Stat(l.embeddingsPath(l.IndexDir()))
	require.NoError(t, err)

	require.NoError(t, Save(l, idx, vectors, nil))
	secondSize, err := os.Stat(l.embeddingsPath(l.IndexDir()))
	require.NoError(t, err)

	assert.Equal(t, firstSize.Size(), secondSize.Size())

	m, err := ReadManifest(l)
	require.NoError(t, err)
	assert.Equal(t, len(idx.Chunks), m.ChunkCount)
}

func TestClearIndexRemovesIndexButKeepsPages(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "kb1")

	idx, vectors := sampleIndex()
	require.NoError(t, Save(l, idx, vectors, nil))

	require.NoError(t, os.MkdirAll(l.PagesDir(), 0o755))
	pageFile := filepath.Join(l.PagesDir(), "h1.json")
	require.NoError(t, os.WriteFile(pageFile, []byte(`{"url":"https://a.example/","text":"x","sourceId":"s"}`), 0o644))

	require.NoError(t, ClearIndex(l))

	assert.False(t, IsIndexed(l), "expected IsIndexed=false after ClearIndex")

	_, err := os.Stat(l.IndexDir())
	assert.True(t, os.IsNotExist(err), "expected index/ directory to be removed")

	_, err = os.Stat(pageFile)
	assert.NoError(t, err, "expected pages/ to be untouched by ClearIndex")
}

func TestLoadCorruptEmbeddingsSize(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "kb1")

	idx, vectors := sampleIndex()
	require.NoError(t, Save(l, idx, vectors, nil))

	// Truncate embeddings.bin so its size no longer matches chunkCount*dims*4.
	require.NoError(t, os.WriteFile(l.embeddingsPath(l.IndexDir()), []byte{0, 1, 2}, 0o644))

	_, _, _, err := Load(l)
	assert.Error(t, err, "expected Load to fail on size-inconsistent embeddings.bin")
}

func TestScorerTopKOrdering(t *testing.T) {
	scorer := NewScorer()
	matrix := [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}}
	ranked := scorer.TopK([]float32{1, 0}, matrix, 2)

	require.Len(t, ranked, 2)
	assert.Equal(t, 0, ranked[0].Row, "top result should be the exact match")
}
