package kbse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

func writePage(t *testing.T, pagesDir, hash, url, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(pagesDir, 0o755))
	content := `{"url":"` + url + `","text":"` + text + `","sourceId":"crawler"}`
	require.NoError(t, os.WriteFile(filepath.Join(pagesDir, hash+".json"), []byte(content), 0o644))
}

func TestIndexKBAndSearchKBEndToEnd(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root)

	pagesDir := svc.layout("kb1").PagesDir()
	writePage(t, pagesDir, "h1", "https://a.example/", "Cats are small carnivorous mammals.")
	writePage(t, pagesDir, "h2", "https://b.example/", "Servers respond to HTTP requests.")

	var phases []types.IndexPhase
	result := svc.IndexKB(context.Background(), "kb1", func(p types.IndexProgress) {
		phases = append(phases, p.Phase)
	})
	require.True(t, result.Success, "IndexKB failed: %s", result.Error)
	assert.NotEmpty(t, phases)
	assert.Positive(t, result.ChunkCount)
	assert.Equal(t, "tfidf", result.Mode)

	assert.True(t, svc.IsIndexed("kb1"))

	stats := svc.IndexStats("kb1")
	assert.True(t, stats.Indexed)
	assert.Equal(t, result.ChunkCount, stats.ChunkCount)

	results := svc.SearchKB(context.Background(), "kb1", "http request", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "h2", results[0].Chunk.PageHash)

	require.NoError(t, svc.ClearIndex("kb1"))
	assert.False(t, svc.IsIndexed("kb1"))
}

func TestIndexKBNoPagesReturnsError(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root)

	result := svc.IndexKB(context.Background(), "empty-kb", nil)
	assert.False(t, result.Success)
	assert.Equal(t, "No pages to index", result.Error)
}

func TestIndexStatsUnindexedKB(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root)

	stats := svc.IndexStats("missing")
	assert.False(t, stats.Indexed)
}

func TestSearchKBUnindexedKBReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root)

	results := svc.SearchKB(context.Background(), "missing", "anything", 5)
	assert.Empty(t, results)
}
