package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmpty(t *testing.T) {
	assert.Nil(t, Chunk("   \n  ", 500, 50))
}

func TestChunkRespectsMaxSize(t *testing.T) {
	text := strings.Repeat("word ", 400) // ~2000 bytes, no punctuation/paragraphs
	chunks := Chunk(text, 80, 10)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqualf(t, len(c), 80, "chunk %d exceeds max size", i)
	}
}

func TestChunkTinyKB(t *testing.T) {
	// Both sample pages fit entirely under S=80 as a single paragraph, so the
	// greedy paragraph-packing step (4.1 rule 1) keeps each whole rather than
	// splitting by sentence; one chunk per page.
	p1 := "Cats are small carnivorous mammals. Dogs are loyal companions. Birds can fly."
	p2 := "Servers respond to HTTP requests. Clients send HTTP requests."

	assert.Len(t, Chunk(p1, 80, 10), 1)
	assert.Len(t, Chunk(p2, 80, 10), 1)
}

func TestChunkParagraphBoundary(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here"
	chunks := Chunk(text, 500, 50)
	assert.Len(t, chunks, 1, "expected both short paragraphs packed into one chunk")
}

func TestChunkOversizedSentenceFallsBackToWindows(t *testing.T) {
	// A single sentence with no spaces longer than maxSize must still be
	// split, never silently dropped.
	text := strings.Repeat("a", 300) + "."
	chunks := Chunk(text, 100, 10)
	assert.GreaterOrEqual(t, len(chunks), 3)
}
