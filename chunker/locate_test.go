package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

func TestBuildChunksAssignsMetadataAndOffsets(t *testing.T) {
	page := types.PageRecord{
		SourceID: "src1",
		URL:      "https://a.example/",
		Title:    "Animals",
		Text:     "Cats are small carnivorous mammals. Dogs are loyal companions. Birds can fly.",
		Hash:     "h1",
	}

	chunks := BuildChunks(page, 80, 10)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Equal(t, "h1", c.PageHash)
		assert.Equal(t, page.URL, c.PageURL)
		assert.Equal(t, page.Title, c.PageTitle)
		assert.GreaterOrEqual(t, c.StartIdx, 0)
		assert.GreaterOrEqual(t, c.EndIdx, c.StartIdx)
	}
}

func TestBuildChunksEmptyPage(t *testing.T) {
	page := types.PageRecord{Hash: "h2", Text: "   "}
	assert.Nil(t, BuildChunks(page, 80, 10))
}
