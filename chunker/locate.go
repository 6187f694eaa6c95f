package chunker

import (
	"strings"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// BuildChunks chunks a page's body and locates each chunk back inside the
// original text by scanning forward from a running cursor. Offsets are a
// best-effort display locator, not a precise slice: when whitespace
// normalisation has moved or collapsed the original anchor, the located
// start goes negative and the chunk falls back to the cursor position with
// end = cursor + len(chunk). IDs are left at zero; the caller (assembling
// chunks across many pages into one index) assigns dense ids.
func BuildChunks(page types.PageRecord, maxSize, overlap int) []types.Chunk {
	texts := Chunk(page.Text, maxSize, overlap)
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]types.Chunk, 0, len(texts))
	cursor := 0
	for _, text := range texts {
		start := indexFrom(page.Text, text, cursor)
		var end int
		if start >= 0 {
			end = start + len(text)
			cursor = end
		} else {
			start = cursor
			end = cursor + len(text)
			cursor = end
		}

		chunks = append(chunks, types.Chunk{
			PageHash:  page.Hash,
			PageURL:   page.URL,
			PageTitle: page.Title,
			Text:      text,
			StartIdx:  start,
			EndIdx:    end,
		})
	}
	return chunks
}

// indexFrom finds text in body starting the search at (or after) from,
// returning -1 when not found there (e.g. the chunk was reflowed across a
// paragraph join and no longer appears verbatim).
func indexFrom(body, text string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(body) {
		return -1
	}
	idx := strings.Index(body[from:], text)
	if idx < 0 {
		return -1
	}
	return from + idx
}
