// Package chunker splits a page's plain-text body into bounded, overlapping
// chunks, following the teacher's greedy-pack line/structure chunkers
// (embedder/embedder_tfidf.go's ChunkByLines family) but generalized to the
// three-tier paragraph/sentence/window algorithm the knowledge base needs.
package chunker

import (
	"regexp"
	"strings"
)

// Defaults per spec.
const (
	DefaultMaxChunkSize = 500
	DefaultOverlap      = 50
)

var (
	blankLineSplit  = regexp.MustCompile(`\n\s*\n`)
	sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)
)

// Chunk splits text into an ordered, non-empty sequence of chunk strings.
// Concatenation in order preserves content; no text is silently discarded.
func Chunk(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	paragraphs := splitParagraphs(trimmed)
	var chunks []string

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range paragraphs {
		if len(para) > maxSize {
			// Paragraph itself is too big: flush what we have, then pack it
			// at the sentence tier.
			flush()
			chunks = append(chunks, packSentences(para, maxSize, overlap)...)
			continue
		}

		candidate := para
		if current.Len() > 0 {
			candidate = current.String() + "\n\n" + para
		}
		if len(candidate) <= maxSize {
			current.Reset()
			current.WriteString(candidate)
			continue
		}

		flush()
		current.WriteString(para)
	}
	flush()

	return chunks
}

// splitParagraphs splits on blank-line boundaries, dropping empty entries.
func splitParagraphs(text string) []string {
	raw := blankLineSplit.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// packSentences greedily packs sentences (tier 2); any sentence still over
// maxSize falls through to fixed-window splitting (tier 3).
func packSentences(paragraph string, maxSize, overlap int) []string {
	sentences := splitSentences(paragraph)
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, sent := range sentences {
		if len(sent) > maxSize {
			flush()
			chunks = append(chunks, packWindows(sent, maxSize, overlap)...)
			continue
		}

		candidate := sent
		if current.Len() > 0 {
			candidate = current.String() + " " + sent
		}
		if len(candidate) <= maxSize {
			current.Reset()
			current.WriteString(candidate)
			continue
		}

		flush()
		current.WriteString(sent)
	}
	flush()

	return chunks
}

// splitSentences splits on '.', '!', '?' terminators, falling back to the
// remainder of the string as the last sentence.
func splitSentences(text string) []string {
	locs := sentenceBoundary.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, loc := range locs {
		sentences = append(sentences, text[start:loc[1]])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// packWindows splits a too-long sentence into fixed windows of size
// maxSize with the given overlap; each window after the first carries over
// the previous window's trailing `overlap` bytes so matches spanning a
// boundary remain recoverable.
func packWindows(text string, maxSize, overlap int) []string {
	var windows []string
	step := maxSize - overlap
	if step <= 0 {
		step = maxSize
	}

	for start := 0; start < len(text); start += step {
		end := start + maxSize
		if end > len(text) {
			end = len(text)
		}
		windows = append(windows, text[start:end])
		if end == len(text) {
			break
		}
	}
	return windows
}
