// Package types holds the data shapes shared across the knowledge-base
// search engine: the crawler's page records, the chunker's output, the
// on-disk index shape, and the values the facade returns to callers.
package types

import "time"

// PageRecord is a single crawled page, owned by the external crawler.
// The core never writes to the pages directory; it only reads records back.
type PageRecord struct {
	SourceID string `json:"sourceId"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
	Hash     string `json:"-"` // filename (without extension)
}

// Chunk is a bounded span of a page's text, the unit of retrieval.
type Chunk struct {
	ID        int    `json:"id"`
	PageHash  string `json:"pageHash"`
	PageURL   string `json:"pageUrl"`
	PageTitle string `json:"pageTitle"`
	Text      string `json:"text"`
	StartIdx  int    `json:"startIdx"`
	EndIdx    int    `json:"endIdx"`
}

// ChunkIndex is the persisted chunks.json document: chunk metadata plus the
// tag identifying which embedding model produced the (separately stored)
// vectors and their dimensionality.
type ChunkIndex struct {
	Model      string  `json:"model"`
	Dimensions int     `json:"dimensions"`
	Chunks     []Chunk `json:"chunks"`
}

// ModelTFIDF is the model tag written for TF-IDF built indexes.
const ModelTFIDF = "tfidf-simple"

// Vocabulary is the TF-IDF term table: an ordered word->index mapping plus
// the parallel smoothed-IDF vector. Persisted as vocabulary.json.
type Vocabulary struct {
	Words      map[string]int // word -> dense index
	Order      []string       // Order[i] is the word at index i
	IDF        []float64      // IDF[i] corresponds to Order[i]
	Dimensions int
}

// Manifest is the per-KB status file, the single source of truth for
// "is this KB indexed."
type Manifest struct {
	Indexed    bool      `json:"indexed"`
	IndexedAt  time.Time `json:"indexedAt,omitempty"`
	ChunkCount int       `json:"chunkCount"`
	IndexMode  string    `json:"indexMode,omitempty"`
}

// SearchResult pairs a Chunk with its cosine similarity score against a query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// IndexPhase names the three phases index_kb reports progress for.
type IndexPhase string

const (
	PhaseChunking  IndexPhase = "chunking"
	PhaseEmbedding IndexPhase = "embedding"
	PhaseSaving    IndexPhase = "saving"
)

// IndexProgress is passed synchronously to index_kb's progress callback.
type IndexProgress struct {
	Phase   IndexPhase
	Current int
	Total   int
}

// ProgressFunc is the progress callback signature for index_kb. It must not
// block indefinitely; the indexer calls it synchronously between batches.
type ProgressFunc func(IndexProgress)

// IndexResult is what index_kb returns.
type IndexResult struct {
	Success    bool   `json:"success"`
	ChunkCount int    `json:"chunkCount"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// IndexStats is what index_stats returns, built only from the manifest.
type IndexStats struct {
	Indexed    bool       `json:"indexed"`
	ChunkCount int        `json:"chunkCount"`
	IndexedAt  *time.Time `json:"indexedAt,omitempty"`
	Mode       string     `json:"mode,omitempty"`
}

// ModelLimits describes a model's context budget.
type ModelLimits struct {
	Context   int
	MaxOutput int
	Available int
}

// CondenseRequest is the input to condense_context.
type CondenseRequest struct {
	ModelID           string
	SystemPrompt      string
	UserPrompt        string
	GitDiff           string
	KBContent         string
	SearchResultCount int
}

// CondenseResult is the output of condense_context.
type CondenseResult struct {
	Condensed      bool
	Strategy       string // "none" | "kb" | "diff" | "kb+diff"
	OriginalTokens int
	FinalTokens    int
	Warnings       []string
	SystemPrompt   string
	UserPrompt     string
}
