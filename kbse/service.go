// Package kbse is the public facade (C8): a small set of operations —
// index_kb, search_kb, is_indexed, index_stats, clear_index, plus the
// token-budgeting helpers — that never let an internal error escape
// unhandled. Every entry point returns a well-formed result, per
// spec.md §4.8's "all facade entry points report structured results."
package kbse

import (
	"context"

	"github.com/piyushimraw/meeseeks-cli/kbse/embedder"
	"github.com/piyushimraw/meeseeks-cli/kbse/query"
	"github.com/piyushimraw/meeseeks-cli/kbse/store"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// DefaultChunkSize and DefaultOverlap are the chunker parameters index_kb
// uses; NewService sets them and offers no override.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Service wires together the chunker, embedder, store, and query engine
// behind the facade operations. One Service is constructed per process and
// shared across KBs; per-KB state lives entirely on disk.
type Service struct {
	root        string
	coordinator *embedder.Coordinator
	engine      *query.Engine
	chunkSize   int
	overlap     int
}

// NewService roots the facade at kbRoot (e.g. ~/.meeseeks/knowledge), the
// parent of every <kb-id>/ directory.
func NewService(kbRoot string) *Service {
	coord := embedder.NewCoordinator()
	return &Service{
		root:        kbRoot,
		coordinator: coord,
		engine:      query.NewEngine(kbRoot, coord),
		chunkSize:   DefaultChunkSize,
		overlap:     DefaultOverlap,
	}
}

func (s *Service) layout(kbID string) store.Layout {
	return store.NewLayout(s.root, kbID)
}

// SearchKB implements spec.md §4.8's search_kb: never errors, worst case
// returns an empty slice.
func (s *Service) SearchKB(ctx context.Context, kbID, query string, topK int) []types.SearchResult {
	return s.engine.Search(ctx, kbID, query, topK)
}

// IsIndexed implements is_indexed: both index files physically present.
func (s *Service) IsIndexed(kbID string) bool {
	return store.IsIndexed(s.layout(kbID))
}

// IndexStats implements index_stats: manifest-only, so it never touches
// chunks.json or embeddings.bin.
func (s *Service) IndexStats(kbID string) *types.IndexStats {
	m, err := store.ReadManifest(s.layout(kbID))
	if err != nil || !m.Indexed {
		return &types.IndexStats{Indexed: false}
	}
	indexedAt := m.IndexedAt
	return &types.IndexStats{
		Indexed:    true,
		ChunkCount: m.ChunkCount,
		IndexedAt:  &indexedAt,
		Mode:       m.IndexMode,
	}
}

// ClearIndex implements clear_index: idempotent removal of the index/
// subtree and the manifest's indexing fields.
func (s *Service) ClearIndex(kbID string) error {
	return store.ClearIndex(s.layout(kbID))
}
