// Package store owns the on-disk layout of a knowledge base: the manifest
// file, the pages directory (read-only, owned by the external crawler),
// and the index/ subtree this package writes. Grounded on the teacher's
// indexer package (indexer/faiss*.go) for the exact-scorer split, adapted
// from an in-memory FAISS vector index to a flat-file chunks+embeddings
// layout per spec.md §4.5/§6.
package store

import (
	"errors"
	"path/filepath"
)

// Sentinel errors per spec.md §7.
var (
	// ErrNoIndex is returned by Load when the KB has never been
	// successfully indexed, or the on-disk index is missing a required
	// file.
	ErrNoIndex = errors.New("store: no index")

	// ErrCorruptIndex is returned by Load when index files are present but
	// internally inconsistent (embeddings.bin size does not match
	// chunkCount*dimensions*4, or chunks.json fails to parse).
	ErrCorruptIndex = errors.New("store: corrupt index")
)

// Layout returns the fixed paths for a KB rooted at root/kb-id, per
// spec.md §4.5's directory diagram.
type Layout struct {
	Root  string
	KBID  string
}

func NewLayout(root, kbID string) Layout {
	return Layout{Root: root, KBID: kbID}
}

func (l Layout) KBDir() string       { return filepath.Join(l.Root, l.KBID) }
func (l Layout) PagesDir() string    { return filepath.Join(l.KBDir(), "pages") }
func (l Layout) ManifestPath() string { return filepath.Join(l.KBDir(), "manifest.json") }
func (l Layout) LockPath() string    { return filepath.Join(l.KBDir(), "manifest.lock") }
func (l Layout) IndexDir() string    { return filepath.Join(l.KBDir(), "index") }
func (l Layout) StagingDir() string  { return filepath.Join(l.KBDir(), "index.new") }

func (l Layout) chunksPath(dir string) string     { return filepath.Join(dir, "chunks.json") }
func (l Layout) embeddingsPath(dir string) string { return filepath.Join(dir, "embeddings.bin") }
func (l Layout) vocabPath(dir string) string      { return filepath.Join(dir, "vocabulary.json") }
