package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// ReadManifest loads manifest.json. A missing file reads as an
// un-indexed, zero-value manifest rather than an error — is_indexed and
// index_stats both treat "no manifest" as "not indexed" per spec.md §4.8.
func ReadManifest(l Layout) (types.Manifest, error) {
	data, err := os.ReadFile(l.ManifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return types.Manifest{}, nil
		}
		return types.Manifest{}, fmt.Errorf("store: read manifest: %w", err)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return types.Manifest{}, fmt.Errorf("store: parse manifest: %w", err)
	}
	return m, nil
}

// writeManifest serializes m as pretty JSON to manifest.json. Callers must
// hold the manifest lock; this alone does not make the manifest-flip
// atomic with respect to the index/ directory swap (see Save).
func writeManifest(l Layout, m types.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal manifest: %w", err)
	}
	if err := os.MkdirAll(l.KBDir(), 0o755); err != nil {
		return fmt.Errorf("store: create kb dir: %w", err)
	}
	tmp := l.ManifestPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write manifest: %w", err)
	}
	return os.Rename(tmp, l.ManifestPath())
}

// withManifestLock serializes writer-vs-writer access to the manifest
// across processes using a gofrs/flock advisory lock on a sibling file,
// per SPEC_FULL.md §4.5 (spec.md's atomicity guarantees are about readers
// vs. a single writer; this lock covers writer vs. writer, which the
// on-disk layout alone cannot enforce).
func withManifestLock(l Layout, fn func() error) error {
	if err := os.MkdirAll(l.KBDir(), 0o755); err != nil {
		return fmt.Errorf("store: create kb dir: %w", err)
	}
	fl := flock.New(l.LockPath())
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("store: acquire manifest lock: %w", err)
	}
	defer fl.Unlock()
	return fn()
}

// ClearIndex removes the index/ subtree and strips the indexing fields
// from the manifest, idempotently (spec.md §4.8's clear_index contract).
func ClearIndex(l Layout) error {
	return withManifestLock(l, func() error {
		if err := os.RemoveAll(l.IndexDir()); err != nil {
			return fmt.Errorf("store: remove index dir: %w", err)
		}
		os.RemoveAll(l.StagingDir())
		return writeManifest(l, types.Manifest{})
	})
}

// markIndexed flips the manifest to indexed:true with the given stats.
// Must be called only after the new index/ directory is fully in place, and
// only by a caller already holding the manifest lock (see withManifestLock) —
// it does not lock itself, since its one caller, Save, calls it from inside
// its own locked section.
func markIndexed(l Layout, chunkCount int, mode string) error {
	return writeManifest(l, types.Manifest{
		Indexed:    true,
		IndexedAt:  time.Now(),
		ChunkCount: chunkCount,
		IndexMode:  mode,
	})
}
