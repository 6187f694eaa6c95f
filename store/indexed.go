package store

import "os"

// IsIndexed reports whether both index files required to call this KB
// "indexed" physically exist, per spec.md §4.8 ("both index files
// physically present") — a cheaper check than Load since it never parses
// or allocates the embedding matrix.
func IsIndexed(l Layout) bool {
	if _, err := os.Stat(l.chunksPath(l.IndexDir())); err != nil {
		return false
	}
	if _, err := os.Stat(l.embeddingsPath(l.IndexDir())); err != nil {
		return false
	}
	return true
}
