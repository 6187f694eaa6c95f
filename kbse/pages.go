package kbse

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// loadPages reads every page record under pagesDir, per spec.md §6: the
// filename (without extension) is the page's content hash, each file is a
// JSON object with at least {url, title?, text, sourceId}. Non-".json"
// files are ignored; unparsable files are skipped silently rather than
// failing the whole index run.
func loadPages(pagesDir string) []types.PageRecord {
	entries, err := os.ReadDir(pagesDir)
	if err != nil {
		return nil
	}

	pages := make([]types.PageRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(pagesDir, entry.Name()))
		if err != nil {
			continue
		}
		var page types.PageRecord
		if err := json.Unmarshal(data, &page); err != nil {
			continue
		}
		page.Hash = strings.TrimSuffix(entry.Name(), ".json")
		pages = append(pages, page)
	}
	return pages
}
