package embedder

import (
	"math"
	"sort"

	"github.com/piyushimraw/meeseeks-cli/kbse/tokenizer"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// MaxVocab bounds the vocabulary size per spec.md §3.
const MaxVocab = 5000

// BuildVocabulary performs the two-pass TF-IDF vocabulary construction from
// spec.md §4.3: per-document token sets (duplicates within a document do not
// inflate document frequency), discard df<2, sort by df descending with a
// lexicographic tie-break for determinism, keep the top MaxVocab, and
// compute the smoothed IDF.
//
// An empty document list yields an empty (zero-dimension) vocabulary; this
// is a valid degenerate state, not an error (spec.md §4.3, §7 EmptyVocabulary).
func BuildVocabulary(docs []string) types.Vocabulary {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenizer.Tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	remaining := make([]string, 0, len(df))
	for w, count := range df {
		if count >= 2 {
			remaining = append(remaining, w)
		}
	}

	sort.Slice(remaining, func(i, j int) bool {
		if df[remaining[i]] != df[remaining[j]] {
			return df[remaining[i]] > df[remaining[j]]
		}
		return remaining[i] < remaining[j]
	})

	if len(remaining) > MaxVocab {
		remaining = remaining[:MaxVocab]
	}

	n := float64(len(docs))
	words := make(map[string]int, len(remaining))
	idf := make([]float64, len(remaining))
	for i, w := range remaining {
		words[w] = i
		idf[i] = math.Log((n+1)/(float64(df[w])+1)) + 1
	}

	return types.Vocabulary{
		Words:      words,
		Order:      remaining,
		IDF:        idf,
		Dimensions: len(remaining),
	}
}
