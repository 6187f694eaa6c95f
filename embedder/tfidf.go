package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/piyushimraw/meeseeks-cli/kbse/tokenizer"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// TFIDFEmbedder is always available; it needs no external model. It
// implements the formula in spec.md §4.4: for text t, tf(w) is the raw
// in-vocabulary count of w divided by the *total* token count of t
// (including tokens that fall outside the vocabulary — see spec.md §9's
// open question on this being neither classical TF nor length-normalised
// TF; we reproduce it faithfully rather than "fixing" it), multiplied by
// the term's smoothed IDF, then L2-normalised. A text with no in-vocabulary
// tokens embeds to the zero vector.
//
// Grounded on the teacher's TFIDFEmbedder (embedder/embedder_tfidf.go), with
// its hash-fallback-vector behaviour dropped: spec.md §4.4 requires the zero
// vector here, not a synthetic non-zero fallback.
type TFIDFEmbedder struct {
	vocab types.Vocabulary
	cache *lru.Cache[string, []float32]
}

// NewTFIDFEmbedder wraps a vocabulary built by BuildVocabulary.
func NewTFIDFEmbedder(vocab types.Vocabulary) *TFIDFEmbedder {
	cache, _ := lru.New[string, []float32](4096)
	return &TFIDFEmbedder{vocab: vocab, cache: cache}
}

func (e *TFIDFEmbedder) Dimensions() int { return e.vocab.Dimensions }

func (e *TFIDFEmbedder) Model() string { return types.ModelTFIDF }

// VocabularyCopy returns the vocabulary this embedder was built with, for
// callers that need to persist it (store.Save writes vocabulary.json only
// in TF-IDF mode).
func (e *TFIDFEmbedder) VocabularyCopy() types.Vocabulary { return e.vocab }

// EmbedBatch embeds every text independently; order is preserved.
func (e *TFIDFEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embedOne(t)
	}
	return out, nil
}

func (e *TFIDFEmbedder) embedOne(text string) []float32 {
	key := contentHash(text)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			return v
		}
	}

	vec := e.vectorize(text)
	if e.cache != nil {
		e.cache.Add(key, vec)
	}
	return vec
}

func (e *TFIDFEmbedder) vectorize(text string) []float32 {
	dims := e.vocab.Dimensions
	vec := make([]float32, dims)
	if dims == 0 {
		return vec
	}

	tokens := tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	termFreq := make(map[string]int)
	for _, tok := range tokens {
		termFreq[tok]++
	}

	l := float64(len(tokens))
	for term, count := range termFreq {
		idx, ok := e.vocab.Words[term]
		if !ok {
			continue
		}
		tf := float64(count) / l
		vec[idx] = float32(tf * e.vocab.IDF[idx])
	}

	return Normalize(vec)
}

func contentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
