//go:build onnx

package embedder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"
)

// onnxModelEnv names the environment variable pointing at the exported
// all-MiniLM-L6-v2 model; unlike the teacher's embedder_onnx.go, this
// backend never downloads a model on demand (no network access at index
// time per spec.md's ambient constraints) — the model and vocab files must
// already be on disk.
const onnxModelEnv = "KBSE_ONNX_MODEL_PATH"

// onnxEmbedder wraps an ONNX Runtime session producing native 384-dim
// mean-pooled sentence embeddings, mirroring the teacher's ONNXEmbedder
// (embedder/embedder_onnx.go) session/tokenizer lifecycle but dropping its
// 768-dim CodeBERT padding and its per-chunk embedding cache: every
// EmbedBatch call runs a forward pass for each text.
type onnxEmbedder struct {
	mu        sync.Mutex
	session   *onnxruntime.DynamicAdvancedSession
	tokenizer *simpleTokenizer
	modelPath string
}

// simpleTokenizer is a WordPiece-lite vocabulary lookup, grounded on the
// teacher's SimpleTokenizer: lowercase, split on whitespace (punctuation
// stays attached to words), map to ids with an unknown-token fallback.
type simpleTokenizer struct {
	vocab          map[string]int64
	padTokenID     int64
	unknownTokenID int64
	clsTokenID     int64
	sepTokenID     int64
	maxSeqLen      int
}

func loadTransformer() (Embedder, error) {
	modelPath := os.Getenv(onnxModelEnv)
	if modelPath == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrTransformerUnavailable, onnxModelEnv)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: model file: %w", ErrTransformerUnavailable, err)
	}

	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: init runtime: %w", ErrTransformerUnavailable, err)
	}

	session, err := onnxruntime.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %w", ErrTransformerUnavailable, err)
	}

	vocabPath := filepath.Join(filepath.Dir(modelPath), "vocab.txt")
	tok, err := loadSimpleTokenizer(vocabPath)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("%w: load vocab: %w", ErrTransformerUnavailable, err)
	}

	return &onnxEmbedder{session: session, tokenizer: tok, modelPath: modelPath}, nil
}

func loadSimpleTokenizer(path string) (*simpleTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	vocab := make(map[string]int64)
	for i, line := range strings.Split(string(data), "\n") {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		vocab[word] = int64(i)
	}

	t := &simpleTokenizer{
		vocab:     vocab,
		maxSeqLen: 256,
	}
	t.padTokenID = t.lookup("[PAD]", 0)
	t.unknownTokenID = t.lookup("[UNK]", 100)
	t.clsTokenID = t.lookup("[CLS]", 101)
	t.sepTokenID = t.lookup("[SEP]", 102)
	return t, nil
}

func (t *simpleTokenizer) lookup(tok string, fallback int64) int64 {
	if id, ok := t.vocab[tok]; ok {
		return id
	}
	return fallback
}

func (t *simpleTokenizer) encode(text string) (ids, mask, typeIDs []int64) {
	words := strings.Fields(strings.ToLower(text))
	ids = make([]int64, 0, t.maxSeqLen)
	ids = append(ids, t.clsTokenID)
	for _, w := range words {
		if len(ids) >= t.maxSeqLen-1 {
			break
		}
		id, ok := t.vocab[w]
		if !ok {
			id = t.unknownTokenID
		}
		ids = append(ids, id)
	}
	ids = append(ids, t.sepTokenID)

	mask = make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	for len(ids) < t.maxSeqLen {
		ids = append(ids, t.padTokenID)
		mask = append(mask, 0)
	}

	typeIDs = make([]int64, len(ids))
	return ids, mask, typeIDs
}

func (e *onnxEmbedder) Dimensions() int { return TransformerDimensions }

func (e *onnxEmbedder) Model() string { return TransformerModelName }

// EmbedBatch runs one forward pass per text; ONNX Runtime sessions in this
// binding are not safe for concurrent Run calls on the same session, hence
// the mutex (the teacher's ONNXEmbedder guards the session the same way).
func (e *onnxEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.embedOne(text)
		if err != nil {
			return nil, fmt.Errorf("embedder: onnx forward pass: %w", err)
		}
		out[i] = vec
	}
	return out, nil
}

func (e *onnxEmbedder) embedOne(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids, mask, typeIDs := e.tokenizer.encode(text)
	seqLen := len(ids)

	inputIDs, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(seqLen)), ids)
	if err != nil {
		return nil, err
	}
	defer inputIDs.Destroy()

	attnMask, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(seqLen)), mask)
	if err != nil {
		return nil, err
	}
	defer attnMask.Destroy()

	tokenTypes, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(seqLen)), typeIDs)
	if err != nil {
		return nil, err
	}
	defer tokenTypes.Destroy()

	output, err := onnxruntime.NewEmptyTensor[float32](onnxruntime.NewShape(1, int64(seqLen), TransformerDimensions))
	if err != nil {
		return nil, err
	}
	defer output.Destroy()

	if err := e.session.Run(
		[]onnxruntime.Value{inputIDs, attnMask, tokenTypes},
		[]onnxruntime.Value{output},
	); err != nil {
		return nil, err
	}

	return Normalize(meanPool(output.GetData(), mask, seqLen, TransformerDimensions)), nil
}

// meanPool averages token vectors over positions where mask==1, matching
// sentence-transformers' mean pooling (not the [CLS]-only pooling the
// teacher's CodeBERT usage relied on).
func meanPool(hidden []float32, mask []int64, seqLen, dims int) []float32 {
	out := make([]float32, dims)
	var count float32
	for pos := 0; pos < seqLen; pos++ {
		if mask[pos] == 0 {
			continue
		}
		count++
		base := pos * dims
		for d := 0; d < dims; d++ {
			out[d] += hidden[base+d]
		}
	}
	if count == 0 {
		return out
	}
	for d := range out {
		out[d] /= count
	}
	return out
}
