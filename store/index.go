package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// vocabularyDoc is the on-disk shape of vocabulary.json: spec.md §6 calls
// for `{ "words": [[word,index], …], "idf": [...], "dimensions": int }`,
// a flattened list-of-pairs rather than types.Vocabulary's in-memory map,
// so word order in the file is deterministic regardless of map iteration.
type vocabularyDoc struct {
	Words      [][2]interface{} `json:"words"`
	IDF        []float64        `json:"idf"`
	Dimensions int               `json:"dimensions"`
}

// Save writes chunks, embeddings (and, in TF-IDF mode, the vocabulary) to a
// fresh staging directory, then atomically swaps it in for index/ and
// flips the manifest — only after the staging write fully succeeds. This
// is the "populate index/ first, then flip the manifest" sequence spec.md
// §4.5/§5 requires for crash- and cancellation-safety.
func Save(l Layout, chunkIdx types.ChunkIndex, embeddings [][]float32, vocab *types.Vocabulary) error {
	if len(chunkIdx.Chunks) != len(embeddings) {
		return fmt.Errorf("store: chunk/embedding count mismatch: %d chunks, %d embeddings", len(chunkIdx.Chunks), len(embeddings))
	}

	staging := l.StagingDir()
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("store: clear stale staging dir: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("store: create staging dir: %w", err)
	}

	if err := writeChunks(l, staging, chunkIdx); err != nil {
		os.RemoveAll(staging)
		return err
	}
	if err := writeEmbeddings(l, staging, embeddings, chunkIdx.Dimensions); err != nil {
		os.RemoveAll(staging)
		return err
	}
	if vocab != nil {
		if err := writeVocabulary(l, staging, *vocab); err != nil {
			os.RemoveAll(staging)
			return err
		}
	}

	return withManifestLock(l, func() error {
		old := l.IndexDir() + ".prev"
		os.RemoveAll(old)

		// Best-effort: move the current index out of the way so the
		// rename-in of staging never collides with it, then remove the
		// old one only after the swap succeeds.
		if _, err := os.Stat(l.IndexDir()); err == nil {
			if err := os.Rename(l.IndexDir(), old); err != nil {
				os.RemoveAll(staging)
				return fmt.Errorf("store: displace old index: %w", err)
			}
		}
		if err := os.Rename(staging, l.IndexDir()); err != nil {
			// Try to restore the displaced index so readers keep seeing
			// a fully-valid index rather than none at all.
			os.Rename(old, l.IndexDir())
			return fmt.Errorf("store: swap in new index: %w", err)
		}
		os.RemoveAll(old)

		return markIndexed(l, len(chunkIdx.Chunks), indexModeFor(chunkIdx.Model))
	})
}

// indexModeFor maps a chunks.json model tag (the transformer model name, or
// the literal "tfidf-simple") to the manifest's generic "tfidf"|"transformer"
// indexMode, per spec.md §3/§6 keeping these two fields distinct.
func indexModeFor(model string) string {
	if model == types.ModelTFIDF {
		return "tfidf"
	}
	return "transformer"
}

func writeChunks(l Layout, dir string, idx types.ChunkIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal chunks: %w", err)
	}
	if err := os.WriteFile(l.chunksPath(dir), data, 0o644); err != nil {
		return fmt.Errorf("store: write chunks.json: %w", err)
	}
	return nil
}

func writeEmbeddings(l Layout, dir string, embeddings [][]float32, dims int) error {
	buf := make([]byte, len(embeddings)*dims*4)
	for i, vec := range embeddings {
		if len(vec) != dims {
			return fmt.Errorf("store: embedding %d has %d dims, want %d", i, len(vec), dims)
		}
		base := i * dims * 4
		for j, x := range vec {
			binary.LittleEndian.PutUint32(buf[base+j*4:base+j*4+4], math.Float32bits(x))
		}
	}
	if err := os.WriteFile(l.embeddingsPath(dir), buf, 0o644); err != nil {
		return fmt.Errorf("store: write embeddings.bin: %w", err)
	}
	return nil
}

func writeVocabulary(l Layout, dir string, vocab types.Vocabulary) error {
	doc := vocabularyDoc{
		Words:      make([][2]interface{}, len(vocab.Order)),
		IDF:        vocab.IDF,
		Dimensions: vocab.Dimensions,
	}
	for i, w := range vocab.Order {
		doc.Words[i] = [2]interface{}{w, vocab.Words[w]}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal vocabulary: %w", err)
	}
	if err := os.WriteFile(l.vocabPath(dir), data, 0o644); err != nil {
		return fmt.Errorf("store: write vocabulary.json: %w", err)
	}
	return nil
}

// Load reads back the chunk list, the embedding matrix (row i is
// embeddings[i], logically chunkCount x dimensions), the model tag, and
// the vocabulary (nil outside TF-IDF mode). Per spec.md §4.5's reader
// contract, any missing, malformed, or size-inconsistent file is reported
// as ErrNoIndex / ErrCorruptIndex rather than propagating a raw I/O error.
func Load(l Layout) (types.ChunkIndex, [][]float32, *types.Vocabulary, error) {
	m, err := ReadManifest(l)
	if err != nil {
		return types.ChunkIndex{}, nil, nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	if !m.Indexed {
		return types.ChunkIndex{}, nil, nil, ErrNoIndex
	}

	chunkData, err := os.ReadFile(l.chunksPath(l.IndexDir()))
	if err != nil {
		if os.IsNotExist(err) {
			return types.ChunkIndex{}, nil, nil, ErrNoIndex
		}
		return types.ChunkIndex{}, nil, nil, fmt.Errorf("%w: read chunks.json: %v", ErrCorruptIndex, err)
	}
	var chunkIdx types.ChunkIndex
	if err := json.Unmarshal(chunkData, &chunkIdx); err != nil {
		return types.ChunkIndex{}, nil, nil, fmt.Errorf("%w: parse chunks.json: %v", ErrCorruptIndex, err)
	}

	embData, err := os.ReadFile(l.embeddingsPath(l.IndexDir()))
	if err != nil {
		if os.IsNotExist(err) {
			return types.ChunkIndex{}, nil, nil, ErrNoIndex
		}
		return types.ChunkIndex{}, nil, nil, fmt.Errorf("%w: read embeddings.bin: %v", ErrCorruptIndex, err)
	}
	wantLen := len(chunkIdx.Chunks) * chunkIdx.Dimensions * 4
	if len(embData) != wantLen {
		return types.ChunkIndex{}, nil, nil, fmt.Errorf("%w: embeddings.bin size %d, want %d", ErrCorruptIndex, len(embData), wantLen)
	}

	embeddings := make([][]float32, len(chunkIdx.Chunks))
	for i := range embeddings {
		vec := make([]float32, chunkIdx.Dimensions)
		base := i * chunkIdx.Dimensions * 4
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(embData[base+j*4 : base+j*4+4]))
		}
		embeddings[i] = vec
	}

	var vocab *types.Vocabulary
	if chunkIdx.Model == types.ModelTFIDF {
		v, err := readVocabulary(l)
		if err != nil {
			return types.ChunkIndex{}, nil, nil, err
		}
		vocab = v
	}

	return chunkIdx, embeddings, vocab, nil
}

func readVocabulary(l Layout) (*types.Vocabulary, error) {
	data, err := os.ReadFile(l.vocabPath(l.IndexDir()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIndex
		}
		return nil, fmt.Errorf("%w: read vocabulary.json: %v", ErrCorruptIndex, err)
	}

	var doc vocabularyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse vocabulary.json: %v", ErrCorruptIndex, err)
	}

	words := make(map[string]int, len(doc.Words))
	order := make([]string, len(doc.Words))
	for i, pair := range doc.Words {
		word, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: vocabulary word entry %d not a string", ErrCorruptIndex, i)
		}
		idxF, ok := pair[1].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: vocabulary index entry %d not a number", ErrCorruptIndex, i)
		}
		idx := int(idxF)
		if idx < 0 || idx >= len(order) {
			return nil, fmt.Errorf("%w: vocabulary index entry %d out of range", ErrCorruptIndex, i)
		}
		words[word] = idx
		order[idx] = word
	}

	return &types.Vocabulary{
		Words:      words,
		Order:      order,
		IDF:        doc.IDF,
		Dimensions: doc.Dimensions,
	}, nil
}
