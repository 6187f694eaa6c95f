package kbse

import (
	"context"

	"github.com/piyushimraw/meeseeks-cli/kbse/chunker"
	"github.com/piyushimraw/meeseeks-cli/kbse/embedder"
	"github.com/piyushimraw/meeseeks-cli/kbse/store"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// IndexKB implements spec.md §4.8/§5's index_kb: chunk every page, embed in
// whichever mode the process currently supports (transformer if available,
// else TF-IDF), then stage-and-swap the result into the KB's index/
// directory. progress is invoked synchronously between phases and batches
// and must not block indefinitely; ctx cancellation is checked at every
// batch boundary, leaving the on-disk state exactly as it was before the
// call when cancelled (store.Save never runs on a cancelled path).
func (s *Service) IndexKB(ctx context.Context, kbID string, progress types.ProgressFunc) types.IndexResult {
	l := s.layout(kbID)
	pages := loadPages(l.PagesDir())
	if len(pages) == 0 {
		return types.IndexResult{Success: false, Error: "No pages to index"}
	}

	report := func(phase types.IndexPhase, current, total int) {
		if progress != nil {
			progress(types.IndexProgress{Phase: phase, Current: current, Total: total})
		}
	}

	report(types.PhaseChunking, 0, len(pages))
	var chunks []types.Chunk
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return types.IndexResult{Success: false, Error: err.Error()}
		}
		built := chunker.BuildChunks(page, s.chunkSize, s.overlap)
		for _, c := range built {
			c.ID = len(chunks)
			chunks = append(chunks, c)
		}
		report(types.PhaseChunking, i+1, len(pages))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	emb, mode, batchSize := s.selectEmbedder(ctx, texts)

	var vectors [][]float32
	total := len(texts)
	report(types.PhaseEmbedding, 0, total)
	for i := 0; i < total; i += batchSize {
		if err := ctx.Err(); err != nil {
			return types.IndexResult{Success: false, Error: err.Error()}
		}
		end := i + batchSize
		if end > total {
			end = total
		}
		batch, err := emb.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			return types.IndexResult{Success: false, Error: err.Error()}
		}
		vectors = append(vectors, batch...)
		report(types.PhaseEmbedding, end, total)
	}

	report(types.PhaseSaving, 0, 1)
	chunkIdx := types.ChunkIndex{Model: mode, Dimensions: emb.Dimensions(), Chunks: chunks}

	var vocab *types.Vocabulary
	if tfidf, ok := emb.(*embedder.TFIDFEmbedder); ok {
		v := tfidf.VocabularyCopy()
		vocab = &v
	}

	if err := store.Save(l, chunkIdx, vectors, vocab); err != nil {
		return types.IndexResult{Success: false, Error: err.Error()}
	}
	report(types.PhaseSaving, 1, 1)

	resultMode := "transformer"
	if mode == types.ModelTFIDF {
		resultMode = "tfidf"
	}
	return types.IndexResult{Success: true, ChunkCount: len(chunks), Mode: resultMode}
}

// selectEmbedder implements spec.md §4.4's policy: prefer the transformer
// when the coordinator reports it available, else build a fresh TF-IDF
// vocabulary over this run's texts.
func (s *Service) selectEmbedder(ctx context.Context, texts []string) (embedder.Embedder, string, int) {
	if tr, ok := s.coordinator.Transformer(ctx); ok {
		return tr, embedder.TransformerModelName, embedder.TransformerBatchSize
	}
	vocab := embedder.BuildVocabulary(texts)
	return embedder.NewTFIDFEmbedder(vocab), types.ModelTFIDF, embedder.TFIDFBatchSize
}
