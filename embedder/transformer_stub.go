//go:build !onnx

package embedder

// loadTransformer is the default (no onnx build tag) backend: ONNX Runtime
// is not linked in, so the transformer mode is simply unavailable and every
// indexing/query call falls back to TF-IDF, per spec.md §4.4's policy.
// Mirrors the teacher's embedder_onnx_stub.go.
func loadTransformer() (Embedder, error) {
	return nil, ErrTransformerUnavailable
}
