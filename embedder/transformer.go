package embedder

import "errors"

// TransformerDimensions is the native output width of the sentence
// transformer the optional backend wraps (all-MiniLM-L6-v2), matching
// spec.md §4.4's "mean-pooled normalised float arrays of dimension 384."
const TransformerDimensions = 384

// TransformerModelName is the tag stored in chunks.json when the
// transformer backend produced the index.
const TransformerModelName = "all-MiniLM-L6-v2"

// ErrTransformerUnavailable is returned by LoadTransformer when the optional
// backend cannot be used in this process (not built with the onnx tag, or
// the model failed to load). Per spec.md §4.4/§9, this marks the
// transformer permanently unavailable for the process; callers should not
// retry within the same process lifetime.
var ErrTransformerUnavailable = errors.New("embedder: transformer backend unavailable")

// LoadTransformer attempts to bring up the optional transformer backend.
// The !onnx build of this function (transformer_stub.go) always fails; the
// onnx build (transformer_onnx.go) loads the ONNX Runtime session once.
func LoadTransformer() (Embedder, error) {
	return loadTransformer()
}
