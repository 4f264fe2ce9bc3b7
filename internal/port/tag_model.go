package port

import "context"

// Tensor element types a tagging model may declare for its input.
const (
	DTypeInt32   = "int32"
	DTypeFloat32 = "float32"
)

// Model input kinds: a token-index sequence or a whole-text embedding vector.
const (
	InputKindTokens    = "tokens"
	InputKindEmbedding = "embedding"
)

// ModelManifest describes the opaque tagging model's input contract. The
// decoder inspects nothing else about the model.
type ModelManifest struct {
	Name           string `json:"name"`
	InputShape     []int  `json:"input_shape"`
	InputDType     string `json:"input_dtype"`
	InputKind      string `json:"input_kind"`
	SequenceLength int    `json:"sequence_length"`
}

// TagModel is the capability interface over an opaque sequence-tagging model:
// the caller encodes tokens into the declared input shape and receives one tag
// index per position back.
type TagModel interface {
	Manifest() ModelManifest
	Predict(ctx context.Context, input []float32) ([]int, error)
}
