package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"polisure/internal/port"
)

// Registry caches loaded model handles for the process lifetime. Loading a
// model that is already cached is a no-op returning the cached handle; there
// is no teardown.
type Registry struct {
	mu     sync.Mutex
	models map[string]port.TagModel
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]port.TagModel)}
}

// Load returns the cached model under name or calls loader once to create it.
func (r *Registry) Load(name string, loader func() (port.TagModel, error)) (port.TagModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.models[name]; ok {
		return m, nil
	}
	m, err := loader()
	if err != nil {
		return nil, err
	}
	r.models[name] = m
	log.Printf("tagger.Registry: loaded model %q", name)
	return m, nil
}

// LoadManifest reads a model manifest file describing the opaque model's
// input contract.
func LoadManifest(path string) (*port.ModelManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model manifest: %w", err)
	}
	var m port.ModelManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model manifest: %w", err)
	}
	if m.InputKind == "" {
		m.InputKind = port.InputKindTokens
	}
	if m.InputDType == "" {
		m.InputDType = port.DTypeInt32
	}
	if m.SequenceLength == 0 && len(m.InputShape) > 1 {
		m.SequenceLength = m.InputShape[len(m.InputShape)-1]
	}
	return &m, nil
}

// HTTPModel invokes a sequence-tagging model behind an inference endpoint.
// It implements port.TagModel; the rest of the pipeline depends only on the
// tag-index sequence it returns.
type HTTPModel struct {
	manifest port.ModelManifest
	endpoint string
	client   *http.Client
}

// NewHTTPModel creates an HTTP-backed tag model.
func NewHTTPModel(manifest port.ModelManifest, endpoint string, timeout time.Duration) *HTTPModel {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPModel{
		manifest: manifest,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Manifest returns the model's declared input contract.
func (m *HTTPModel) Manifest() port.ModelManifest {
	return m.manifest
}

// inferenceResponse accepts either pre-argmax tag indices or a per-position
// logit matrix.
type inferenceResponse struct {
	Tags   []int       `json:"tags"`
	Logits [][]float64 `json:"logits"`
	Error  string      `json:"error"`
}

// inputRejectedError marks an endpoint response rejecting the input's shape
// or element type. Only this class of failure is retried.
type inputRejectedError struct {
	cause error
}

func (e *inputRejectedError) Error() string { return e.cause.Error() }

func isShapeComplaint(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "shape") || strings.Contains(msg, "dtype") ||
		strings.Contains(msg, "data type")
}

// Predict runs one inference call. Transport failures and server errors are
// surfaced as-is; only a shape/dtype rejection earns a single retry with the
// input coerced to the other element type.
func (m *HTTPModel) Predict(ctx context.Context, input []float32) ([]int, error) {
	tags, err := m.predictOnce(ctx, input, m.manifest.InputDType)
	if err == nil {
		return tags, nil
	}
	var rejected *inputRejectedError
	if !errors.As(err, &rejected) {
		return nil, err
	}

	coerced := port.DTypeFloat32
	if m.manifest.InputDType == port.DTypeFloat32 {
		coerced = port.DTypeInt32
	}
	log.Printf("tagger.HTTPModel: input rejected (%v), retrying with %s input", err, coerced)
	tags, retryErr := m.predictOnce(ctx, input, coerced)
	if retryErr != nil {
		return nil, err
	}
	return tags, nil
}

func (m *HTTPModel) predictOnce(ctx context.Context, input []float32, dtype string) ([]int, error) {
	body, err := encodeInput(input, dtype)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("inference endpoint error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && isShapeComplaint(string(respBody)) {
			return nil, &inputRejectedError{cause: err}
		}
		return nil, err
	}

	var out inferenceResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling inference response: %w", err)
	}
	if out.Error != "" {
		err := fmt.Errorf("inference endpoint error: %s", out.Error)
		if isShapeComplaint(out.Error) {
			return nil, &inputRejectedError{cause: err}
		}
		return nil, err
	}

	if len(out.Tags) > 0 {
		return out.Tags, nil
	}
	if len(out.Logits) > 0 {
		return argmaxRows(out.Logits), nil
	}
	return nil, fmt.Errorf("inference response carried neither tags nor logits")
}

func encodeInput(input []float32, dtype string) ([]byte, error) {
	switch dtype {
	case port.DTypeInt32:
		ints := make([]int, len(input))
		for i, v := range input {
			ints[i] = int(v)
		}
		return json.Marshal(map[string]interface{}{"inputs": [][]int{ints}})
	case port.DTypeFloat32:
		return json.Marshal(map[string]interface{}{"inputs": [][]float32{input}})
	default:
		return nil, fmt.Errorf("unsupported input dtype: %s", dtype)
	}
}

func argmaxRows(logits [][]float64) []int {
	tags := make([]int, len(logits))
	for i, row := range logits {
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		if len(row) == 0 {
			best = 0
		}
		tags[i] = best
	}
	return tags
}
