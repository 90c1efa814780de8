package ai

import (
	"context"
	"sync"
)

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ModelMetrics accumulates token usage and latency across provider calls.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// GraphAIClient is the capability boundary to the language-model backend:
// completion for extraction and answer synthesis, embeddings for retrieval.
// Implementations are selected by the provider factory at configuration-read
// time; the core never branches on provider identity.
type GraphAIClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	// GenerateCompletionWithFormat requests structured output matching the
	// JSON schema of out and unmarshals the response into it. A response
	// that cannot be parsed even after repair yields an error wrapping
	// common.ErrMalformedOutput.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)
}

// SplitClient routes completion and embedding calls to two different
// backends. Used when LLM_PROVIDER and EMBEDDING_PROVIDER differ.
type SplitClient struct {
	completion GraphAIClient
	embedding  GraphAIClient
}

// NewSplitClient builds a client that sends completions to one backend and
// embeddings to another.
func NewSplitClient(completion, embedding GraphAIClient) *SplitClient {
	return &SplitClient{completion: completion, embedding: embedding}
}

func (c *SplitClient) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	return c.completion.GenerateCompletion(ctx, prompt, opts...)
}

func (c *SplitClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...GenerateOption) error {
	return c.completion.GenerateCompletionWithFormat(ctx, name, description, prompt, out, opts...)
}

func (c *SplitClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return c.embedding.GenerateEmbedding(ctx, input)
}

func (c *SplitClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return c.embedding.GenerateEmbeddings(ctx, inputs)
}

// MetricsTracker accumulates ModelMetrics across concurrent provider calls.
// The zero value is ready to use.
type MetricsTracker struct {
	mu      sync.Mutex
	metrics ModelMetrics
}

func (t *MetricsTracker) Add(m ModelMetrics) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.InputTokens += m.InputTokens
	t.metrics.OutputTokens += m.OutputTokens
	t.metrics.TotalTokens += m.TotalTokens
	t.metrics.DurationMs += m.DurationMs
}

func (t *MetricsTracker) Snapshot() ModelMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metrics
}
