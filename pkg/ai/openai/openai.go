// Package openai implements the graph AI client on top of the OpenAI API.
// It also serves any OpenAI-compatible endpoint via BaseURL, and Azure
// OpenAI via pre-built request options.
package openai

import (
	"context"
	"time"

	"github.com/kgraphrag/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const (
	defaultDimensions  = 1536
	defaultConcurrency = 4
	defaultTimeoutMin  = 5
	defaultTemperature = 0.3
	formatTemperature  = 0.1
)

// GraphOpenAIClient talks to an OpenAI-compatible backend for both chat
// completions and embeddings.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	chatModel      string
	embeddingModel string
	embeddingDim   int
	timeoutMin     int

	embeddingLock *semaphore.Weighted
	metrics       ai.MetricsTracker

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for
// creating a new GraphOpenAIClient.
//
// BaseURL may be empty for the public OpenAI API. ExtraOptions are appended
// to every underlying client; the azure package uses them to route requests
// to an Azure OpenAI resource.
type NewGraphOpenAIClientParams struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	APIKey  string

	EmbeddingDim          int
	MaxConcurrentRequests int
	TimeoutMin            int

	ExtraOptions []option.RequestOption
}

// NewGraphOpenAIClient creates and returns a new GraphOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	client := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ChatModel:      "gpt-4o-mini",
//		EmbeddingModel: "text-embedding-3-small",
//		APIKey:         os.Getenv("OPENAI_API_KEY"),
//		EmbeddingDim:   1536,
//	})
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	if params.EmbeddingDim <= 0 {
		params.EmbeddingDim = defaultDimensions
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = defaultConcurrency
	}
	if params.TimeoutMin <= 0 {
		params.TimeoutMin = defaultTimeoutMin
	}

	client := newOpenaiClient(params.BaseURL, params.APIKey, params.ExtraOptions)

	return &GraphOpenAIClient{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,
		embeddingDim:   params.EmbeddingDim,
		timeoutMin:     params.TimeoutMin,

		embeddingLock: semaphore.NewWeighted(int64(params.MaxConcurrentRequests)),

		ChatClient:      client,
		EmbeddingClient: client,
	}
}

// Metrics returns the accumulated token usage across all calls.
func (c *GraphOpenAIClient) Metrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}

// requestContext bounds a backend call by the configured timeout so a
// stalled completion or embedding request cannot hold a pipeline worker
// indefinitely.
func (c *GraphOpenAIClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
	extra []option.RequestOption,
) *openai.Client {
	options := []option.RequestOption{}
	if apiKey != "" {
		options = append(options, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	options = append(options, extra...)

	client := openai.NewClient(options...)

	return &client
}
