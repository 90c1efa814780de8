// Package ollama implements the graph AI client against a local or remote
// Ollama server.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kgraphrag/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const (
	defaultDimensions  = 1536
	defaultConcurrency = 2
	defaultTimeoutMin  = 10
)

// GraphOllamaClient implements the ai.GraphAIClient interface using Ollama
// as the backend for text generation and embeddings.
type GraphOllamaClient struct {
	chatModel      string
	embeddingModel string
	embeddingDim   int
	timeoutMin     int

	reqLock *semaphore.Weighted
	metrics ai.MetricsTracker

	baseURL    *url.URL
	httpClient *http.Client

	Client *api.Client
}

// NewGraphOllamaClientParams contains configuration options for creating a
// new GraphOllamaClient. ApiKey is optional; when set it is sent as a
// bearer token, which proxied Ollama deployments require.
type NewGraphOllamaClientParams struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	ApiKey  string

	EmbeddingDim          int
	MaxConcurrentRequests int
	TimeoutMin            int
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewGraphOllamaClient creates a new Ollama-based AI client with the
// specified configuration. It connects to the Ollama server at the given
// BaseURL, or the library default when empty.
func NewGraphOllamaClient(
	params NewGraphOllamaClientParams,
) (*GraphOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	if params.EmbeddingDim <= 0 {
		params.EmbeddingDim = defaultDimensions
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = defaultConcurrency
	}
	if params.TimeoutMin <= 0 {
		params.TimeoutMin = defaultTimeoutMin
	}

	httpClient := http.DefaultClient
	if params.ApiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + params.ApiKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	cli := api.NewClient(u, httpClient)

	return &GraphOllamaClient{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,
		embeddingDim:   params.EmbeddingDim,
		timeoutMin:     params.TimeoutMin,

		reqLock: semaphore.NewWeighted(int64(params.MaxConcurrentRequests)),

		baseURL:    u,
		httpClient: httpClient,

		Client: cli,
	}, nil
}

// Metrics returns the accumulated token usage across all calls.
func (c *GraphOllamaClient) Metrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}

// requestContext bounds a backend call by the configured timeout so a
// stalled generation cannot hold a pipeline worker indefinitely.
func (c *GraphOllamaClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
}
