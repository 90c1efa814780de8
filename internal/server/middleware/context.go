package middleware

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/config"
	"github.com/kgraphrag/backend/pkg/ai"
	azai "github.com/kgraphrag/backend/pkg/ai/azure"
	olai "github.com/kgraphrag/backend/pkg/ai/ollama"
	oai "github.com/kgraphrag/backend/pkg/ai/openai"
)

// App carries the shared dependencies of one request.
type App struct {
	DBConn   *pgxpool.Pool
	S3       *s3.Client
	Settings *config.Settings
	AiClient ai.GraphAIClient
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared dependencies to every request.
// The settings snapshot and the AI client are resolved per request, so a
// runtime config update applies to the next request without a restart.
func AppContextMiddleware(db *pgxpool.Pool, s3Client *s3.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			settings := config.Current()

			aiClient, err := NewAIClient(settings)
			if err != nil {
				return echo.NewHTTPError(500, "AI provider configuration is invalid")
			}

			app := &App{
				DBConn:   db,
				S3:       s3Client,
				Settings: settings,
				AiClient: aiClient,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}

// NewAIClient builds the graph AI client for the given settings. When the
// embedding provider differs from the completion provider, the two are
// combined into a split client.
func NewAIClient(s *config.Settings) (ai.GraphAIClient, error) {
	completion, err := newProviderClient(s, s.LLMProvider)
	if err != nil {
		return nil, err
	}
	if s.EmbeddingProvider == s.LLMProvider {
		return completion, nil
	}

	embedding, err := newProviderClient(s, s.EmbeddingProvider)
	if err != nil {
		return nil, err
	}
	return ai.NewSplitClient(completion, embedding), nil
}

func newProviderClient(s *config.Settings, provider string) (ai.GraphAIClient, error) {
	switch provider {
	case "openai":
		return oai.NewGraphOpenAIClient(oai.NewGraphOpenAIClientParams{
			ChatModel:      s.ChatModel,
			EmbeddingModel: s.EmbeddingModel,

			BaseURL: s.OpenAIBaseURL,
			APIKey:  s.OpenAIAPIKey,

			EmbeddingDim:          s.EmbeddingDim,
			MaxConcurrentRequests: s.ParallelAiRequests,
			TimeoutMin:            s.AiTimeoutMin,
		}), nil
	case "azure":
		return azai.NewGraphAzureClient(azai.NewGraphAzureClientParams{
			Endpoint:   s.AzureEndpoint,
			APIKey:     s.AzureAPIKey,
			APIVersion: s.AzureAPIVersion,

			ChatDeployment:      s.AzureChatDeployment,
			EmbeddingDeployment: s.AzureEmbeddingDeployment,

			EmbeddingDim:          s.EmbeddingDim,
			MaxConcurrentRequests: s.ParallelAiRequests,
			TimeoutMin:            s.AiTimeoutMin,
		}), nil
	case "ollama":
		return olai.NewGraphOllamaClient(olai.NewGraphOllamaClientParams{
			ChatModel:      s.ChatModel,
			EmbeddingModel: s.EmbeddingModel,

			BaseURL: s.OllamaBaseURL,
			ApiKey:  s.OllamaAPIKey,

			EmbeddingDim:          s.EmbeddingDim,
			MaxConcurrentRequests: s.ParallelAiRequests,
			TimeoutMin:            s.AiTimeoutMin,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
