// Package azure wires the OpenAI graph client to an Azure OpenAI resource.
// Azure addresses models by deployment name and requires an api-version
// query parameter, which the openai-go azure options take care of.
package azure

import (
	azopts "github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/kgraphrag/backend/pkg/ai/openai"
)

const defaultAPIVersion = "2024-10-21"

// NewGraphAzureClientParams defines the configuration for an Azure OpenAI
// backed graph client. ChatDeployment and EmbeddingDeployment are the Azure
// deployment names; they are passed as model identifiers on every request.
type NewGraphAzureClientParams struct {
	Endpoint   string
	APIKey     string
	APIVersion string

	ChatDeployment      string
	EmbeddingDeployment string

	EmbeddingDim          int
	MaxConcurrentRequests int
	TimeoutMin            int
}

// NewGraphAzureClient creates a graph AI client that routes all chat and
// embedding traffic to the given Azure OpenAI resource.
func NewGraphAzureClient(params NewGraphAzureClientParams) *openai.GraphOpenAIClient {
	apiVersion := params.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	return openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
		ChatModel:      params.ChatDeployment,
		EmbeddingModel: params.EmbeddingDeployment,

		EmbeddingDim:          params.EmbeddingDim,
		MaxConcurrentRequests: params.MaxConcurrentRequests,
		TimeoutMin:            params.TimeoutMin,

		ExtraOptions: []option.RequestOption{
			azopts.WithEndpoint(params.Endpoint, apiVersion),
			azopts.WithAPIKey(params.APIKey),
		},
	})
}
