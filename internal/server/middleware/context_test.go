package middleware

import (
	"testing"

	"github.com/kgraphrag/backend/internal/config"
	"github.com/kgraphrag/backend/pkg/ai"
	olai "github.com/kgraphrag/backend/pkg/ai/ollama"
	oai "github.com/kgraphrag/backend/pkg/ai/openai"
)

func TestNewAIClient_ProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "openai", provider: "openai"},
		{name: "azure", provider: "azure"},
		{name: "ollama", provider: "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &config.Settings{
				LLMProvider:       tt.provider,
				EmbeddingProvider: tt.provider,
				ChatModel:         "test-chat",
				EmbeddingModel:    "test-embed",
			}
			client, err := NewAIClient(s)
			if err != nil {
				t.Fatalf("NewAIClient() error = %v", err)
			}

			switch tt.provider {
			case "openai", "azure":
				if _, ok := client.(*oai.GraphOpenAIClient); !ok {
					t.Fatalf("expected an OpenAI-backed client, got %T", client)
				}
			case "ollama":
				if _, ok := client.(*olai.GraphOllamaClient); !ok {
					t.Fatalf("expected an Ollama client, got %T", client)
				}
			}
		})
	}
}

func TestNewAIClient_SplitWhenProvidersDiffer(t *testing.T) {
	s := &config.Settings{
		LLMProvider:       "ollama",
		EmbeddingProvider: "openai",
		ChatModel:         "test-chat",
		EmbeddingModel:    "test-embed",
	}
	client, err := NewAIClient(s)
	if err != nil {
		t.Fatalf("NewAIClient() error = %v", err)
	}
	if _, ok := client.(*ai.SplitClient); !ok {
		t.Fatalf("expected a split client, got %T", client)
	}
}

func TestNewAIClient_UnknownProvider(t *testing.T) {
	s := &config.Settings{
		LLMProvider:       "bedrock",
		EmbeddingProvider: "bedrock",
	}
	if _, err := NewAIClient(s); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}
