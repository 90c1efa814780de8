package ollama

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNewGraphOllamaClient_Defaults(t *testing.T) {
	c, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ChatModel:      "llama3",
		EmbeddingModel: "nomic-embed-text",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if c.embeddingDim != defaultDimensions {
		t.Fatalf("expected default dimensions %d, got %d", defaultDimensions, c.embeddingDim)
	}
	if c.timeoutMin != defaultTimeoutMin {
		t.Fatalf("expected default timeout %d, got %d", defaultTimeoutMin, c.timeoutMin)
	}
	if c.httpClient != http.DefaultClient {
		t.Fatal("expected plain http client without an API key")
	}
}

func TestNewGraphOllamaClient_InvalidBaseURL(t *testing.T) {
	_, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ChatModel: "llama3",
		BaseURL:   "://not-a-url",
	})
	if err == nil {
		t.Fatal("expected error for invalid base URL")
	}
}

func TestRequestContext_AppliesTimeout(t *testing.T) {
	c, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ChatModel:  "llama3",
		TimeoutMin: 3,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	before := time.Now()
	ctx, cancel := c.requestContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on the request context")
	}
	want := before.Add(3 * time.Minute)
	if deadline.Before(want.Add(-time.Second)) || deadline.After(want.Add(time.Second)) {
		t.Fatalf("deadline %v not within a second of %v", deadline, want)
	}
}
