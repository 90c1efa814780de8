// Package config loads runtime settings from the environment and holds
// them in an atomically swappable snapshot. Handlers read the snapshot
// once at request start, so a concurrent update never changes behavior
// mid-request.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/kgraphrag/backend/internal/util"
)

// Settings is one immutable snapshot of the service configuration.
type Settings struct {
	Port        string
	DatabaseURL string

	LLMProvider       string
	EmbeddingProvider string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string

	AzureEndpoint            string
	AzureAPIKey              string
	AzureAPIVersion          string
	AzureChatDeployment      string
	AzureEmbeddingDeployment string

	OllamaBaseURL string
	OllamaAPIKey  string

	EmbeddingModel string
	EmbeddingDim   int

	ChunkSize          int
	ChunkOverlap       int
	ParallelAiRequests int
	MaxRetries         int
	AiTimeoutMin       int

	DefaultGroupID string

	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

var current atomic.Pointer[Settings]

// Load reads the environment (including a .env file when present) into
// the active settings snapshot. Must be called once at startup.
func Load() *Settings {
	util.LoadEnv()
	s := fromEnv()
	current.Store(s)
	return s
}

// Current returns the active settings snapshot.
func Current() *Settings {
	if s := current.Load(); s != nil {
		return s
	}
	return Load()
}

// Replace swaps the active snapshot. In-flight requests keep the
// snapshot they started with.
func Replace(s *Settings) {
	current.Store(s)
}

func fromEnv() *Settings {
	return &Settings{
		Port:        util.GetEnvString("PORT", "8080"),
		DatabaseURL: util.GetEnv("DATABASE_URL"),

		LLMProvider:       util.GetEnvString("LLM_PROVIDER", "openai"),
		EmbeddingProvider: util.GetEnvString("EMBEDDING_PROVIDER", util.GetEnvString("LLM_PROVIDER", "openai")),

		OpenAIAPIKey:  util.GetEnv("OPENAI_API_KEY"),
		OpenAIBaseURL: util.GetEnv("OPENAI_BASE_URL"),
		ChatModel:     util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),

		AzureEndpoint:            util.GetEnv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:              util.GetEnv("AZURE_OPENAI_API_KEY"),
		AzureAPIVersion:          util.GetEnv("AZURE_OPENAI_API_VERSION"),
		AzureChatDeployment:      util.GetEnv("AZURE_CHAT_DEPLOYMENT"),
		AzureEmbeddingDeployment: util.GetEnv("AZURE_EMBED_DEPLOYMENT"),

		OllamaBaseURL: util.GetEnv("OLLAMA_BASE_URL"),
		OllamaAPIKey:  util.GetEnv("OLLAMA_API_KEY"),

		EmbeddingModel: util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),
		EmbeddingDim:   util.GetEnvInt("AI_EMBED_DIM", 1536),

		ChunkSize:          util.GetEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:       util.GetEnvInt("CHUNK_OVERLAP", 200),
		ParallelAiRequests: util.GetEnvInt("AI_PARALLEL_REQ", 4),
		MaxRetries:         util.GetEnvInt("AI_MAX_RETRIES", 3),
		AiTimeoutMin:       util.GetEnvInt("AI_TIMEOUT_MIN", 5),

		DefaultGroupID: util.GetEnvString("DEFAULT_GROUP_ID", "default"),

		S3Bucket:   util.GetEnv("S3_BUCKET"),
		S3Region:   util.GetEnv("S3_REGION"),
		S3Endpoint: util.GetEnv("S3_ENDPOINT"),
	}
}

// updatableKeys are the environment keys the config endpoint may change
// at runtime. Anything else requires a restart.
var updatableKeys = map[string]bool{
	"LLM_PROVIDER":             true,
	"EMBEDDING_PROVIDER":       true,
	"OPENAI_API_KEY":           true,
	"OPENAI_BASE_URL":          true,
	"AI_CHAT_MODEL":            true,
	"AZURE_OPENAI_ENDPOINT":    true,
	"AZURE_OPENAI_API_KEY":     true,
	"AZURE_OPENAI_API_VERSION": true,
	"AZURE_CHAT_DEPLOYMENT":    true,
	"AZURE_EMBED_DEPLOYMENT":   true,
	"OLLAMA_BASE_URL":          true,
	"OLLAMA_API_KEY":           true,
	"AI_EMBED_MODEL":           true,
	"CHUNK_SIZE":               true,
	"CHUNK_OVERLAP":            true,
	"AI_PARALLEL_REQ":          true,
	"AI_MAX_RETRIES":           true,
	"AI_TIMEOUT_MIN":           true,
	"DEFAULT_GROUP_ID":         true,
}

// restartKeys take effect only after a restart; the config endpoint
// reports them so callers know an update won't apply immediately.
var restartKeys = map[string]bool{
	"PORT":         true,
	"DATABASE_URL": true,
	"AI_EMBED_DIM": true,
	"S3_BUCKET":    true,
	"S3_REGION":    true,
	"S3_ENDPOINT":  true,
}

// UpdateFromEnv applies the given key/value pairs to the process
// environment and reloads the active snapshot. It returns the keys that
// were applied and the keys that need a restart to take effect; unknown
// keys are rejected.
func UpdateFromEnv(values map[string]string) (applied, needRestart []string, err error) {
	for key := range values {
		if !updatableKeys[key] && !restartKeys[key] {
			return nil, nil, fmt.Errorf("unknown configuration key: %s", key)
		}
	}

	for key, value := range values {
		if err := os.Setenv(key, value); err != nil {
			return nil, nil, err
		}
		if restartKeys[key] {
			needRestart = append(needRestart, key)
		} else {
			applied = append(applied, key)
		}
	}
	sort.Strings(applied)
	sort.Strings(needRestart)

	Replace(fromEnv())
	return applied, needRestart, nil
}

// MaskedEnv returns the current configuration as key/value pairs with
// secrets masked, for the config endpoint.
func MaskedEnv() map[string]string {
	s := Current()
	out := map[string]string{
		"PORT":                     s.Port,
		"DATABASE_URL":             maskValue("DATABASE_URL", s.DatabaseURL),
		"LLM_PROVIDER":             s.LLMProvider,
		"EMBEDDING_PROVIDER":       s.EmbeddingProvider,
		"OPENAI_API_KEY":           maskValue("OPENAI_API_KEY", s.OpenAIAPIKey),
		"OPENAI_BASE_URL":          s.OpenAIBaseURL,
		"AI_CHAT_MODEL":            s.ChatModel,
		"AZURE_OPENAI_ENDPOINT":    s.AzureEndpoint,
		"AZURE_OPENAI_API_KEY":     maskValue("AZURE_OPENAI_API_KEY", s.AzureAPIKey),
		"AZURE_OPENAI_API_VERSION": s.AzureAPIVersion,
		"AZURE_CHAT_DEPLOYMENT":    s.AzureChatDeployment,
		"AZURE_EMBED_DEPLOYMENT":   s.AzureEmbeddingDeployment,
		"OLLAMA_BASE_URL":          s.OllamaBaseURL,
		"OLLAMA_API_KEY":           maskValue("OLLAMA_API_KEY", s.OllamaAPIKey),
		"AI_EMBED_MODEL":           s.EmbeddingModel,
		"AI_EMBED_DIM":             fmt.Sprintf("%d", s.EmbeddingDim),
		"CHUNK_SIZE":               fmt.Sprintf("%d", s.ChunkSize),
		"CHUNK_OVERLAP":            fmt.Sprintf("%d", s.ChunkOverlap),
		"AI_PARALLEL_REQ":          fmt.Sprintf("%d", s.ParallelAiRequests),
		"AI_MAX_RETRIES":           fmt.Sprintf("%d", s.MaxRetries),
		"AI_TIMEOUT_MIN":           fmt.Sprintf("%d", s.AiTimeoutMin),
		"DEFAULT_GROUP_ID":         s.DefaultGroupID,
		"S3_BUCKET":                s.S3Bucket,
		"S3_REGION":                s.S3Region,
		"S3_ENDPOINT":              s.S3Endpoint,
	}
	return out
}

// maskValue hides secret material while leaving enough to recognize
// which credential is configured.
func maskValue(key, value string) string {
	if value == "" {
		return ""
	}
	sensitive := strings.Contains(key, "API_KEY") ||
		strings.Contains(key, "PASSWORD") ||
		strings.Contains(key, "SECRET") ||
		key == "DATABASE_URL"
	if !sensitive {
		return value
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}
