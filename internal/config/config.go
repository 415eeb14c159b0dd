// Package config loads environment-based configuration and sets up logging.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// FallbackPolicy selects what the embedding layer does when the provider fails.
type FallbackPolicy string

const (
	// FallbackHash substitutes a deterministic hash-based embedding.
	FallbackHash FallbackPolicy = "hash"

	// FallbackError surfaces a typed error instead of degrading silently.
	FallbackError FallbackPolicy = "error"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// LLM generation
	LLMProvider     Provider
	OllamaURL       string
	ChatModel       string
	Temperature     float64
	MaxTokens       int
	GenerateTimeout time.Duration
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Embeddings
	EmbedModel     string
	EmbedDimension int
	EmbedTimeout   time.Duration
	EmbedFallback  FallbackPolicy

	// Qdrant vector store
	QdrantURL        string
	QdrantCollection string
	QdrantTimeout    time.Duration

	// SurrealDB log store
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Retrieval
	RetrievalCategory string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Defaults target a fully local deployment (Ollama + Qdrant + SurrealDB).
func Load() Config {
	return Config{
		Port: getEnv("PORT", "3000"),

		LLMProvider:     Provider(getEnv("LLM_PROVIDER", string(ProviderOllama))),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		ChatModel:       getEnv("OLLAMA_CHAT_MODEL", "llama3.2:3b"),
		Temperature:     getEnvFloat("AI_TEMPERATURE", 0.7),
		MaxTokens:       getEnvInt("AI_MAX_TOKENS", 512),
		GenerateTimeout: getEnvDuration("AI_TIMEOUT", 5*time.Minute),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		EmbedModel:     getEnv("EMBEDDING_MODEL", "mxbai-embed-large"),
		EmbedDimension: getEnvInt("EMBEDDING_DIM", 1024),
		EmbedTimeout:   getEnvDuration("EMBED_TIMEOUT", 10*time.Second),
		EmbedFallback:  FallbackPolicy(getEnv("EMBED_FALLBACK", string(FallbackHash))),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "ai_logs"),
		QdrantTimeout:    getEnvDuration("QDRANT_TIMEOUT", 10*time.Second),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "argenova"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "mesai"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		RetrievalCategory: getEnv("RETRIEVAL_CATEGORY", "weekly_work_hours"),

		LogFile:  getEnv("MESAI_LOG_FILE", "/tmp/mesai-ai.log"),
		LogLevel: parseLogLevel(getEnv("MESAI_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
