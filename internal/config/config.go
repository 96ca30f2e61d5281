package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host        string `mapstructure:"HOST"`
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	Environment string `mapstructure:"ENVIRONMENT"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (rate limiting); empty means the limiter fails open
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	AccessTokenExpireMin int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MIN"`

	// Object storage: GCS when a bucket is set, local disk otherwise
	GCSProjectID   string `mapstructure:"GCP_PROJECT_ID"`
	GCSBucket      string `mapstructure:"GCS_BUCKET"`
	GCSCredentials string `mapstructure:"GCP_SERVICE_ACCOUNT_KEY"`
	StoragePath    string `mapstructure:"STORAGE_PATH"`

	// Embedding service (OpenAI compatible)
	EmbeddingAPIKey     string `mapstructure:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `mapstructure:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `mapstructure:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `mapstructure:"EMBEDDING_DIMENSIONS"`

	// LLM (OpenAI compatible)
	LLMAPIKey      string  `mapstructure:"LLM_API_KEY"`
	LLMBaseURL     string  `mapstructure:"LLM_BASE_URL"`
	LLMModel       string  `mapstructure:"LLM_MODEL"`
	LLMTemperature float64 `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens   int     `mapstructure:"LLM_MAX_TOKENS"`

	// Processing worker
	WorkerPort   string `mapstructure:"WORKER_PORT"`
	WorkerURL    string `mapstructure:"WORKER_URL"`
	WorkerSecret string `mapstructure:"WORKER_SECRET"`
	AppBaseURL   string `mapstructure:"APP_BASE_URL"`

	// Upload limits
	MaxUploadSize int64 `mapstructure:"MAX_UPLOAD_SIZE"`

	// Rate limits (requests per hour, per user)
	UploadRateLimit int `mapstructure:"UPLOAD_RATE_LIMIT"`
	QueryRateLimit  int `mapstructure:"QUERY_RATE_LIMIT"`

	// Retrieval
	TopK                int     `mapstructure:"TOP_K"`
	SimilarityThreshold float64 `mapstructure:"SIMILARITY_THRESHOLD"`
	ChunkSize           int     `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap        int     `mapstructure:"CHUNK_OVERLAP"`

	// Confidence thresholds on mean similarity
	ConfidenceHighThreshold   float64 `mapstructure:"CONFIDENCE_HIGH_THRESHOLD"`
	ConfidenceMediumThreshold float64 `mapstructure:"CONFIDENCE_MEDIUM_THRESHOLD"`

	// Answer drip-feed pacing; 0 disables pacing entirely
	StreamIntervalMs int `mapstructure:"STREAM_INTERVAL_MS"`
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/docurag?sslmode=disable")
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MIN", 60)
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-004")
	viper.SetDefault("EMBEDDING_DIMENSIONS", 768)
	viper.SetDefault("LLM_MODEL", "gemini-1.5-pro")
	viper.SetDefault("LLM_TEMPERATURE", 0.2)
	viper.SetDefault("LLM_MAX_TOKENS", 2048)
	viper.SetDefault("MAX_UPLOAD_SIZE", 50*1024*1024) // 50MB
	viper.SetDefault("UPLOAD_RATE_LIMIT", 10)
	viper.SetDefault("QUERY_RATE_LIMIT", 100)
	viper.SetDefault("TOP_K", 10)
	viper.SetDefault("SIMILARITY_THRESHOLD", 0.7)
	viper.SetDefault("CHUNK_SIZE", 512)
	viper.SetDefault("CHUNK_OVERLAP", 50)
	viper.SetDefault("CONFIDENCE_HIGH_THRESHOLD", 0.85)
	viper.SetDefault("CONFIDENCE_MEDIUM_THRESHOLD", 0.7)
	viper.SetDefault("STREAM_INTERVAL_MS", 30)
	viper.SetDefault("WORKER_PORT", "8081")

	// Try to read .env file (optional)
	_ = viper.ReadInConfig()

	for _, key := range []string{
		"HOST", "PORT", "GIN_MODE", "ENVIRONMENT", "DATABASE_URL", "REDIS_URL",
		"JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MIN",
		"GCP_PROJECT_ID", "GCS_BUCKET", "GCP_SERVICE_ACCOUNT_KEY", "STORAGE_PATH",
		"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
		"LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
		"WORKER_PORT", "WORKER_URL", "WORKER_SECRET", "APP_BASE_URL",
		"MAX_UPLOAD_SIZE", "UPLOAD_RATE_LIMIT", "QUERY_RATE_LIMIT",
		"TOP_K", "SIMILARITY_THRESHOLD", "CHUNK_SIZE", "CHUNK_OVERLAP",
		"CONFIDENCE_HIGH_THRESHOLD", "CONFIDENCE_MEDIUM_THRESHOLD", "STREAM_INTERVAL_MS",
	} {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Environment) == "development"
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}
