package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/config"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/database"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/handler"
	redispkg "github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/redis"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/storage"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the rate limiter; without it the limiter fails open.
	var rdb *redispkg.Client
	if cfg.RedisURL != "" {
		rdb, err = redispkg.NewClient(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	} else {
		log.Println("Warning: REDIS_URL not set, rate limiting disabled")
	}

	var store storage.Store
	if cfg.GCSBucket != "" {
		store, err = storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			log.Fatalf("Failed to initialize GCS storage: %v", err)
		}
		log.Printf("Using GCS storage bucket %s", cfg.GCSBucket)
	} else {
		store = storage.NewLocalStore(cfg.StoragePath)
		log.Printf("Using local storage at %s", cfg.StoragePath)
	}

	chatModel, err := service.NewChatModel(ctx, &service.LLMConfig{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	})
	if err != nil {
		log.Fatalf("Failed to initialize chat model: %v", err)
	}

	r := handler.SetupRouter(cfg, db, rdb, store, chatModel)

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("DocuRAG API starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
