package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/config"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/database"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/ingestion"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/storage"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/repository"
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

	var store storage.Store
	if cfg.GCSBucket != "" {
		store, err = storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			log.Fatalf("Failed to initialize GCS storage: %v", err)
		}
	} else {
		store = storage.NewLocalStore(cfg.StoragePath)
	}

	embedder := service.NewEmbeddingService(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	chunkRepo := repository.NewChunkRepository(db)
	reporter := ingestion.NewAppClient(cfg.AppBaseURL, cfg.WorkerSecret)

	processor := ingestion.NewProcessor(store, embedder, chunkRepo, reporter, cfg.ChunkSize, cfg.ChunkOverlap)
	h := ingestion.NewHandler(processor, cfg.WorkerSecret)

	r := ingestion.SetupRouter(h)

	addr := cfg.Host + ":" + cfg.WorkerPort
	log.Printf("DocuRAG worker starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
}
