package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/config"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/middleware"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/jwt"
	redispkg "github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/redis"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/storage"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/worker"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/repository"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, rdb *redispkg.Client, store storage.Store, chatModel service.ChatModel) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	// Health check endpoints
	r.GET("/health", healthCheck)
	r.GET("/ready", readinessCheck)
	r.GET("/live", livenessCheck)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "DocuRAG API",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	chunkRepo := repository.NewChunkRepository(db)
	queryRepo := repository.NewQueryRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	// Initialize services
	embeddingSvc := service.NewEmbeddingService(
		cfg.EmbeddingAPIKey,
		cfg.EmbeddingBaseURL,
		cfg.EmbeddingModel,
		cfg.EmbeddingDimensions,
	)
	vectorSearchSvc := service.NewVectorSearchService(db)
	querySvc := service.NewQueryService(embeddingSvc, vectorSearchSvc, chatModel, documentRepo, queryRepo, service.QueryOptions{
		TopK:                cfg.TopK,
		SimilarityThreshold: cfg.SimilarityThreshold,
		HighThreshold:       cfg.ConfidenceHighThreshold,
		MediumThreshold:     cfg.ConfidenceMediumThreshold,
	})

	var documentSvc *service.DocumentService
	if cfg.WorkerURL != "" {
		notifier := worker.NewClient(cfg.WorkerURL, cfg.WorkerSecret)
		documentSvc = service.NewDocumentService(documentRepo, chunkRepo, collectionRepo, store, notifier, cfg.MaxUploadSize)
	} else {
		log.Printf("[Router] WORKER_URL not configured, uploads will stay in processing")
		documentSvc = service.NewDocumentService(documentRepo, chunkRepo, collectionRepo, store, nil, cfg.MaxUploadSize)
	}
	collectionSvc := service.NewCollectionService(collectionRepo, documentRepo)
	limiter := service.NewRateLimiter(rdb, cfg.UploadRateLimit, cfg.QueryRateLimit)

	if cfg.WorkerSecret == "" && !cfg.IsDevelopment() {
		log.Printf("[Router] WARNING: WORKER_SECRET is not set outside development; the processing webhook is unauthenticated")
	}

	// Initialize handlers
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.AccessTokenExpireMin)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	documentHandler := NewDocumentHandler(documentSvc, limiter)
	queryHandler := NewQueryHandler(querySvc, queryRepo, limiter, time.Duration(cfg.StreamIntervalMs)*time.Millisecond)
	webhookHandler := NewWebhookHandler(documentSvc, cfg.WorkerSecret, cfg.IsProduction())
	collectionHandler := NewCollectionHandler(collectionSvc)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Processing webhook, authenticated by shared secret rather than a
		// user token.
		v1.POST("/process", webhookHandler.Process)

		authed := v1.Group("")
		authed.Use(authMiddleware.JWTAuth())
		{
			documents := authed.Group("/documents")
			{
				documents.POST("", documentHandler.Upload)
				documents.GET("", documentHandler.List)
				documents.GET("/:id", documentHandler.Get)
				documents.DELETE("/:id", documentHandler.Delete)
			}

			authed.POST("/query", queryHandler.Query)
			authed.GET("/queries", queryHandler.History)

			collections := authed.Group("/collections")
			{
				collections.GET("", collectionHandler.List)
				collections.POST("", collectionHandler.Create)
				collections.GET("/:id", collectionHandler.Get)
				collections.PUT("/:id", collectionHandler.Update)
				collections.DELETE("/:id", collectionHandler.Delete)
				collections.GET("/:id/documents", collectionHandler.Documents)
				collections.POST("/:id/documents/:doc_id", collectionHandler.AddDocument)
				collections.DELETE("/:id/documents/:doc_id", collectionHandler.RemoveDocument)
			}
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "docurag",
	})
}

func readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
