package ingestion

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/storage"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

// embedBatchSize bounds how many chunks are sent to the embedding API per
// request.
const embedBatchSize = 100

type chunkWriter interface {
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, chunks []model.Chunk) error
}

type statusReporter interface {
	UpdateStatus(ctx context.Context, documentID uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error
}

// Processor runs the ingestion pipeline for one uploaded document:
// download, extract, chunk, embed, store, report.
type Processor struct {
	store        storage.Store
	embedder     service.Embedder
	chunks       chunkWriter
	reporter     statusReporter
	chunkSize    int
	chunkOverlap int
}

func NewProcessor(store storage.Store, embedder service.Embedder, chunks chunkWriter, reporter statusReporter, chunkSize, chunkOverlap int) *Processor {
	return &Processor{
		store:        store,
		embedder:     embedder,
		chunks:       chunks,
		reporter:     reporter,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Process ingests one document and reports the outcome to the web app.
// The status callback is best-effort in both directions: a callback
// failure never changes the processing result.
func (p *Processor) Process(ctx context.Context, documentID, userID uuid.UUID, storagePath string) (int, error) {
	count, err := p.process(ctx, documentID, userID, storagePath)
	if err != nil {
		if reportErr := p.reporter.UpdateStatus(ctx, documentID, model.DocumentStatusFailed, nil, err.Error()); reportErr != nil {
			log.Printf("[Process] Failed to report failure for document %s: %v", documentID, reportErr)
		}
		return 0, err
	}

	if reportErr := p.reporter.UpdateStatus(ctx, documentID, model.DocumentStatusReady, &count, ""); reportErr != nil {
		log.Printf("[Process] Failed to report completion for document %s: %v", documentID, reportErr)
	}
	return count, nil
}

func (p *Processor) process(ctx context.Context, documentID, userID uuid.UUID, storagePath string) (int, error) {
	rc, err := p.store.Open(ctx, storagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to download document: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to read document: %w", err)
	}
	log.Printf("[Process] Downloaded document %s: %d bytes", documentID, len(data))

	pages, err := ExtractText(storagePath, data)
	if err != nil {
		return 0, err
	}

	pieces := SplitPages(pages, p.chunkSize, p.chunkOverlap)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("no text content extracted from document")
	}
	log.Printf("[Process] Created %d chunks from %d pages", len(pieces), len(pages))

	embeddings, err := p.embedAll(ctx, pieces)
	if err != nil {
		return 0, err
	}

	chunks := make([]model.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = model.Chunk{
			DocumentID: documentID,
			UserID:     userID,
			Content:    piece.Text,
			ChunkIndex: piece.Index,
			Page:       piece.Page,
			VectorID:   uuid.New().String(),
			Embedding:  embeddings[i],
		}
	}

	if err := p.chunks.ReplaceForDocument(ctx, documentID, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(chunks), nil
}

func (p *Processor) embedAll(ctx context.Context, pieces []Piece) ([]pgvector.Vector, error) {
	embeddings := make([]pgvector.Vector, 0, len(pieces))
	for start := 0; start < len(pieces); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pieces) {
			end = len(pieces)
		}

		texts := make([]string, 0, end-start)
		for _, piece := range pieces[start:end] {
			texts = append(texts, piece.Text)
		}

		batch, err := p.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding API returned %d vectors for %d texts", len(batch), len(texts))
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}
