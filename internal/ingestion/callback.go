package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

// AppClient reports processing outcomes back to the web application's
// webhook.
type AppClient struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewAppClient(baseURL, secret string) *AppClient {
	return &AppClient{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type statusUpdate struct {
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
	ChunkCount   *int   `json:"chunk_count,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (c *AppClient) UpdateStatus(ctx context.Context, documentID uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error {
	if c.baseURL == "" {
		log.Printf("[Callback] APP_BASE_URL not configured, skipping status update for %s", documentID)
		return nil
	}

	body, err := json.Marshal(statusUpdate{
		DocumentID:   documentID.String(),
		Status:       string(status),
		ChunkCount:   chunkCount,
		ErrorMessage: errorMessage,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/process", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Worker-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status update returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
