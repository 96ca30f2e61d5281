// Package worker is the HTTP client for the document processing worker.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewClient(baseURL, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type processRequest struct {
	DocumentID  string `json:"document_id"`
	StoragePath string `json:"storage_path"`
	UserID      string `json:"user_id"`
}

// NotifyProcess asks the worker to ingest a freshly uploaded document.
// Callers treat failures as non-fatal; there is no retry.
func (c *Client) NotifyProcess(ctx context.Context, documentID uuid.UUID, storagePath string, userID uuid.UUID) error {
	body, err := json.Marshal(processRequest{
		DocumentID:  documentID.String(),
		StoragePath: storagePath,
		UserID:      userID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Worker-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("worker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("worker returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
