package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

type fakeProcessingUpdater struct {
	err        error
	docID      uuid.UUID
	status     model.DocumentStatus
	chunkCount *int
	errorMsg   string
	calls      int
}

func (f *fakeProcessingUpdater) ApplyProcessingUpdate(ctx context.Context, id uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.docID = id
	f.status = status
	f.chunkCount = chunkCount
	f.errorMsg = errorMessage
	return nil
}

func webhookRouter(svc processingUpdater, secret string, production bool) *gin.Engine {
	h := NewWebhookHandler(svc, secret, production)
	r := gin.New()
	r.POST("/process", h.Process)
	return r
}

func postProcess(r *gin.Engine, body, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Worker-Secret", secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookUpdatesStatus(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "s3cret", false)

	docID := uuid.New()
	w := postProcess(r, `{"document_id":"`+docID.String()+`","status":"ready","chunk_count":17}`, "s3cret")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, docID, svc.docID)
	assert.Equal(t, model.DocumentStatusReady, svc.status)
	require.NotNil(t, svc.chunkCount)
	assert.Equal(t, 17, *svc.chunkCount)
}

func TestWebhookFailureReport(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "", false)

	docID := uuid.New()
	w := postProcess(r, `{"document_id":"`+docID.String()+`","status":"failed","error_message":"corrupted file"}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.DocumentStatusFailed, svc.status)
	assert.Equal(t, "corrupted file", svc.errorMsg)
	assert.Nil(t, svc.chunkCount)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "s3cret", false)

	w := postProcess(r, `{"document_id":"`+uuid.New().String()+`","status":"ready"}`, "wrong")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, svc.calls)
}

func TestWebhookRejectsMissingSecret(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "s3cret", false)

	w := postProcess(r, `{"document_id":"`+uuid.New().String()+`","status":"ready"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, svc.calls)
}

func TestWebhookProductionRequiresConfiguredSecret(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "", true)

	w := postProcess(r, `{"document_id":"`+uuid.New().String()+`","status":"ready"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
	assert.Zero(t, svc.calls)
}

func TestWebhookInvalidStatus(t *testing.T) {
	svc := &fakeProcessingUpdater{err: service.ErrInvalidStatus}
	r := webhookRouter(svc, "", false)

	w := postProcess(r, `{"document_id":"`+uuid.New().String()+`","status":"exploded"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookUnknownDocument(t *testing.T) {
	svc := &fakeProcessingUpdater{err: service.ErrNotFound}
	r := webhookRouter(svc, "", false)

	w := postProcess(r, `{"document_id":"`+uuid.New().String()+`","status":"ready"}`, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookMalformedBody(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "", false)

	w := postProcess(r, `{"status":"ready"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestWebhookInvalidDocumentID(t *testing.T) {
	svc := &fakeProcessingUpdater{}
	r := webhookRouter(svc, "", false)

	w := postProcess(r, `{"document_id":"not-a-uuid","status":"ready"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}
