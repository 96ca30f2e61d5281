package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authAs injects an already-authenticated user, standing in for the JWT
// middleware.
func authAs(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func testUser() *model.User {
	user := &model.User{ExternalID: "ext-1", Email: "user@example.com"}
	user.ID = uuid.New()
	return user
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, userID uuid.UUID, op string) service.Decision {
	return service.Decision{Allowed: true, Limit: 100, Remaining: 99, ResetAt: time.Now().Add(time.Hour)}
}

type denyLimiter struct {
	resetAt time.Time
}

func (d denyLimiter) Allow(ctx context.Context, userID uuid.UUID, op string) service.Decision {
	return service.Decision{Allowed: false, Limit: 100, Remaining: 0, ResetAt: d.resetAt}
}

type fakeQueryRunner struct {
	result *service.QueryResult
	err    error
}

func (f *fakeQueryRunner) Ask(ctx context.Context, userID uuid.UUID, question string, documentIDs []uuid.UUID) (*service.QueryResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeQueryHistory struct {
	queries []model.Query
}

func (f *fakeQueryHistory) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Query, int64, error) {
	return f.queries, int64(len(f.queries)), nil
}

func queryRouter(user *model.User, runner queryRunner, limiter rateLimiter) *gin.Engine {
	h := NewQueryHandler(runner, &fakeQueryHistory{}, limiter, 0)
	r := gin.New()
	r.POST("/query", authAs(user), h.Query)
	r.GET("/queries", authAs(user), h.History)
	return r
}

func TestQueryStreamsAnswerWithTrailers(t *testing.T) {
	docID := uuid.New()
	runner := &fakeQueryRunner{result: &service.QueryResult{
		QueryID: uuid.New(),
		Answer:  "The warranty covers parts and labor.",
		Sources: []model.Source{{
			DocumentID: docID,
			ChunkID:    uuid.New(),
			Score:      0.9,
			Page:       3,
			Text:       "The warranty covers parts and labor.",
			FileName:   "warranty.pdf",
		}},
		Confidence: model.ConfidenceHigh,
	}}

	r := queryRouter(testUser(), runner, allowAllLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"What does the warranty cover?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	lines := strings.Split(body, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "The warranty covers parts and labor.", lines[0])

	require.True(t, strings.HasPrefix(lines[1], sourcesMarker))
	var sources []model.Source
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], sourcesMarker)), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, docID, sources[0].DocumentID)
	assert.Equal(t, "warranty.pdf", sources[0].FileName)

	assert.Equal(t, confidenceMarker+"High", lines[2])
}

func TestQueryStreamsEmptySources(t *testing.T) {
	runner := &fakeQueryRunner{result: &service.QueryResult{
		Answer:     "I couldn't find any relevant information.",
		Sources:    nil,
		Confidence: model.ConfidenceLow,
	}}

	r := queryRouter(testUser(), runner, allowAllLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"Anything?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, sourcesMarker+"[]", lines[1])
	assert.Equal(t, confidenceMarker+"Low", lines[2])
}

func TestQueryRateLimited(t *testing.T) {
	resetAt := time.Now().Add(30 * time.Minute)
	r := queryRouter(testUser(), &fakeQueryRunner{}, denyLimiter{resetAt: resetAt})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"Anything?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rate limit exceeded", resp["error"])
}

func TestQueryMissingQuestion(t *testing.T) {
	r := queryRouter(testUser(), &fakeQueryRunner{}, allowAllLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEmptyQuestionRejected(t *testing.T) {
	r := queryRouter(testUser(), &fakeQueryRunner{err: service.ErrEmptyQuery}, allowAllLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryInvalidDocumentID(t *testing.T) {
	r := queryRouter(testUser(), &fakeQueryRunner{}, allowAllLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"ok","document_ids":["not-a-uuid"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryHistory(t *testing.T) {
	user := testUser()
	history := &fakeQueryHistory{queries: []model.Query{
		{UserID: user.ID, Question: "q1", Answer: "a1", Confidence: model.ConfidenceHigh},
	}}
	h := NewQueryHandler(&fakeQueryRunner{}, history, allowAllLimiter{}, 0)
	r := gin.New()
	r.GET("/queries", authAs(user), h.History)

	req := httptest.NewRequest(http.MethodGet, "/queries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Queries []model.Query `json:"queries"`
		Total   int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Queries, 1)
	assert.Equal(t, "q1", resp.Queries[0].Question)
}
