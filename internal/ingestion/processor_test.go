package ingestion

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type stubEmbedder struct {
	err   error
	calls [][]string
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector([]float32{0.1}), s.err
}

func (s *stubEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, texts)
	out := make([]pgvector.Vector, len(texts))
	for i := range texts {
		out[i] = pgvector.NewVector([]float32{float32(i)})
	}
	return out, nil
}

type capturingChunkWriter struct {
	docID  uuid.UUID
	chunks []model.Chunk
	err    error
}

func (c *capturingChunkWriter) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, chunks []model.Chunk) error {
	if c.err != nil {
		return c.err
	}
	c.docID = documentID
	c.chunks = chunks
	return nil
}

type capturingReporter struct {
	status     model.DocumentStatus
	chunkCount *int
	errorMsg   string
}

func (c *capturingReporter) UpdateStatus(ctx context.Context, documentID uuid.UUID, status model.DocumentStatus, chunkCount *int, errorMessage string) error {
	c.status = status
	c.chunkCount = chunkCount
	c.errorMsg = errorMessage
	return nil
}

func TestProcessStoresChunksAndReportsReady(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{
		"u/d/notes.txt": []byte("alpha beta gamma delta epsilon zeta eta theta"),
	}}
	writer := &capturingChunkWriter{}
	reporter := &capturingReporter{}
	p := NewProcessor(store, &stubEmbedder{}, writer, reporter, 3, 1)

	docID := uuid.New()
	userID := uuid.New()
	count, err := p.Process(context.Background(), docID, userID, "u/d/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, len(writer.chunks), count)
	require.NotEmpty(t, writer.chunks)

	assert.Equal(t, docID, writer.docID)
	for i, chunk := range writer.chunks {
		assert.Equal(t, docID, chunk.DocumentID)
		assert.Equal(t, userID, chunk.UserID)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, 1, chunk.Page)
		assert.NotEmpty(t, chunk.VectorID)
		assert.NotEmpty(t, chunk.Content)
	}

	assert.Equal(t, model.DocumentStatusReady, reporter.status)
	require.NotNil(t, reporter.chunkCount)
	assert.Equal(t, count, *reporter.chunkCount)
}

func TestProcessReportsFailureOnMissingObject(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	reporter := &capturingReporter{}
	p := NewProcessor(store, &stubEmbedder{}, &capturingChunkWriter{}, reporter, 512, 50)

	_, err := p.Process(context.Background(), uuid.New(), uuid.New(), "u/d/missing.txt")
	require.Error(t, err)
	assert.Equal(t, model.DocumentStatusFailed, reporter.status)
	assert.NotEmpty(t, reporter.errorMsg)
}

func TestProcessReportsFailureOnEmptyDocument(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{
		"u/d/empty.txt": []byte("   \n  "),
	}}
	reporter := &capturingReporter{}
	p := NewProcessor(store, &stubEmbedder{}, &capturingChunkWriter{}, reporter, 512, 50)

	_, err := p.Process(context.Background(), uuid.New(), uuid.New(), "u/d/empty.txt")
	require.Error(t, err)
	assert.Equal(t, model.DocumentStatusFailed, reporter.status)
}

func TestProcessReportsFailureOnEmbeddingError(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{
		"u/d/notes.txt": []byte("some words to embed"),
	}}
	reporter := &capturingReporter{}
	p := NewProcessor(store, &stubEmbedder{err: errors.New("quota exceeded")}, &capturingChunkWriter{}, reporter, 512, 50)

	_, err := p.Process(context.Background(), uuid.New(), uuid.New(), "u/d/notes.txt")
	require.Error(t, err)
	assert.Equal(t, model.DocumentStatusFailed, reporter.status)
	assert.Contains(t, reporter.errorMsg, "quota exceeded")
}

func TestProcessBatchesEmbeddingRequests(t *testing.T) {
	// 250 single-word chunks require three embedding calls at batch size 100.
	var sb strings.Builder
	for i := 0; i < 250; i++ {
		sb.WriteString("word ")
	}
	store := &memoryStore{objects: map[string][]byte{
		"u/d/long.txt": []byte(sb.String()),
	}}
	embedder := &stubEmbedder{}
	p := NewProcessor(store, embedder, &capturingChunkWriter{}, &capturingReporter{}, 1, 0)

	count, err := p.Process(context.Background(), uuid.New(), uuid.New(), "u/d/long.txt")
	require.NoError(t, err)
	assert.Equal(t, 250, count)
	require.Len(t, embedder.calls, 3)
	assert.Len(t, embedder.calls[0], 100)
	assert.Len(t, embedder.calls[1], 100)
	assert.Len(t, embedder.calls[2], 50)
}
