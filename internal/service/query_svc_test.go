package service

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type fakeEmbedder struct {
	vector pgvector.Vector
	err    error
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return f.vector, f.err
}

func (f *fakeEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	out := make([]pgvector.Vector, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, f.err
}

type fakeSearcher struct {
	matches []ChunkMatch
	lastReq *VectorSearchRequest
}

func (f *fakeSearcher) Search(ctx context.Context, req *VectorSearchRequest) ([]ChunkMatch, error) {
	f.lastReq = req
	return f.matches, nil
}

type fakeChatModel struct {
	answer     string
	err        error
	lastPrompt []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.lastPrompt = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.answer, nil), nil
}

type fakeNamer struct {
	names map[uuid.UUID]string
}

func (f *fakeNamer) FileNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return f.names, nil
}

type fakeRecorder struct {
	saved *model.Query
	err   error
}

func (f *fakeRecorder) Create(ctx context.Context, query *model.Query) error {
	if f.err != nil {
		return f.err
	}
	query.ID = uuid.New()
	f.saved = query
	return nil
}

func match(docID uuid.UUID, content string, page int, similarity float64) ChunkMatch {
	chunk := model.Chunk{DocumentID: docID, Content: content, Page: page}
	chunk.ID = uuid.New()
	return ChunkMatch{Chunk: chunk, Similarity: similarity}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := NewQueryService(&fakeEmbedder{}, &fakeSearcher{}, &fakeChatModel{}, &fakeNamer{}, &fakeRecorder{}, QueryOptions{})

	_, err := svc.Ask(context.Background(), uuid.New(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAskNoRelevantChunks(t *testing.T) {
	recorder := &fakeRecorder{}
	searcher := &fakeSearcher{}
	svc := NewQueryService(&fakeEmbedder{}, searcher, &fakeChatModel{}, &fakeNamer{}, recorder, QueryOptions{})

	userID := uuid.New()
	result, err := svc.Ask(context.Background(), userID, "What is the refund policy?", nil)
	require.NoError(t, err)

	assert.Equal(t, noInfoAnswer, result.Answer)
	assert.Equal(t, model.ConfidenceLow, result.Confidence)
	assert.Empty(t, result.Sources)
	assert.Zero(t, result.Tokens)

	require.NotNil(t, recorder.saved)
	assert.Equal(t, userID, recorder.saved.UserID)
	assert.Equal(t, noInfoAnswer, recorder.saved.Answer)
	assert.Equal(t, model.ConfidenceLow, recorder.saved.Confidence)
	assert.Len(t, recorder.saved.Sources, 0)
	assert.Equal(t, result.QueryID, recorder.saved.ID)

	require.NotNil(t, searcher.lastReq)
	assert.Equal(t, 10, searcher.lastReq.TopK)
	assert.InDelta(t, 0.7, searcher.lastReq.Threshold, 1e-9)
}

func TestAskHighConfidenceAnswer(t *testing.T) {
	docID := uuid.New()
	searcher := &fakeSearcher{matches: []ChunkMatch{
		match(docID, "The warranty covers parts and labor.", 3, 0.9),
		match(docID, "Warranty claims go through support.", 4, 0.88),
	}}
	chat := &fakeChatModel{answer: "The warranty covers parts and labor [Source 1]."}
	recorder := &fakeRecorder{}
	namer := &fakeNamer{names: map[uuid.UUID]string{docID: "warranty.pdf"}}

	svc := NewQueryService(&fakeEmbedder{}, searcher, chat, namer, recorder, QueryOptions{})

	result, err := svc.Ask(context.Background(), uuid.New(), "What does the warranty cover?", nil)
	require.NoError(t, err)

	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	assert.Equal(t, chat.answer, result.Answer)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, docID, result.Sources[0].DocumentID)
	assert.Equal(t, "warranty.pdf", result.Sources[0].FileName)
	assert.Equal(t, 3, result.Sources[0].Page)
	assert.InDelta(t, 0.9, result.Sources[0].Score, 1e-9)
	assert.Positive(t, result.Tokens)

	// Prompt layout: system instructions then the labeled context block.
	require.Len(t, chat.lastPrompt, 2)
	assert.Equal(t, schema.System, chat.lastPrompt[0].Role)
	assert.Contains(t, chat.lastPrompt[1].Content, "[Source 1] (Page 3):")
	assert.Contains(t, chat.lastPrompt[1].Content, "What does the warranty cover?")
}

func TestAskHallucinationForcesLow(t *testing.T) {
	docID := uuid.New()
	searcher := &fakeSearcher{matches: []ChunkMatch{
		match(docID, "Revenue increased during the fiscal year.", 1, 0.95),
	}}
	// The number 73% appears nowhere in the retrieved context.
	chat := &fakeChatModel{answer: "Revenue increased by 73% during the fiscal year."}
	recorder := &fakeRecorder{}

	svc := NewQueryService(&fakeEmbedder{}, searcher, chat, &fakeNamer{}, recorder, QueryOptions{})

	result, err := svc.Ask(context.Background(), uuid.New(), "How much did revenue grow?", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceLow, result.Confidence)
}

func TestAskNoInfoAdmissionForcesLow(t *testing.T) {
	docID := uuid.New()
	searcher := &fakeSearcher{matches: []ChunkMatch{
		match(docID, "Chapter one covers installation steps.", 1, 0.9),
	}}
	chat := &fakeChatModel{answer: "I cannot find the information in the provided sources."}

	svc := NewQueryService(&fakeEmbedder{}, searcher, chat, &fakeNamer{}, &fakeRecorder{}, QueryOptions{})

	result, err := svc.Ask(context.Background(), uuid.New(), "What is the uninstall procedure?", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceLow, result.Confidence)
}

func TestAskMediumConfidence(t *testing.T) {
	docID := uuid.New()
	searcher := &fakeSearcher{matches: []ChunkMatch{
		match(docID, "The onboarding guide explains account setup.", 1, 0.78),
		match(docID, "Account setup requires an admin invite.", 2, 0.72),
	}}
	chat := &fakeChatModel{answer: "Account setup requires an admin invite [Source 2]."}

	svc := NewQueryService(&fakeEmbedder{}, searcher, chat, &fakeNamer{}, &fakeRecorder{}, QueryOptions{})

	result, err := svc.Ask(context.Background(), uuid.New(), "How do I set up an account?", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceMedium, result.Confidence)
}

func TestAskSourceExcerptBounded(t *testing.T) {
	docID := uuid.New()
	long := make([]byte, 0, 1000)
	for i := 0; i < 100; i++ {
		long = append(long, "repeated y "...)
	}
	searcher := &fakeSearcher{matches: []ChunkMatch{
		match(docID, string(long), 1, 0.9),
	}}
	chat := &fakeChatModel{answer: "The text is repeated."}

	svc := NewQueryService(&fakeEmbedder{}, searcher, chat, &fakeNamer{}, &fakeRecorder{}, QueryOptions{})

	result, err := svc.Ask(context.Background(), uuid.New(), "What does it say?", nil)
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)
	assert.Len(t, []rune(result.Sources[0].Text), sourceExcerptLen)
}

func TestAskScopedDocumentIDsPersisted(t *testing.T) {
	recorder := &fakeRecorder{}
	searcher := &fakeSearcher{}
	svc := NewQueryService(&fakeEmbedder{}, searcher, &fakeChatModel{}, &fakeNamer{}, recorder, QueryOptions{})

	scope := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := svc.Ask(context.Background(), uuid.New(), "Anything?", scope)
	require.NoError(t, err)

	assert.Equal(t, scope, searcher.lastReq.DocumentIDs)
	require.Len(t, recorder.saved.DocumentIDs, 2)
	assert.Equal(t, scope[0].String(), recorder.saved.DocumentIDs[0])
}

func TestAskPersistFailureFailsRequest(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("db down")}
	svc := NewQueryService(&fakeEmbedder{}, &fakeSearcher{}, &fakeChatModel{}, &fakeNamer{}, recorder, QueryOptions{})

	_, err := svc.Ask(context.Background(), uuid.New(), "Anything?", nil)
	assert.Error(t, err)
}
