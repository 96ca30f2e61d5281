package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

const (
	// noInfoAnswer is the fixed response when retrieval finds nothing above
	// the similarity threshold.
	noInfoAnswer = "I couldn't find any relevant information in your documents to answer this question. Please try rephrasing your question or upload more relevant documents."

	// sourceExcerptLen bounds the excerpt persisted per cited source.
	sourceExcerptLen = 300

	systemPrompt = `You are a helpful document assistant that answers questions based solely on the provided context.

Instructions:
1. Only use information from the provided sources to answer questions
2. If the answer is not in the sources, clearly state that you cannot find the information
3. Cite sources using [Source N] format when using information from them
4. Be concise but comprehensive
5. If sources conflict, mention the discrepancy
6. Never make up or hallucinate information`
)

type documentNamer interface {
	FileNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type queryRecorder interface {
	Create(ctx context.Context, query *model.Query) error
}

type QueryOptions struct {
	TopK                int
	SimilarityThreshold float64
	HighThreshold       float64
	MediumThreshold     float64
}

// QueryResult is the fully computed outcome of one question. Streaming of
// the answer is a presentation concern owned by the handler.
type QueryResult struct {
	QueryID    uuid.UUID
	Answer     string
	Sources    []model.Source
	Confidence model.Confidence
	Tokens     int
	LatencyMs  int64
}

// QueryService orchestrates the retrieval-augmented answer pipeline:
// embed the question, search the caller's chunk namespace, assemble a
// context block, generate, run the grounding heuristic, derive a
// confidence label, and persist the interaction.
type QueryService struct {
	embedder  Embedder
	searcher  Searcher
	chatModel ChatModel
	docRepo   documentNamer
	queryRepo queryRecorder
	opts      QueryOptions
}

func NewQueryService(embedder Embedder, searcher Searcher, chatModel ChatModel, docRepo documentNamer, queryRepo queryRecorder, opts QueryOptions) *QueryService {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = 0.7
	}
	if opts.HighThreshold == 0 {
		opts.HighThreshold = 0.85
	}
	if opts.MediumThreshold == 0 {
		opts.MediumThreshold = 0.7
	}
	return &QueryService{
		embedder:  embedder,
		searcher:  searcher,
		chatModel: chatModel,
		docRepo:   docRepo,
		queryRepo: queryRepo,
		opts:      opts,
	}
}

func (s *QueryService) Ask(ctx context.Context, userID uuid.UUID, question string, documentIDs []uuid.UUID) (*QueryResult, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	matches, err := s.searcher.Search(ctx, &VectorSearchRequest{
		UserID:      userID,
		Embedding:   embedding,
		DocumentIDs: documentIDs,
		TopK:        s.opts.TopK,
		Threshold:   s.opts.SimilarityThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	if len(matches) == 0 {
		return s.persistResult(ctx, userID, question, documentIDs, &QueryResult{
			Answer:     noInfoAnswer,
			Sources:    []model.Source{},
			Confidence: model.ConfidenceLow,
			Tokens:     0,
			LatencyMs:  time.Since(start).Milliseconds(),
		})
	}

	log.Printf("[Query] Found %d relevant chunks for user %s", len(matches), userID)

	fileNames, err := s.lookupFileNames(ctx, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source documents: %w", err)
	}

	contextText := buildContext(matches)

	userPrompt := fmt.Sprintf(`Context from documents:
%s

Question: %s

Please provide a clear, accurate answer based only on the sources above.`, contextText, question)

	resp, err := s.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generate failed: %w", err)
	}
	answer := resp.Content

	var meanScore float64
	for _, m := range matches {
		meanScore += m.Similarity
	}
	meanScore /= float64(len(matches))

	confidence := ConfidenceFromScore(meanScore, s.opts.HighThreshold, s.opts.MediumThreshold)
	if CheckHallucination(answer, contextText) || AnswerAdmitsNoInfo(answer) {
		confidence = model.ConfidenceLow
	}

	sources := make([]model.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, model.Source{
			DocumentID: m.Chunk.DocumentID,
			ChunkID:    m.Chunk.ID,
			Score:      m.Similarity,
			Page:       m.Chunk.Page,
			Text:       excerpt(m.Chunk.Content, sourceExcerptLen),
			FileName:   fileNames[m.Chunk.DocumentID],
		})
	}

	return s.persistResult(ctx, userID, question, documentIDs, &QueryResult{
		Answer:     answer,
		Sources:    sources,
		Confidence: confidence,
		Tokens:     EstimateTokens(answer),
		LatencyMs:  time.Since(start).Milliseconds(),
	})
}

// persistResult writes the Query row and stamps the result with its id. The
// row is written exactly once, after the answer is fully computed; a failed
// write fails the whole operation.
func (s *QueryService) persistResult(ctx context.Context, userID uuid.UUID, question string, documentIDs []uuid.UUID, result *QueryResult) (*QueryResult, error) {
	scoped := make(model.StringArray, 0, len(documentIDs))
	for _, id := range documentIDs {
		scoped = append(scoped, id.String())
	}

	record := &model.Query{
		UserID:      userID,
		Question:    question,
		Answer:      result.Answer,
		Sources:     model.SourceList(result.Sources),
		Confidence:  result.Confidence,
		TokenCount:  result.Tokens,
		LatencyMs:   result.LatencyMs,
		DocumentIDs: scoped,
	}

	if err := s.queryRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist query: %w", err)
	}

	result.QueryID = record.ID
	return result, nil
}

func (s *QueryService) lookupFileNames(ctx context.Context, matches []ChunkMatch) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, m := range matches {
		if !seen[m.Chunk.DocumentID] {
			seen[m.Chunk.DocumentID] = true
			ids = append(ids, m.Chunk.DocumentID)
		}
	}
	return s.docRepo.FileNamesByIDs(ctx, ids)
}

// buildContext labels each retrieved passage by source index and page, the
// same layout the system prompt tells the model to cite.
func buildContext(matches []ChunkMatch) string {
	parts := make([]string, 0, len(matches))
	for i, m := range matches {
		pageInfo := ""
		if m.Chunk.Page > 0 {
			pageInfo = fmt.Sprintf(" (Page %d)", m.Chunk.Page)
		}
		parts = append(parts, fmt.Sprintf("[Source %d]%s:\n%s", i+1, pageInfo, m.Chunk.Content))
	}
	return strings.Join(parts, "\n\n")
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
