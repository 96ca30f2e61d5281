package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is the slice of eino's chat model surface the query pipeline
// needs. Satisfied by any eino model implementation and by test fakes.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewChatModel builds the OpenAI-compatible chat model used for answer
// generation. Temperature is kept low for factuality.
func NewChatModel(ctx context.Context, cfg *LLMConfig) (ChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is nil")
	}

	temperature := float32(cfg.Temperature)
	maxTokens := cfg.MaxTokens

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
}
