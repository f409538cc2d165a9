// Package llm wraps the OpenAI-compatible chat-completion API behind a small
// text-completion interface.  The language model is treated as an opaque text
// generator; everything chemistry-specific happens downstream.
package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// Completion is the usable portion of one chat-completion response.
type Completion struct {
	Text             string
	ModelID          string
	PromptTokens     int
	CompletionTokens int
}

// Client produces free-text completions.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
}

// ClientConfig holds completion-backend parameters.  BaseURL may point at any
// OpenAI-compatible endpoint; empty means the official API.
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	Temperature    float32
	MaxTokens      int
	RequestTimeout time.Duration
}

type openaiClient struct {
	api    *openai.Client
	cfg    ClientConfig
	logger logging.Logger
}

// NewClient constructs a Client over the configured backend.
func NewClient(cfg ClientConfig, logger logging.Logger) Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &openaiClient{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger.Named("llm"),
	}
}

func (c *openaiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCompletionFailed, "chat completion request failed")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errors.New(errors.ErrCodeCompletionEmpty, "completion returned no usable content")
	}

	c.logger.Debug("completion received",
		logging.String("model", resp.Model),
		logging.Int("prompt_tokens", resp.Usage.PromptTokens),
		logging.Int("completion_tokens", resp.Usage.CompletionTokens),
		logging.Duration("elapsed", time.Since(start)),
	)

	return &Completion{
		Text:             resp.Choices[0].Message.Content,
		ModelID:          resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}
