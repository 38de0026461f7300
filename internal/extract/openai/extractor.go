// Package openai implements extract.Extractor using OpenAI-compatible chat
// APIs via langchaingo.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/frknlke/eluvium-backend/internal/extract"
)

// Defaults for the extraction call, matching the schema contract
const (
	DefaultModel       = "gpt-4.1"
	defaultTemperature = 0.67
	defaultMaxTokens   = 2048
)

// Config holds the settings for the OpenAI extraction client
type Config struct {
	// Token is the API key. Required unless the endpoint is a local
	// OpenAI-compatible service.
	Token string
	// BaseURL overrides the API endpoint. Empty means the public API.
	BaseURL string
	// Model names the chat model. Empty means DefaultModel.
	Model string
}

// Extractor calls a chat model with a fixed schema prompt and decodes the
// JSON answer into a SalesOrder.
type Extractor struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// New creates an Extractor from config. The logger may be nil.
func New(cfg Config, logger *slog.Logger) (*Extractor, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.Token),
		openai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		client: client,
		model:  model,
		logger: logger.With(slog.String("component", "openai-extractor")),
	}, nil
}

// ModelVersion returns the configured model name
func (e *Extractor) ModelVersion() string {
	return e.model
}

// Extract sends the email context to the model and decodes the structured
// answer. Malformed output is reported as extract.ErrMalformedResponse; no
// retries happen here, retry policy belongs to the orchestrator.
func (e *Extractor) Extract(ctx context.Context, text string) (*extract.SalesOrder, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(defaultTemperature),
		llms.WithMaxTokens(defaultMaxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("%w: no choices returned", extract.ErrMalformedResponse)
	}

	responseText := trimCodeFences(response.Choices[0].Content)

	var order extract.SalesOrder
	if err := json.Unmarshal([]byte(responseText), &order); err != nil {
		e.logger.Warn("error parsing extraction response",
			slog.String("response", responseText),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", extract.ErrMalformedResponse, err)
	}

	if err := extract.ValidateAndNormalize(&order); err != nil {
		e.logger.Warn("extraction response failed schema validation", slog.Any("error", err))
		return nil, err
	}

	return &order, nil
}

// trimCodeFences strips markdown code fences some models wrap around JSON
func trimCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
