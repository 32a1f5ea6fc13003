package openai

import (
	"context"
	"errors"
	"strings"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

var errEmptyCompletion = errors.New("completion returned no content")

// Generator calls the chat completions API in JSON mode.
type Generator struct {
	client openai.Client
	model  string
}

// Config selects the model and, for proxies and tests, the API base URL.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

func NewGenerator(cfg Config) repository.ITextGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(cfg.MaxRetries)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = string(openai.ChatModelGPT4oMini)
	}
	return &Generator{client: openai.NewClient(opts...), model: modelName}
}

// GenerateJSON returns the raw JSON object text. Transport failures and empty
// completions come back as GenerationError of kind transport.
func (g *Generator) GenerateJSON(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", &model.GenerationError{Kind: model.GenerationTransport, Err: err}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &model.GenerationError{Kind: model.GenerationTransport, Err: errEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}
