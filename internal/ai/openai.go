package ai

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "gpt-4o-mini"

var openaiKeyEnv = []string{"OPENAI_API_KEY"}

// OpenAIProvider uses the chat completions API in JSON mode.
type OpenAIProvider struct {
	APIKey  string
	ModelID string
	BaseURL string
}

func init() { register(&OpenAIProvider{}) }

func (o *OpenAIProvider) Name() string     { return "openai" }
func (o *OpenAIProvider) Available() bool  { return o.key() != "" }
func (o *OpenAIProvider) KeyEnv() []string { return openaiKeyEnv }

func (o *OpenAIProvider) Model() string {
	return valueOr(o.ModelID, firstEnv("OPENAI_MODEL"), openaiDefaultModel)
}

func (o *OpenAIProvider) key() string {
	return valueOr(o.APIKey, firstEnv(openaiKeyEnv...))
}

func (o *OpenAIProvider) client(key string) *openai.Client {
	config := openai.DefaultConfig(key)
	if base := valueOr(o.BaseURL, firstEnv("OPENAI_BASE_URL")); base != "" {
		config.BaseURL = base
	}
	config.HTTPClient = httpClient
	return openai.NewClientWithConfig(config)
}

func (o *OpenAIProvider) Generate(ctx context.Context, in GenerateInput) (Result, error) {
	key := o.key()
	if key == "" {
		return Result{}, ErrMissingKey{Provider: o.Name(), Vars: openaiKeyEnv}
	}

	req := openai.ChatCompletionRequest{
		Model:       o.Model(),
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: in.Prompt,
			},
		},
	}
	if in.Schema != nil {
		schema, _ := json.Marshal(in.Schema.JSONSchema())
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
		req.Messages = append([]openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Answer with a single JSON object that validates against this JSON Schema: " + string(schema),
		}}, req.Messages...)
	}

	resp, err := o.client(key).CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, err
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return Result{
		Provider:   o.Name(),
		Text:       trimFences(text),
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
