package ai

import (
	"context"
	"encoding/json"
	"strings"
)

const (
	anthropicDefaultModel   = "claude-sonnet-4-5"
	anthropicDefaultBaseURL = "https://api.anthropic.com/v1/messages"
)

var anthropicKeyEnv = []string{"ANTHROPIC_API_KEY"}

// AnthropicProvider calls the Messages API. It has no native schema mode, so the
// contract is spelled out in the prompt.
type AnthropicProvider struct {
	APIKey  string
	ModelID string
	BaseURL string
}

func init() { register(&AnthropicProvider{}) }

func (a *AnthropicProvider) Name() string     { return "anthropic" }
func (a *AnthropicProvider) Available() bool  { return a.key() != "" }
func (a *AnthropicProvider) KeyEnv() []string { return anthropicKeyEnv }

func (a *AnthropicProvider) Model() string {
	return valueOr(a.ModelID, firstEnv("ANTHROPIC_MODEL"), anthropicDefaultModel)
}

func (a *AnthropicProvider) key() string {
	return valueOr(a.APIKey, firstEnv(anthropicKeyEnv...))
}

func (a *AnthropicProvider) Generate(ctx context.Context, in GenerateInput) (Result, error) {
	key := a.key()
	if key == "" {
		return Result{}, ErrMissingKey{Provider: a.Name(), Vars: anthropicKeyEnv}
	}

	payload := map[string]any{
		"model":       a.Model(),
		"max_tokens":  1024,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "user", "content": buildSchemaPrompt(in)},
		},
	}

	var raw struct {
		Content []struct {
			Text string `json:"text"`
			Type string `json:"type"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	err := doJSON(ctx, "POST", valueOr(a.BaseURL, firstEnv("ANTHROPIC_BASE_URL"), anthropicDefaultBaseURL),
		map[string]string{
			"x-api-key":         key,
			"anthropic-version": "2023-06-01",
		}, payload, &raw)
	if err != nil {
		return Result{}, err
	}

	var builder strings.Builder
	for _, c := range raw.Content {
		if c.Type == "text" {
			builder.WriteString(c.Text)
		}
	}

	return Result{
		Provider:   a.Name(),
		Text:       trimFences(builder.String()),
		TokensUsed: raw.Usage.InputTokens + raw.Usage.OutputTokens,
	}, nil
}

// buildSchemaPrompt appends the JSON Schema to the prompt for providers without a schema parameter.
func buildSchemaPrompt(in GenerateInput) string {
	if in.Schema == nil {
		return in.Prompt
	}
	schema, _ := json.MarshalIndent(in.Schema.JSONSchema(), "", "  ")
	return in.Prompt + "\n\nRespond with ONLY a JSON object (no markdown, no prose) matching this JSON Schema:\n" + string(schema)
}
