package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	geminiDefaultModel   = "gemini-2.5-flash"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

var geminiKeyEnv = []string{"GEMINI_API_KEY", "API_KEY"}

// GeminiProvider calls the Gemini generateContent endpoint with a response schema.
// Empty fields fall back to GEMINI_* environment variables at call time.
type GeminiProvider struct {
	APIKey  string
	ModelID string
	BaseURL string
}

func init() { register(&GeminiProvider{}) }

func (g *GeminiProvider) Name() string     { return "gemini" }
func (g *GeminiProvider) Available() bool  { return g.key() != "" }
func (g *GeminiProvider) KeyEnv() []string { return geminiKeyEnv }

func (g *GeminiProvider) Model() string {
	return valueOr(g.ModelID, firstEnv("GEMINI_MODEL"), geminiDefaultModel)
}

func (g *GeminiProvider) key() string {
	return valueOr(g.APIKey, firstEnv(geminiKeyEnv...))
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *GeminiProvider) Generate(ctx context.Context, in GenerateInput) (Result, error) {
	key := g.key()
	if key == "" {
		return Result{}, ErrMissingKey{Provider: g.Name(), Vars: geminiKeyEnv}
	}

	generationConfig := map[string]any{"temperature": 0}
	if in.Schema != nil {
		generationConfig["responseMimeType"] = "application/json"
		generationConfig["responseSchema"] = in.Schema.OpenAPI()
	}
	payload := map[string]any{
		"contents": []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: in.Prompt}}},
		},
		"generationConfig": generationConfig,
	}

	var raw struct {
		Candidates []struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			TotalTokenCount int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}

	base := strings.TrimRight(valueOr(g.BaseURL, firstEnv("GEMINI_BASE_URL"), geminiDefaultBaseURL), "/")
	url := fmt.Sprintf("%s/models/%s:generateContent", base, g.Model())
	err := doJSON(ctx, "POST", url, map[string]string{"x-goog-api-key": key}, payload, &raw)
	if err != nil {
		return Result{}, err
	}

	// A blocked or empty candidate list yields empty text; the caller decides what that means.
	var builder strings.Builder
	if len(raw.Candidates) > 0 {
		for _, p := range raw.Candidates[0].Content.Parts {
			builder.WriteString(p.Text)
		}
	}

	return Result{
		Provider:   g.Name(),
		Text:       trimFences(builder.String()),
		TokensUsed: raw.UsageMetadata.TotalTokenCount,
	}, nil
}
