package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const GeminiModel = "gemini-2.0-flash"

// NewGeminiClient dials the Gemini API with the given key. The caller owns
// the client and must Close it.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return client, nil
}

type GeminiLanguageModel struct {
	client *genai.Client
}

func NewGeminiLanguageModel(client *genai.Client) *GeminiLanguageModel {
	return &GeminiLanguageModel{client: client}
}

func (g *GeminiLanguageModel) Complete(
	ctx context.Context,
	req *CompletionRequest,
) (string, error) {
	model := g.client.GenerativeModel(GeminiModel)
	if req.MaxTokens > 0 {
		model.GenerationConfig.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.GenerationConfig.SetTemperature(req.Temperature)
	model.GenerationConfig.SetTopP(1.0)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{
				genai.Text(req.SystemPrompt),
			},
		}
	}
	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockOnlyHigh,
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	// A blocked or empty response carries no candidates and flattens to "".
	text := ResponseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Gemini API returned no content")
	}
	return text, nil
}

// ResponseText flattens the text parts of every candidate into one string.
func ResponseText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
