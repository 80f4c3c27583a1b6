package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"prepbot/llm"
)

const transcribeInstruction = "Transcribe the following audio exactly as spoken. Do not add any other text."

// GeminiBackend sends the clip inline to a multimodal Gemini model. The clip
// is treated as an opaque container; only the MIME type hint travels with it.
type GeminiBackend struct {
	client   *genai.Client
	mimeType string
}

func NewGeminiBackend(client *genai.Client, mimeType string) *GeminiBackend {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	return &GeminiBackend{client: client, mimeType: mimeType}
}

func (g *GeminiBackend) Name() string { return "gemini" }

func (g *GeminiBackend) Transcribe(
	ctx context.Context,
	audio []byte,
) (string, error) {
	model := g.client.GenerativeModel(llm.GeminiModel)
	model.GenerationConfig.SetTemperature(0.0)

	resp, err := model.GenerateContent(
		ctx,
		genai.Text(transcribeInstruction),
		genai.Blob{MIMEType: g.mimeType, Data: audio},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription: %w", err)
	}

	text := strings.TrimSpace(llm.ResponseText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini transcription: empty response")
	}
	return text, nil
}
