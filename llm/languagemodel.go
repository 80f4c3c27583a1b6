package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ErrNoCredential is returned by constructors when no API key is configured.
var ErrNoCredential = errors.New("no API key configured")

type LanguageModel interface {
	Complete(
		ctx context.Context,
		req *CompletionRequest,
	) (string, error)
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

type OpenAILanguageModel struct {
	client *openai.Client
	model  string
}

func NewOpenAILanguageModel(apiKey string) (*OpenAILanguageModel, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	return &OpenAILanguageModel{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}, nil
}

func (o *OpenAILanguageModel) Complete(
	ctx context.Context,
	req *CompletionRequest,
) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.model,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
