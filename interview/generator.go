package interview

import (
	"context"
	"fmt"
	"strings"

	"prepbot/llm"
)

const interviewerSystemPrompt = "You are a professional interviewer conducting a job interview."

// Generator produces the next question for a role from the transcript so
// far. Each call is stateless: all continuity comes from re-sending the
// accumulated exchanges inside the prompt.
type Generator struct {
	model llm.LanguageModel
}

func NewGenerator(model llm.LanguageModel) *Generator {
	return &Generator{model: model}
}

func (g *Generator) NextQuestion(
	ctx context.Context,
	role Role,
	transcript []Exchange,
) (string, error) {
	prompt := fmt.Sprintf(
		`You are a professional interviewer conducting a job interview for a %s position.

Previous conversation:
%s

Based on the previous conversation (if any), ask the NEXT relevant interview question.
Do not repeat questions.
Keep the question professional and concise.
If this is the first question, start with a standard introductory question for the role.
Only output the question itself.`,
		role,
		questionHistory(transcript),
	)

	question, err := g.model.Complete(ctx, &llm.CompletionRequest{
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(question), nil
}

// questionHistory renders the transcript as alternating Q:/A: lines. An
// empty transcript renders as the empty string, which the prompt treats as
// "ask an introductory question".
func questionHistory(transcript []Exchange) string {
	lines := make([]string, 0, len(transcript))
	for _, e := range transcript {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", e.Question, e.Answer))
	}
	return strings.Join(lines, "\n")
}
