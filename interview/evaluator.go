package interview

import (
	"context"
	"fmt"
	"strings"

	"prepbot/llm"
)

// ReportEvaluator turns a finished transcript into the final evaluation
// report: overall impression, strengths, areas for improvement, a 1-10
// rating and a hiring recommendation.
type ReportEvaluator struct {
	model llm.LanguageModel
}

func NewReportEvaluator(model llm.LanguageModel) *ReportEvaluator {
	return &ReportEvaluator{model: model}
}

func (e *ReportEvaluator) Evaluate(
	ctx context.Context,
	role Role,
	transcript []Exchange,
) (string, error) {
	prompt := fmt.Sprintf(
		`You are an expert hiring manager. Evaluate the following interview for a %s position.

Interview Transcript:
%s

Please provide a detailed evaluation report including:
1. Overall Impression
2. Strengths
3. Areas for Improvement
4. Rating (1-10)
5. Hiring Recommendation (Strong Hire, Hire, No Hire)

Format the output as clean Markdown.`,
		role,
		evaluationHistory(transcript),
	)

	report, err := e.model.Complete(ctx, &llm.CompletionRequest{
		SystemPrompt: "You are an expert hiring manager writing candidate evaluations.",
		UserPrompt:   prompt,
		Temperature:  0.4,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(report), nil
}

func evaluationHistory(transcript []Exchange) string {
	lines := make([]string, 0, len(transcript))
	for _, e := range transcript {
		lines = append(lines, fmt.Sprintf(
			"Question: %s\nCandidate Answer: %s",
			e.Question,
			e.Answer,
		))
	}
	return strings.Join(lines, "\n")
}
