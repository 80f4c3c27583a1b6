package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Backend is one way of turning a recorded clip into text.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Adapter tries its backends in order and returns the first transcript. A
// backend failure only means moving on to the next one; the session-facing
// error produced when every backend fails is the text the controller records
// as the literal answer.
type Adapter struct {
	backends []Backend
	logger   *log.Logger
}

func NewAdapter(logger *log.Logger, backends ...Backend) *Adapter {
	return &Adapter{backends: backends, logger: logger}
}

func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var lastErr error
	for _, b := range a.backends {
		text, err := b.Transcribe(ctx, audio)
		if err == nil {
			a.logger.Info("hear", "backend", b.Name(), "chars", len(text))
			return strings.TrimSpace(text), nil
		}
		a.logger.Warn("backend failed", "backend", b.Name(), "error", err.Error())
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no transcription backend configured")
	}
	return "", fmt.Errorf(
		"Error transcribing audio: %v. (Note: ffmpeg is required for local processing, or provide a valid Gemini API key.)",
		lastErr,
	)
}
