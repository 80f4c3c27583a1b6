package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	prerecorded "github.com/deepgram/deepgram-go-sdk/pkg/api/prerecorded/v1"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/pkg/client/prerecorded"
)

// RecognizerBackend is the fallback tier: write the clip to a temp file,
// convert the container to a waveform with ffmpeg, and run speech
// recognition over the result. If conversion fails the original bytes go to
// the recognizer as-is. Temp files are deleted best-effort on every path.
type RecognizerBackend struct {
	apiKey string
	logger *log.Logger

	// recognize runs speech recognition over the prepared file. Tests swap
	// it out so the temp-file handling can run without a remote service.
	recognize func(ctx context.Context, path string) (string, error)
}

func NewRecognizerBackend(apiKey string, logger *log.Logger) *RecognizerBackend {
	r := &RecognizerBackend{apiKey: apiKey, logger: logger}
	r.recognize = r.deepgramRecognize
	return r
}

func (r *RecognizerBackend) Name() string { return "recognizer" }

func (r *RecognizerBackend) Transcribe(
	ctx context.Context,
	audio []byte,
) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("no Deepgram API key configured")
	}

	tmp, err := os.CreateTemp("", "answer-*.webm")
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp audio file: %w", err)
	}

	wavPath, err := r.convertToWav(ctx, tmpPath)
	if err != nil {
		// ffmpeg missing or the clip already is a waveform; recognize the
		// original bytes unconverted.
		r.logger.Warn("audio conversion failed", "error", err.Error())
		wavPath = tmpPath
	} else {
		defer os.Remove(wavPath)
	}

	return r.recognize(ctx, wavPath)
}

func (r *RecognizerBackend) convertToWav(
	ctx context.Context,
	inputPath string,
) (string, error) {
	wavPath := strings.TrimSuffix(inputPath, ".webm") + ".wav"

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		wavPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(wavPath)
		return "", fmt.Errorf("ffmpeg: %w: %s", err, lastLine(out))
	}
	return wavPath, nil
}

func (r *RecognizerBackend) deepgramRecognize(
	ctx context.Context,
	path string,
) (string, error) {
	dg := prerecorded.New(client.New(r.apiKey, &interfaces.ClientOptions{}))

	res, err := dg.FromFile(ctx, path, &interfaces.PreRecordedTranscriptionOptions{
		Model:       "nova-2",
		Language:    "en-US",
		Punctuate:   true,
		SmartFormat: true,
	})
	if err != nil {
		return "", fmt.Errorf("Deepgram recognition: %w", err)
	}

	if res == nil || len(res.Results.Channels) == 0 ||
		len(res.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("Deepgram recognition: no alternatives returned")
	}

	transcript := strings.TrimSpace(
		res.Results.Channels[0].Alternatives[0].Transcript,
	)
	if transcript == "" {
		return "", fmt.Errorf("Deepgram recognition: empty transcript")
	}
	return transcript, nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}
