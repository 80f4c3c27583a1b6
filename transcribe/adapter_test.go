package transcribe

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type stubBackend struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Transcribe(_ context.Context, _ []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func testAdapter(backends ...Backend) *Adapter {
	return NewAdapter(log.New(io.Discard), backends...)
}

func TestAdapterFirstSuccessWins(t *testing.T) {
	primary := &stubBackend{name: "primary", text: " hello there "}
	fallback := &stubBackend{name: "fallback", text: "never used"}
	a := testAdapter(primary, fallback)

	text, err := a.Transcribe(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "hello there" {
		t.Errorf("Transcribe() = %q, want trimmed primary text", text)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestAdapterFallsBackInOrder(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("401 unauthorized")}
	fallback := &stubBackend{name: "fallback", text: "recognized offline"}
	a := testAdapter(primary, fallback)

	text, err := a.Transcribe(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "recognized offline" {
		t.Errorf("Transcribe() = %q, want fallback text", text)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestAdapterAllBackendsFail(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("401 unauthorized")}
	fallback := &stubBackend{name: "fallback", err: errors.New("ffmpeg: executable file not found")}
	a := testAdapter(primary, fallback)

	_, err := a.Transcribe(context.Background(), []byte("clip"))
	if err == nil {
		t.Fatal("Transcribe() succeeded, want error")
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "Error transcribing audio: ") {
		t.Errorf("error = %q, want the formatted answer text", msg)
	}
	if !strings.Contains(msg, "ffmpeg: executable file not found") {
		t.Errorf("error = %q, want the last backend failure embedded", msg)
	}
	if !strings.Contains(msg, "ffmpeg is required for local processing") {
		t.Errorf("error = %q, want the dependency hint", msg)
	}
}

func TestAdapterNoBackends(t *testing.T) {
	a := testAdapter()

	_, err := a.Transcribe(context.Background(), []byte("clip"))
	if err == nil {
		t.Fatal("Transcribe() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no transcription backend configured") {
		t.Errorf("error = %q, want the missing-backend hint", err)
	}
}

func TestRecognizerRequiresCredential(t *testing.T) {
	r := NewRecognizerBackend("", log.New(io.Discard))

	_, err := r.Transcribe(context.Background(), []byte("clip"))
	if err == nil {
		t.Fatal("Transcribe() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "Deepgram API key") {
		t.Errorf("error = %q, want the missing-credential hint", err)
	}
}
