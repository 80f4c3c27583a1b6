package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotConfigured means no language model credential is available, so a
	// session cannot be started at all.
	ErrNotConfigured = errors.New("no language model credential configured")

	// ErrSessionActive is returned by Start while an interview is running.
	ErrSessionActive = errors.New("an interview is already active")

	// ErrNotActive is returned by SubmitAnswer outside an active session.
	ErrNotActive = errors.New("no active interview")

	// ErrNotCompleted is returned by Reset unless the session is completed.
	ErrNotCompleted = errors.New("interview is not completed")
)

// ArchiveError reports that a completed session could not be written to disk.
// The session itself is intact: the report was already computed and the
// Completed transition already happened when this is returned.
type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive session: %v", e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

type QuestionGenerator interface {
	NextQuestion(ctx context.Context, role Role, transcript []Exchange) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, role Role, transcript []Exchange) (string, error)
}

type Archiver interface {
	Archive(role Role, transcript []Exchange, report string) (string, error)
}

// Controller owns one interview session and sequences the generator,
// transcriber, evaluator and archiver through the fixed-length protocol.
// All methods serialize behind one mutex; each call, including its remote
// round-trips, runs to completion before the next is admitted.
type Controller struct {
	generator   QuestionGenerator
	transcriber Transcriber
	evaluator   Evaluator
	archiver    Archiver
	logger      *log.Logger

	mu              sync.Mutex
	status          Status
	role            Role
	transcript      []Exchange
	currentQuestion string
	questionFailed  bool
	report          string
	archivePath     string
}

func NewController(
	generator QuestionGenerator,
	transcriber Transcriber,
	evaluator Evaluator,
	archiver Archiver,
	logger *log.Logger,
) *Controller {
	return &Controller{
		generator:   generator,
		transcriber: transcriber,
		evaluator:   evaluator,
		archiver:    archiver,
		logger:      logger,
	}
}

// Start resets all session state and fetches the first question. It refuses
// to run without a configured generator so that a missing credential is
// caught before any remote call is attempted.
func (c *Controller) Start(ctx context.Context, role Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generator == nil {
		return ErrNotConfigured
	}
	if c.status == Active {
		return ErrSessionActive
	}

	c.status = Active
	c.role = role
	c.transcript = nil
	c.report = ""
	c.archivePath = ""

	c.logger.Info("interview started", "role", role)
	c.nextQuestion(ctx)
	return nil
}

// SubmitAnswer runs one step of the protocol: transcribe the clip, append
// the exchange, then either fetch the next question or, on the final answer,
// evaluate and archive the session.
//
// Remote failures never abort the step. A transcription failure records the
// error text as the answer; a generation or evaluation failure records an
// inline error message in place of the real output. The one error condition
// a caller may see after a successful step is *ArchiveError, which is a
// warning: the session is Completed and the report is available regardless.
func (c *Controller) SubmitAnswer(ctx context.Context, audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Active || c.currentQuestion == "" {
		return ErrNotActive
	}

	answer, err := c.transcriber.Transcribe(ctx, audio)
	answerFailed := err != nil
	if answerFailed {
		answer = err.Error()
		c.logger.Error("transcription failed", "error", err.Error())
	}

	c.transcript = append(c.transcript, Exchange{
		Question:       c.currentQuestion,
		Answer:         answer,
		QuestionFailed: c.questionFailed,
		AnswerFailed:   answerFailed,
	})
	c.logger.Info(
		"answer recorded",
		"question", len(c.transcript),
		"of", QuestionTarget,
		"failed", answerFailed,
	)

	if len(c.transcript) < QuestionTarget {
		c.nextQuestion(ctx)
		return nil
	}

	return c.complete(ctx)
}

// Reset discards a completed session. Archival already happened at
// completion, so this has no side effects beyond clearing state.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Completed {
		return ErrNotCompleted
	}

	c.status = Idle
	c.role = ""
	c.transcript = nil
	c.currentQuestion = ""
	c.questionFailed = false
	c.report = ""
	c.archivePath = ""
	return nil
}

func (c *Controller) nextQuestion(ctx context.Context) {
	question, err := c.generator.NextQuestion(ctx, c.role, c.transcript)
	if err == nil && strings.TrimSpace(question) == "" {
		// An empty question would leave an active session with nothing to
		// answer. Treat it like any other generation failure.
		err = errors.New("model returned an empty question")
	}
	if err != nil {
		question = fmt.Sprintf(
			"Error generating question: %v. Please check your API key.",
			err,
		)
		c.logger.Error("question generation failed", "error", err.Error())
	}
	c.currentQuestion = question
	c.questionFailed = err != nil
}

func (c *Controller) complete(ctx context.Context) error {
	report, err := c.evaluator.Evaluate(ctx, c.role, c.transcript)
	if err == nil && strings.TrimSpace(report) == "" {
		err = errors.New("model returned an empty report")
	}
	if err != nil {
		report = fmt.Sprintf(
			"Error generating evaluation: %v. Please check your API key.",
			err,
		)
		c.logger.Error("evaluation failed", "error", err.Error())
	}

	c.report = report
	c.status = Completed
	c.currentQuestion = ""
	c.questionFailed = false
	c.logger.Info("interview completed", "role", c.role)

	path, err := c.archiver.Archive(c.role, c.transcript, report)
	if err != nil {
		return &ArchiveError{Err: err}
	}
	c.archivePath = path
	c.logger.Info("session archived", "path", path)
	return nil
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// CurrentQuestion reports the pending question and whether its text is a
// substituted generation error.
func (c *Controller) CurrentQuestion() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentQuestion, c.questionFailed
}

// QuestionNumber is the 1-based number of the pending question, or the
// transcript length once the session has completed.
func (c *Controller) QuestionNumber() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Active {
		return len(c.transcript) + 1
	}
	return len(c.transcript)
}

// Transcript returns a copy; the session's own slice stays append-only.
func (c *Controller) Transcript() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Exchange, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) Report() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *Controller) ArchivePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.archivePath
}
