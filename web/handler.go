package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prepbot/interview"
)

// maxClipBytes caps a single uploaded answer clip.
const maxClipBytes = 25 << 20

// Handler is the HTTP face of one interview session. It owns a single
// controller handle; the controller itself serializes concurrent calls.
type Handler struct {
	ctrl   *interview.Controller
	logger *log.Logger
}

func NewHandler(ctrl *interview.Controller, logger *log.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/roles", h.handleRoles)
	r.Get("/api/session", h.handleState)
	r.Post("/api/session", h.handleStart)
	r.Post("/api/session/answer", h.handleAnswer)
	r.Post("/api/session/reset", h.handleReset)

	return r
}

type questionView struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

type exchangeView struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	QuestionFailed bool   `json:"question_failed"`
	AnswerFailed   bool   `json:"answer_failed"`
}

type stateView struct {
	Status          string         `json:"status"`
	Role            string         `json:"role,omitempty"`
	QuestionNumber  int            `json:"question_number"`
	QuestionTarget  int            `json:"question_target"`
	CurrentQuestion *questionView  `json:"current_question,omitempty"`
	Transcript      []exchangeView `json:"transcript"`
	Report          string         `json:"report,omitempty"`
	ArchivePath     string         `json:"archive_path,omitempty"`
	Warning         string         `json:"warning,omitempty"`
}

func (h *Handler) state(warning string) stateView {
	transcript := h.ctrl.Transcript()
	view := stateView{
		Status:         h.ctrl.Status().String(),
		Role:           string(h.ctrl.Role()),
		QuestionNumber: h.ctrl.QuestionNumber(),
		QuestionTarget: interview.QuestionTarget,
		Transcript:     make([]exchangeView, 0, len(transcript)),
		Report:         h.ctrl.Report(),
		ArchivePath:    h.ctrl.ArchivePath(),
		Warning:        warning,
	}
	for _, e := range transcript {
		view.Transcript = append(view.Transcript, exchangeView{
			Question:       e.Question,
			Answer:         e.Answer,
			QuestionFailed: e.QuestionFailed,
			AnswerFailed:   e.AnswerFailed,
		})
	}
	if question, failed := h.ctrl.CurrentQuestion(); question != "" {
		view.CurrentQuestion = &questionView{Text: question, Failed: failed}
	}
	return view
}

func (h *Handler) handleRoles(w http.ResponseWriter, _ *http.Request) {
	roles := interview.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"roles": names})
}

func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state(""))
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := interview.ParseRole(body.Role)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch err := h.ctrl.Start(r.Context(), role); {
	case errors.Is(err, interview.ErrNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable,
			"no language model credential configured; set GEMINI_API_KEY or OPENAI_API_KEY")
	case errors.Is(err, interview.ErrSessionActive):
		h.writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.logger.Error("start session", "error", err.Error())
		h.writeError(w, http.StatusInternalServerError, "failed to start session")
	default:
		h.writeJSON(w, http.StatusCreated, h.state(""))
	}
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxClipBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("audio clip exceeds %d bytes", maxClipBytes))
			return
		}
		h.writeError(w, http.StatusBadRequest, "failed to read audio body")
		return
	}
	if len(audio) == 0 {
		h.writeError(w, http.StatusBadRequest, "empty audio body")
		return
	}

	err = h.ctrl.SubmitAnswer(r.Context(), audio)

	var archiveErr *interview.ArchiveError
	switch {
	case errors.Is(err, interview.ErrNotActive):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &archiveErr):
		// Completion already happened; the client gets the report plus a
		// warning that the record was not written.
		h.logger.Error("archive session", "error", archiveErr.Err.Error())
		h.writeJSON(w, http.StatusOK, h.state(archiveErr.Error()))
	case err != nil:
		h.logger.Error("submit answer", "error", err.Error())
		h.writeError(w, http.StatusInternalServerError, "failed to submit answer")
	default:
		h.writeJSON(w, http.StatusOK, h.state(""))
	}
}

func (h *Handler) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := h.ctrl.Reset(); err != nil {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, h.state(""))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", "error", err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
