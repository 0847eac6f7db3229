package stream

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/pkg/utils"
)

// Handler streams question generation over Server-Sent Events.
type Handler struct {
	generator *generator.Service
}

// New creates a new stream handler.
func New(gen *generator.Service) *Handler {
	return &Handler{generator: gen}
}

// RegisterRoutes wires the streaming endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/stream/generate", h.handleStream)
}

// StreamResponse is one SSE message.
type StreamResponse struct {
	Event     string   `json:"event"`
	Content   string   `json:"content,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type streamRequest struct {
	JobRole         string   `json:"job_role"`
	ExperienceLevel string   `json:"experience_level"`
	Skills          []string `json:"skills"`
	NumQuestions    int      `json:"num_questions"`
	QuestionTypes   []string `json:"question_types"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var payload streamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.NumQuestions == 0 {
		payload.NumQuestions = 10
	}

	req := generator.Request{
		JobRole:         payload.JobRole,
		ExperienceLevel: payload.ExperienceLevel,
		Skills:          payload.Skills,
		NumQuestions:    payload.NumQuestions,
		QuestionTypes:   payload.QuestionTypes,
	}

	reader, err := h.generator.GenerateStream(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, generator.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "start"})

	if reader == nil {
		// Local-only mode, or the remote stream could not be opened. Deliver
		// the bank questions one event at a time so clients see a uniform
		// protocol either way.
		h.streamLocal(w, flusher, r, req)
		return
	}
	defer reader.Close()

	var builder strings.Builder
	for {
		msg, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[stream] remote stream failed mid-flight: %v", err)
			h.streamLocal(w, flusher, r, req)
			return
		}
		if msg.Content == "" {
			continue
		}
		builder.WriteString(msg.Content)
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "chunk", Content: msg.Content})
	}

	questions, err := generator.ParseQuestions(builder.String(), req.NumQuestions)
	if err != nil || len(questions) == 0 {
		log.Printf("[stream] streamed response unparseable, falling back: %v", err)
		h.streamLocal(w, flusher, r, req)
		return
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "questions", Questions: questions})
	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "end"})
}

func (h *Handler) streamLocal(w http.ResponseWriter, flusher http.Flusher, r *http.Request, req generator.Request) {
	questions, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "error", Error: err.Error()})
		return
	}
	for _, q := range questions {
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "question", Content: q})
	}
	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "questions", Questions: questions})
	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "end"})
}
