package questions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linzhe/interview-forge/internal/model/interview"
	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/internal/storage"
	"github.com/linzhe/interview-forge/pkg/utils"
)

const (
	defaultNumQuestions = 10
	defaultSearchLimit  = 10
	defaultRecentLimit  = 5
)

// Handler serves question generation, search and recency endpoints.
type Handler struct {
	generator *generator.Service
	store     *storage.Engine
}

// New creates the questions handler.
func New(gen *generator.Service, store *storage.Engine) *Handler {
	return &Handler{generator: gen, store: store}
}

// RegisterRoutes wires the question endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-questions", h.handleGenerate)
	r.Get("/search-questions", h.handleSearch)
	r.Get("/recent-sessions", h.handleRecent)
	r.Get("/healthz", h.handleHealth)
}

type generateRequest struct {
	JobRole         string   `json:"job_role"`
	ExperienceLevel string   `json:"experience_level"`
	Skills          []string `json:"skills"`
	NumQuestions    int      `json:"num_questions"`
	QuestionTypes   []string `json:"question_types"`
}

type generateResponse struct {
	JobRole         string   `json:"job_role"`
	ExperienceLevel string   `json:"experience_level"`
	Skills          []string `json:"skills"`
	SessionID       string   `json:"session_id,omitempty"`
	Questions       []string `json:"questions"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.NumQuestions == 0 {
		payload.NumQuestions = defaultNumQuestions
	}

	questions, err := h.generator.Generate(r.Context(), generator.Request{
		JobRole:         payload.JobRole,
		ExperienceLevel: payload.ExperienceLevel,
		Skills:          payload.Skills,
		NumQuestions:    payload.NumQuestions,
		QuestionTypes:   payload.QuestionTypes,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, generator.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	sessionID := h.persist(r, questions, payload, false)

	utils.RespondJSON(w, http.StatusOK, generateResponse{
		JobRole:         payload.JobRole,
		ExperienceLevel: payload.ExperienceLevel,
		Skills:          payload.Skills,
		SessionID:       sessionID,
		Questions:       questions,
	})
}

// persist stores the generated set. Storage failures are logged, not
// surfaced: the caller already has their questions.
func (h *Handler) persist(r *http.Request, questions []string, payload generateRequest, personalized bool) string {
	session, err := h.store.Save(r.Context(), storage.SaveRequest{
		Questions:       questions,
		JobRole:         payload.JobRole,
		ExperienceLevel: payload.ExperienceLevel,
		Skills:          payload.Skills,
		IsPersonalized:  personalized,
	})
	if err != nil {
		log.Printf("[questions] failed to store session: %v", err)
		return ""
	}
	return session.SessionID
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	limit := queryInt(r, "limit", defaultSearchLimit)

	results, err := h.store.Search(r.Context(), query, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []interview.Session{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
	})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultRecentLimit)

	results, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load recent sessions")
		return
	}
	if results == nil {
		results = []interview.Session{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	mode := "local"
	if h.generator.RemoteEnabled() {
		mode = "remote"
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mode":   mode,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fallback
	}
	return val
}
