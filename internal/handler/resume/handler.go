package resume

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linzhe/interview-forge/internal/service/generator"
	resumesvc "github.com/linzhe/interview-forge/internal/service/resume"
	"github.com/linzhe/interview-forge/internal/storage"
	"github.com/linzhe/interview-forge/pkg/utils"
)

const (
	// maxUploadBytes caps resume uploads at 10 MB.
	maxUploadBytes = 10 << 20
	previewLimit   = 500
)

// Handler serves resume upload endpoints.
type Handler struct {
	parser    *resumesvc.Parser
	generator *generator.Service
	store     *storage.Engine
}

// New creates the resume handler.
func New(parser *resumesvc.Parser, gen *generator.Service, store *storage.Engine) *Handler {
	return &Handler{parser: parser, generator: gen, store: store}
}

// RegisterRoutes wires the resume endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/parse-resume", h.handleParse)
	r.Post("/generate-personalized-questions", h.handlePersonalized)
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	text, skills, err := h.parser.Parse(r.Context(), filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resumesvc.ErrUnsupportedType) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	preview := text
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "..."
	}
	if skills == nil {
		skills = []string{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"skills":       skills,
		"text_preview": preview,
	})
}

func (h *Handler) handlePersonalized(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	text, skills, err := h.parser.Parse(r.Context(), filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resumesvc.ErrUnsupportedType) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	// Skills supplied in the form take precedence; extracted skills fill in
	// behind them.
	merged := mergeFormSkills(r.FormValue("skills"), skills)

	req := generator.PersonalizedRequest{
		Request: generator.Request{
			JobRole:         r.FormValue("job_role"),
			ExperienceLevel: r.FormValue("experience_level"),
			Skills:          merged,
			NumQuestions:    formInt(r, "num_questions", 10),
		},
		ResumeText:      text,
		ExtractedSkills: skills,
	}

	questions, err := h.generator.GeneratePersonalized(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, generator.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	sessionID := ""
	session, err := h.store.Save(r.Context(), storage.SaveRequest{
		Questions:       questions,
		JobRole:         req.JobRole,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          merged,
		IsPersonalized:  true,
	})
	if err != nil {
		log.Printf("[resume] failed to store personalized session: %v", err)
	} else {
		sessionID = session.SessionID
	}

	if skills == nil {
		skills = []string{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"job_role":         req.JobRole,
		"experience_level": req.ExperienceLevel,
		"skills":           merged,
		"extracted_skills": skills,
		"session_id":       sessionID,
		"is_personalized":  true,
		"questions":        questions,
	})
}

// readUpload pulls the "resume" file out of a multipart form. It writes the
// error response itself when the upload is unusable.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return "", nil, false
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "resume file is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return "", nil, false
	}
	return header.Filename, data, true
}

func mergeFormSkills(raw string, extracted []string) []string {
	var skills []string
	seen := map[string]bool{}
	add := func(skill string) {
		skill = strings.TrimSpace(skill)
		if skill == "" || seen[strings.ToLower(skill)] {
			return
		}
		seen[strings.ToLower(skill)] = true
		skills = append(skills, skill)
	}

	for _, part := range strings.Split(raw, ",") {
		add(part)
	}
	for _, skill := range extracted {
		add(skill)
	}
	return skills
}

func formInt(r *http.Request, key string, fallback int) int {
	raw := r.FormValue(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fallback
	}
	return val
}
