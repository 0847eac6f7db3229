package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linzhe/interview-forge/internal/bank"
	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/internal/storage"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	gen := generator.NewService(context.Background(), bank.New(bank.Seed()), config.AIConfig{}, generator.Config{})
	store, err := storage.NewEngine(config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "questions_storage.json"),
	})
	if err != nil {
		t.Fatalf("engine init failed: %v", err)
	}

	r := chi.NewRouter()
	New(gen, store).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateQuestions(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/generate-questions", map[string]any{
		"job_role":         "Python Developer",
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
		"num_questions":    3,
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body generateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(body.Questions))
	}
	if body.SessionID == "" {
		t.Fatal("expected a session id in the response")
	}
}

func TestGenerateQuestionsDefaultsCount(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/generate-questions", map[string]any{
		"job_role":         "Python Developer",
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body generateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Questions) == 0 || len(body.Questions) > defaultNumQuestions {
		t.Fatalf("expected between 1 and %d questions, got %d", defaultNumQuestions, len(body.Questions))
	}
}

func TestGenerateQuestionsMissingRole(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/generate-questions", map[string]any{
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateQuestionsInvalidBody(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate-questions", bytes.NewReader([]byte("{not json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search-questions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSearchFindsStoredSession(t *testing.T) {
	r := setupRouter(t)

	if resp := postJSON(t, r, "/generate-questions", map[string]any{
		"job_role":         "Python Developer",
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
		"num_questions":    2,
	}); resp.Code != http.StatusOK {
		t.Fatalf("setup generate failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/search-questions?query=python", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("expected 1 search result, got %d", len(body.Results))
	}
}

func TestRecentSessionsEmpty(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recent-sessions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Results == nil {
		t.Fatal("results should be an empty array, not null")
	}
}

func TestHealthReportsLocalMode(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["status"] != "ok" || body["mode"] != "local" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}
