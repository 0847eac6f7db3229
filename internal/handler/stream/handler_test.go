package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linzhe/interview-forge/internal/bank"
	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/service/generator"
)

func setupRouter() *chi.Mux {
	gen := generator.NewService(context.Background(), bank.New(bank.Seed()), config.AIConfig{}, generator.Config{})

	r := chi.NewRouter()
	New(gen).RegisterRoutes(r)
	return r
}

func TestStreamLocalDeliversQuestionEvents(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]any{
		"job_role":         "Python Developer",
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
		"num_questions":    3,
	})
	req := httptest.NewRequest(http.MethodPost, "/stream/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected SSE content type, got %q", ct)
	}

	var events []StreamResponse
	for _, line := range strings.Split(resp.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event StreamResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("invalid event payload %q: %v", line, err)
		}
		events = append(events, event)
	}

	if len(events) < 3 {
		t.Fatalf("expected at least start/question/end events, got %d", len(events))
	}
	if events[0].Event != "start" {
		t.Fatalf("first event should be start, got %q", events[0].Event)
	}
	if events[len(events)-1].Event != "end" {
		t.Fatalf("last event should be end, got %q", events[len(events)-1].Event)
	}

	questionCount := 0
	for _, event := range events {
		if event.Event == "question" {
			questionCount++
		}
	}
	if questionCount != 3 {
		t.Fatalf("expected 3 question events, got %d", questionCount)
	}
}

func TestStreamRejectsInvalidRequest(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]any{
		"experience_level": "Entry-level",
		"skills":           []string{"Python"},
	})
	req := httptest.NewRequest(http.MethodPost, "/stream/generate", bytes.NewReader(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
