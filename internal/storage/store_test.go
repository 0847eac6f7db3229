package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/linzhe/interview-forge/internal/config"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "data", "questions_storage.json"))
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	return store
}

func saveRequest() SaveRequest {
	return SaveRequest{
		Questions:       []string{"What is Python?", "Explain generators."},
		JobRole:         "Python Developer",
		ExperienceLevel: "Entry-level",
		Skills:          []string{"Python", "SQL"},
	}
}

func TestSaveRecentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, saveRequest())
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if saved.SessionID == "" {
		t.Fatal("expected a generated session id")
	}

	recent, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 session, got %d", len(recent))
	}
	if recent[0].SessionID != saved.SessionID {
		t.Fatalf("session id mismatch: got %s want %s", recent[0].SessionID, saved.SessionID)
	}
	if !reflect.DeepEqual(recent[0].Questions, saved.Questions) {
		t.Fatalf("questions mismatch: got %v want %v", recent[0].Questions, saved.Questions)
	}
}

func TestSaveKeepsSuppliedSessionID(t *testing.T) {
	store := newTestStore(t)

	req := saveRequest()
	req.SessionID = "custom-id"

	saved, err := store.Save(context.Background(), req)
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if saved.SessionID != "custom-id" {
		t.Fatalf("expected supplied session id, got %s", saved.SessionID)
	}
}

func TestSaveValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	before, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*SaveRequest)
	}{
		{"empty questions", func(r *SaveRequest) { r.Questions = nil }},
		{"empty role", func(r *SaveRequest) { r.JobRole = "" }},
		{"empty level", func(r *SaveRequest) { r.ExperienceLevel = "" }},
		{"empty skills", func(r *SaveRequest) { r.Skills = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := saveRequest()
			tc.mutate(&req)
			if _, err := store.Save(ctx, req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	after, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatal("store file changed despite rejected saves")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, saveRequest()); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	lower, err := store.Search(ctx, "python", 10)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	upper, err := store.Search(ctx, "PYTHON", 10)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}

	if len(lower) != 1 || len(upper) != 1 {
		t.Fatalf("expected one match for both cases, got %d and %d", len(lower), len(upper))
	}
	if lower[0].SessionID != upper[0].SessionID {
		t.Fatal("case variants returned different sessions")
	}
}

func TestSearchScoringOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Role match: +3, plus one skill: +2.
	roleMatch := saveRequest()
	roleMatch.SessionID = "role-match"

	// Question matches only: +1 per question.
	questionMatch := SaveRequest{
		Questions:       []string{"How is Python used here?", "Why Python?"},
		JobRole:         "Backend Engineer",
		ExperienceLevel: "Mid-level",
		Skills:          []string{"Go"},
		SessionID:       "question-match",
	}

	// No match at all.
	noMatch := SaveRequest{
		Questions:       []string{"Explain Kubernetes."},
		JobRole:         "DevOps Engineer",
		ExperienceLevel: "Senior",
		Skills:          []string{"Docker"},
		SessionID:       "no-match",
	}

	for _, req := range []SaveRequest{questionMatch, roleMatch, noMatch} {
		if _, err := store.Save(ctx, req); err != nil {
			t.Fatalf("Save err: %v", err)
		}
	}

	results, err := store.Search(ctx, "python", 10)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 scored sessions, got %d", len(results))
	}
	if results[0].SessionID != "role-match" || results[1].SessionID != "question-match" {
		t.Fatalf("unexpected order: %s, %s", results[0].SessionID, results[1].SessionID)
	}
}

func TestSearchSkillScoreNotCumulative(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two matching skills still score +2 total; three matching questions
	// score +3. The question-heavy session must rank first.
	manySkills := SaveRequest{
		Questions:       []string{"Unrelated question."},
		JobRole:         "Designer",
		ExperienceLevel: "Senior",
		Skills:          []string{"Python", "Python scripting"},
		SessionID:       "many-skills",
	}
	manyQuestions := SaveRequest{
		Questions:       []string{"Python one?", "Python two?", "Python three?"},
		JobRole:         "Designer",
		ExperienceLevel: "Senior",
		Skills:          []string{"Figma"},
		SessionID:       "many-questions",
	}

	for _, req := range []SaveRequest{manySkills, manyQuestions} {
		if _, err := store.Save(ctx, req); err != nil {
			t.Fatalf("Save err: %v", err)
		}
	}

	results, err := store.Search(ctx, "python", 10)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 2 || results[0].SessionID != "many-questions" {
		t.Fatalf("cumulative question score should outrank repeated skills: %+v", results)
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := saveRequest()
	first.SessionID = "first"
	second := saveRequest()
	second.SessionID = "second"

	for _, req := range []SaveRequest{first, second} {
		if _, err := store.Save(ctx, req); err != nil {
			t.Fatalf("Save err: %v", err)
		}
	}

	results, err := store.Search(ctx, "python", 10)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 2 || results[0].SessionID != "first" || results[1].SessionID != "second" {
		t.Fatalf("equal scores must keep insertion order: %+v", results)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		req := saveRequest()
		req.SessionID = id
		if _, err := store.Save(ctx, req); err != nil {
			t.Fatalf("Save err: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(recent))
	}
	if recent[0].SessionID != "c" {
		t.Fatalf("expected newest session first, got %s", recent[0].SessionID)
	}
}

func TestEngineVectorFailureFallsBackToFile(t *testing.T) {
	// A vector index that always fails must be transparent: search still
	// answers from the file store with no error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	engine, err := NewEngine(config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "questions_storage.json"),
		Vector: config.VectorConfig{
			APIKey:    "test-key",
			Host:      server.URL,
			IndexName: "interview-questions",
		},
	})
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}

	ctx := context.Background()
	if _, err := engine.Save(ctx, saveRequest()); err != nil {
		t.Fatalf("Save must not surface vector errors: %v", err)
	}

	results, err := engine.Search(ctx, "python", 10)
	if err != nil {
		t.Fatalf("Search must not surface vector errors: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected file-backed result, got %d", len(results))
	}
}

func TestEngineVectorSearchRanksResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-Key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch {
		case r.URL.Path == "/namespaces/interview-questions/records/upsert":
			w.Write([]byte(`{}`))
		case r.URL.Path == "/namespaces/interview-questions/records/query":
			w.Write([]byte(`{"matches":[{"id":"s1-0","score":0.9,"metadata":{"session_id":"s1","job_role":"Python Developer","experience_level":"Entry-level","skills":["Python"],"questions":["What is Python?"]}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	engine, err := NewEngine(config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "questions_storage.json"),
		Vector: config.VectorConfig{
			APIKey:    "test-key",
			Host:      server.URL,
			IndexName: "interview-questions",
		},
	})
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}

	results, err := engine.Search(context.Background(), "python", 5)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s1" {
		t.Fatalf("expected vector-ranked session, got %+v", results)
	}
}
