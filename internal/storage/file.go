package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linzhe/interview-forge/internal/model/interview"
)

// ErrValidation marks rejected save requests; nothing is written.
var ErrValidation = errors.New("validation failed")

// SaveRequest describes one session to persist.
type SaveRequest struct {
	Questions       []string
	JobRole         string
	ExperienceLevel string
	Skills          []string
	SessionID       string
	IsPersonalized  bool
}

// FileStore keeps sessions as a single JSON array file. Every save reads the
// whole file, appends in memory and rewrites it; a crash mid-write can corrupt
// the file. A process-local mutex serializes the read-modify-write, nothing
// protects against concurrent writers from other processes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the data directory and an empty store file if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("initialize store file %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat store file %s: %w", path, err)
	}

	return &FileStore{path: path}, nil
}

// Save appends a new immutable session record. Existing records are never
// touched.
func (s *FileStore) Save(_ context.Context, req SaveRequest) (interview.Session, error) {
	if err := req.validate(); err != nil {
		return interview.Session{}, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session := interview.Session{
		JobRole:         req.JobRole,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
		SessionID:       sessionID,
		IsPersonalized:  req.IsPersonalized,
		Timestamp:       time.Now().UTC(),
		Questions:       req.Questions,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return interview.Session{}, err
	}

	sessions = append(sessions, session)
	if err := s.write(sessions); err != nil {
		return interview.Session{}, err
	}

	return session, nil
}

// Search scores every stored session against the query with case-insensitive
// substring matching: role +3, first matching skill +2, each matching
// question +1. Only sessions with a positive score are returned, highest
// first; ties keep insertion order.
func (s *FileStore) Search(_ context.Context, query string, limit int) ([]interview.Session, error) {
	s.mu.Lock()
	sessions, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)

	type scored struct {
		score   int
		session interview.Session
	}

	var results []scored
	for _, session := range sessions {
		score := 0
		if strings.Contains(strings.ToLower(session.JobRole), query) {
			score += 3
		}
		if strings.Contains(strings.ToLower(session.ExperienceLevel), query) {
			score += 3
		}
		for _, skill := range session.Skills {
			if strings.Contains(strings.ToLower(skill), query) {
				score += 2
				break
			}
		}
		for _, question := range session.Questions {
			if strings.Contains(strings.ToLower(question), query) {
				score++
			}
		}
		if score > 0 {
			results = append(results, scored{score: score, session: session})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	sessions = make([]interview.Session, len(results))
	for i, r := range results {
		sessions[i] = r.session
	}
	return sessions, nil
}

// Recent returns the newest sessions, timestamp descending.
func (s *FileStore) Recent(_ context.Context, limit int) ([]interview.Session, error) {
	s.mu.Lock()
	sessions, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// load must be called with the mutex held when the result feeds a write.
func (s *FileStore) load() ([]interview.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store file %s: %w", s.path, err)
	}

	var sessions []interview.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	return sessions, nil
}

func (s *FileStore) write(sessions []interview.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write store file %s: %w", s.path, err)
	}
	return nil
}

func (r SaveRequest) validate() error {
	if len(r.Questions) == 0 {
		return fmt.Errorf("%w: questions must not be empty", ErrValidation)
	}
	if strings.TrimSpace(r.JobRole) == "" {
		return fmt.Errorf("%w: job_role is required", ErrValidation)
	}
	if strings.TrimSpace(r.ExperienceLevel) == "" {
		return fmt.Errorf("%w: experience_level is required", ErrValidation)
	}
	if len(r.Skills) == 0 {
		return fmt.Errorf("%w: at least one skill is required", ErrValidation)
	}
	return nil
}
