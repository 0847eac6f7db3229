package interview

import "time"

// Session is one persisted set of generated questions together with the job
// parameters that produced it. Sessions are immutable once stored.
type Session struct {
	JobRole         string    `json:"job_role"`
	ExperienceLevel string    `json:"experience_level"`
	Skills          []string  `json:"skills"`
	SessionID       string    `json:"session_id"`
	IsPersonalized  bool      `json:"is_personalized"`
	Timestamp       time.Time `json:"timestamp"`
	Questions       []string  `json:"questions"`
}
