package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/model/interview"
)

// vectorClient is a thin typed client for an external vector index with
// hosted embeddings. Records are upserted as text plus session metadata and
// queried by text; the index does the embedding and ranking.
type vectorClient struct {
	host      string
	apiKey    string
	namespace string
	client    *http.Client
}

func newVectorClient(cfg config.VectorConfig) *vectorClient {
	return &vectorClient{
		host:      strings.TrimRight(cfg.Host, "/"),
		apiKey:    cfg.APIKey,
		namespace: cfg.IndexName,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type vectorRecord struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata interview.Session `json:"metadata"`
}

type upsertRequest struct {
	Records []vectorRecord `json:"records"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float64           `json:"score"`
		Metadata interview.Session `json:"metadata"`
	} `json:"matches"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upsert indexes one record per question plus a session-level record, all
// carrying the full session as metadata.
func (c *vectorClient) Upsert(ctx context.Context, session interview.Session) error {
	records := make([]vectorRecord, 0, len(session.Questions)+1)
	for i, question := range session.Questions {
		records = append(records, vectorRecord{
			ID:       fmt.Sprintf("%s-%d", session.SessionID, i),
			Text:     question,
			Metadata: session,
		})
	}
	records = append(records, vectorRecord{
		ID:       session.SessionID,
		Text:     fmt.Sprintf("Session for %s (%s)", session.JobRole, session.ExperienceLevel),
		Metadata: session,
	})

	var resp queryResponse
	return c.post(ctx, "/records/upsert", upsertRequest{Records: records}, &resp)
}

// Query returns sessions ranked by relevance, deduplicated by session id in
// match order.
func (c *vectorClient) Query(ctx context.Context, query string, limit int) ([]interview.Session, error) {
	var resp queryResponse
	// Over-fetch: several matches may collapse into one session.
	if err := c.post(ctx, "/records/query", queryRequest{Query: query, TopK: limit * 2}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("vector index error: %s", resp.Error.Message)
	}

	seen := make(map[string]bool)
	sessions := make([]interview.Session, 0, limit)
	for _, match := range resp.Matches {
		id := match.Metadata.SessionID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		sessions = append(sessions, match.Metadata)
		if limit > 0 && len(sessions) >= limit {
			break
		}
	}
	return sessions, nil
}

func (c *vectorClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/namespaces/%s%s", c.host, c.namespace, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("vector index request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read vector index response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vector index status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode vector index response: %w", err)
		}
	}
	return nil
}
