package storage

import (
	"context"
	"log"
	"sync"

	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/model/interview"
)

// Engine owns the persisted session store. The flat file is the source of
// truth; the optional vector index only improves search ranking. Any vector
// backend failure silently disables it and the file path answers instead, so
// callers never see the difference.
type Engine struct {
	file   *FileStore
	vector *vectorClient

	mu             sync.Mutex
	vectorDisabled bool
}

// NewEngine builds the engine from configuration. The vector backend is
// attached only when configured.
func NewEngine(cfg config.StorageConfig) (*Engine, error) {
	file, err := NewFileStore(cfg.Path)
	if err != nil {
		return nil, err
	}

	engine := &Engine{file: file}
	if cfg.Vector.Enabled() {
		engine.vector = newVectorClient(cfg.Vector)
		log.Printf("[storage] vector index enabled: %s/%s", cfg.Vector.Host, cfg.Vector.IndexName)
	}
	return engine, nil
}

// Save appends the session to the file store and, when the vector backend is
// live, additionally indexes it. Indexing failures are not surfaced.
func (e *Engine) Save(ctx context.Context, req SaveRequest) (interview.Session, error) {
	session, err := e.file.Save(ctx, req)
	if err != nil {
		return interview.Session{}, err
	}

	if vector := e.liveVector(); vector != nil {
		if err := vector.Upsert(ctx, session); err != nil {
			e.disableVector(err)
		}
	}

	return session, nil
}

// Search ranks via the vector index when available, falling back to the file
// store's substring scoring on any failure.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]interview.Session, error) {
	if vector := e.liveVector(); vector != nil {
		sessions, err := vector.Query(ctx, query, limit)
		if err == nil {
			return sessions, nil
		}
		e.disableVector(err)
	}

	return e.file.Search(ctx, query, limit)
}

// Recent always answers from the file store; the vector index has no notion
// of recency.
func (e *Engine) Recent(ctx context.Context, limit int) ([]interview.Session, error) {
	return e.file.Recent(ctx, limit)
}

func (e *Engine) liveVector() *vectorClient {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.vectorDisabled {
		return nil
	}
	return e.vector
}

func (e *Engine) disableVector(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.vectorDisabled {
		log.Printf("[storage] vector index failed, switching to file backend: %v", err)
		e.vectorDisabled = true
	}
}
