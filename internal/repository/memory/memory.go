package memory

import (
	"context"
	"sync"

	"github.com/hardwayp3nny/ioweb/internal/repository"
)

// Store держит снапшот в памяти процесса. Используется по умолчанию и в тестах.
type Store struct {
	mu  sync.RWMutex
	doc []byte
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, repository.ErrNotFound
	}

	out := make([]byte, len(s.doc))
	copy(out, s.doc)
	return out, nil
}

func (s *Store) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(doc))
	copy(stored, doc)

	s.mu.Lock()
	s.doc = stored
	s.mu.Unlock()
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
