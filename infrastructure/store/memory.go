package store

import (
	"context"
	"sync"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// MemoryStore is a SessionStore keeping sessions in process memory.
// It round-trips every session through the document codec, so it
// exercises the same serialization path as the durable store.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string][]byte)}
}

// Persist implements ports.SessionStore.
func (s *MemoryStore) Persist(ctx context.Context, session *domain.InterviewSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[session.ID] = data
	return nil
}

// Load implements ports.SessionStore.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.InterviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return decodeSession(data)
}

// Len reports how many sessions the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
