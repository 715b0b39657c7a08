// Package memory keeps conversation history in process memory. History is
// lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"aiact/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string][]domain.Message), now: time.Now}
}

func (s *Store) AppendMessage(_ context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	})
	return nil
}

// History returns a copy of the session's messages in insertion order.
func (s *Store) History(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) Delete(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok, nil
}

func (s *Store) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
