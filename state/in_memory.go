package state

import (
	"context"
	"sync"

	"github.com/hupe1980/turngate/core"
)

// InMemoryStore is a volatile core.StateStore implementation keeping both
// partitions in process local maps. It is safe for concurrent access and
// best suited for tests or ephemeral demo gateways. Records are cloned on
// the way in and out to prevent external mutation of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.ConversationState
	users         map[string]*core.UserAuthState
}

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]*core.ConversationState),
		users:         make(map[string]*core.UserAuthState),
	}
}

// LoadConversation returns a clone of the stored conversation record, or a
// zero-value record when the key is absent. A missing key is never an error.
func (s *InMemoryStore) LoadConversation(_ context.Context, key string) (*core.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.conversations[key]; ok {
		return st.Clone(), nil
	}
	return &core.ConversationState{}, nil
}

// SaveConversation stores a clone of the provided record snapshot. The write
// replaces the previous value atomically under the store lock.
func (s *InMemoryStore) SaveConversation(_ context.Context, key string, st *core.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[key] = st.Clone()
	return nil
}

// LoadUser returns a clone of the stored user record, or a zero-value record
// when the key is absent.
func (s *InMemoryStore) LoadUser(_ context.Context, key string) (*core.UserAuthState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.users[key]; ok {
		return st.Clone(), nil
	}
	return &core.UserAuthState{}, nil
}

// SaveUser stores a clone of the provided record snapshot.
func (s *InMemoryStore) SaveUser(_ context.Context, key string, st *core.UserAuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[key] = st.Clone()
	return nil
}
