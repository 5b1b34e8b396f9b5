package storage

import (
	"context"
	"sync"

	"github.com/garrettladley/whoopy/internal/oauth"
)

const backendMemory = "memory"

var _ Store = (*MemoryStore)(nil)

// MemoryStore holds the encoded token in process memory. Tokens go through
// the same codec as the durable stores.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (*oauth.Token, error) {
	m.mu.RLock()
	data := m.data
	m.mu.RUnlock()

	if data == nil {
		return nil, &StorageError{Op: OpLoad, Backend: backendMemory, Err: ErrNotFound}
	}
	token, err := Unmarshal(data)
	if err != nil {
		return nil, &StorageError{Op: OpLoad, Backend: backendMemory, Err: err}
	}
	return token, nil
}

func (m *MemoryStore) Save(_ context.Context, token *oauth.Token) error {
	data, err := Marshal(token)
	if err != nil {
		return &StorageError{Op: OpSave, Backend: backendMemory, Err: err}
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
