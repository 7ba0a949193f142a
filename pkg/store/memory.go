package store

import (
	"context"
	"sync"
)

// Memory is a process-local TokenStore.
type Memory struct {
	mu       sync.RWMutex
	csrf     string
	bearer   string
	userData map[string]any
}

var _ TokenStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{userData: make(map[string]any)}
}

func (m *Memory) StoreCSRFToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csrf = token
	return nil
}

func (m *Memory) StoreBearerToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bearer = token
	return nil
}

func (m *Memory) CSRFToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.csrf, nil
}

func (m *Memory) BearerToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bearer, nil
}

func (m *Memory) StoreUserData(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userData == nil {
		m.userData = make(map[string]any)
	}
	m.userData[key] = value
	return nil
}

func (m *Memory) UserData(_ context.Context, key string, def any) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.userData[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) ClearUserData(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userData, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csrf = ""
	m.bearer = ""
	return nil
}
