package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"workforce-ops-api-server/internal/models"
)

// Session là thông tin đăng nhập hiện tại: token JWT và user tương ứng.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// SessionStore persists the session between calls. A zero Session means logged out.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore giữ session trong bộ nhớ; dùng cho test và tool chạy một lần.
type MemoryStore struct {
	mu sync.RWMutex
	s  Session
}

func NewMemoryStore(initial Session) *MemoryStore {
	return &MemoryStore{s: initial}
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Save(Session{})
}

// FileStore lưu session thành file JSON (quyền 0600).
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s Session
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to decode session file: %w", err)
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
