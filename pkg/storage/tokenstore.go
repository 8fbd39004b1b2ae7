package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the single opaque session token on disk. It is the only
// durable state the gateway owns; everything else is re-derived from the
// remote service on startup.
type TokenStore struct {
	path string
}

// NewTokenStore ensures the parent directory exists and returns a handle.
func NewTokenStore(path string) (*TokenStore, error) {
	if path == "" {
		path = "./.resulto/token"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token directory: %w", err)
	}
	return &TokenStore{path: path}, nil
}

// Save writes the token, replacing any previous value.
func (s *TokenStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" when none exists.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read session token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored token if present.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
