package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps the raw session token in a single file, plus one transient
// sibling file with the "return to this view after login" path. It is the
// only persistent client-side state in the application; nothing outside this
// package touches the files directly.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) returnPath() string {
	return s.path + ".return"
}

// Token returns the stored raw token, or "" when none is stored.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("crear directorio de sesión: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Missing files are not an error: clearing
// an empty store is a no-op.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// Invalidate satisfies the api.TokenSource contract: a 401 means the session
// is gone, so the token is dropped.
func (s *Store) Invalidate() {
	s.Clear()
}

// SetReturnPath records the view the user attempted to reach before being
// redirected to login. A single slot, most-recent-wins.
func (s *Store) SetReturnPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("crear directorio de sesión: %w", err)
	}
	if err := os.WriteFile(s.returnPath(), []byte(path), 0o600); err != nil {
		return fmt.Errorf("guardar ruta de retorno: %w", err)
	}
	return nil
}

// ConsumeReturnPath returns the remembered path and clears the slot.
func (s *Store) ConsumeReturnPath() string {
	data, err := os.ReadFile(s.returnPath())
	if err != nil {
		return ""
	}
	_ = os.Remove(s.returnPath())
	return strings.TrimSpace(string(data))
}
