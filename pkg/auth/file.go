package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileTokenStore persists the token as {"authToken": "..."} so it survives restarts.
type FileTokenStore struct {
	mu       sync.Mutex
	filePath string
}

func NewFileTokenStore(filePath string) *FileTokenStore {
	return &FileTokenStore{filePath: filePath}
}

func (s *FileTokenStore) LoadToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.read()
	if err != nil {
		return "", err
	}

	token := slot[TokenKey]
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *FileTokenStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(map[string]string{TokenKey: token})
}

func (s *FileTokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.filePath, err)
	}
	return nil
}

func (s *FileTokenStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.filePath, err)
	}

	slot := map[string]string{}
	if len(data) == 0 {
		return slot, nil
	}
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", s.filePath, err)
	}
	return slot, nil
}

func (s *FileTokenStore) write(slot map[string]string) error {
	data, err := json.MarshalIndent(slot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if dir := filepath.Dir(s.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
