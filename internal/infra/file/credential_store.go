// Package file persists client credentials in a YAML file, the terminal
// counterpart of a browser's local storage.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quiz-client/internal/domain"

	"gopkg.in/yaml.v3"
)

type document struct {
	Clients map[string]domain.Credentials `yaml:"clients"`
}

// CredentialStore reads and rewrites one YAML document per operation.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) Load(_ context.Context, clientID string) (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return domain.Credentials{}, err
	}
	creds, ok := doc.Clients[clientID]
	if !ok || creds.Username == "" || creds.SessionToken == "" {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return creds, nil
}

func (s *CredentialStore) Save(_ context.Context, clientID string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Clients[clientID] = creds
	return s.write(doc)
}

func (s *CredentialStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Clients[clientID]; !ok {
		return nil
	}
	delete(doc.Clients, clientID)
	return s.write(doc)
}

func (s *CredentialStore) read() (document, error) {
	doc := document{Clients: make(map[string]domain.Credentials)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Clients == nil {
		doc.Clients = make(map[string]domain.Credentials)
	}
	return doc, nil
}

// write replaces the file atomically; the token is a secret, so the file is 0600.
func (s *CredentialStore) write(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
