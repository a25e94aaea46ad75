package memory

import (
	"context"
	"sync"

	"quiz-client/internal/domain"
)

// CredentialStore is an in-memory implementation of app.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credentials
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]domain.Credentials),
	}
}

func (s *CredentialStore) Load(_ context.Context, clientID string) (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.creds[clientID]
	if !ok {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return creds, nil
}

func (s *CredentialStore) Save(_ context.Context, clientID string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[clientID] = creds
	return nil
}

func (s *CredentialStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, clientID)
	return nil
}
