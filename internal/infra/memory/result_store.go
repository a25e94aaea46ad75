package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-client/internal/domain"
)

// ResultStore keeps finished quiz results for the lifetime of the process.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string][]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string][]domain.Result)}
}

func (s *ResultStore) SaveResult(_ context.Context, r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.Username] = append(s.results[r.Username], r)
	return nil
}

// ListResults returns up to limit results of username, newest first. A limit <= 0 returns all.
func (s *ResultStore) ListResults(_ context.Context, username string, limit int) ([]domain.Result, error) {
	s.mu.RLock()
	out := append([]domain.Result(nil), s.results[username]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
