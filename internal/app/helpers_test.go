package app_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"quiz-client/internal/api"
	"quiz-client/internal/api/apitest"
	"quiz-client/internal/app"
	"quiz-client/internal/infra/memory"
	"quiz-client/internal/view"
)

const clientID = "test-client"

type fakeTimer struct {
	d       time.Duration
	fn      func()
	every   bool
	stopped bool
}

// fakeScheduler fires timers only when a test asks it to.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) add(d time.Duration, fn func(), every bool) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn, every: every}
	s.timers = append(s.timers, t)
	return func() {
		s.mu.Lock()
		t.stopped = true
		s.mu.Unlock()
	}
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) func() { return s.add(d, fn, true) }

func (s *fakeScheduler) After(d time.Duration, fn func()) func() { return s.add(d, fn, false) }

func (s *fakeScheduler) active(every bool) []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && t.every == every {
			out = append(out, t)
		}
	}
	return out
}

// Tick fires every repeating timer once.
func (s *fakeScheduler) Tick() {
	for _, t := range s.active(true) {
		t.fn()
	}
}

// Ticks fires n rounds of Tick.
func (s *fakeScheduler) Ticks(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Elapse fires pending one-shot timers.
func (s *fakeScheduler) Elapse() {
	for _, t := range s.active(false) {
		s.mu.Lock()
		t.stopped = true
		s.mu.Unlock()
		t.fn()
	}
}

func (s *fakeScheduler) Repeating() int { return len(s.active(true)) }

type renderLog struct {
	mu    sync.Mutex
	views []view.View
}

func (r *renderLog) Render(v view.View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
}

func (r *renderLog) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

type harness struct {
	backend *apitest.Backend
	ctrl    *app.Controller
	sched   *fakeScheduler
	creds   *memory.CredentialStore
	results *memory.ResultStore
	renders *renderLog
}

func newHarness(t *testing.T, tweak ...func(*app.Options)) *harness {
	t.Helper()
	backend := apitest.NewBackend()
	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, 0)
	h := &harness{
		backend: backend,
		sched:   &fakeScheduler{},
		creds:   memory.NewCredentialStore(),
		results: memory.NewResultStore(),
		renders: &renderLog{},
	}
	opts := app.Options{
		ClientID:    clientID,
		API:         client,
		Questions:   client,
		Credentials: h.creds,
		Results:     h.results,
		Renderer:    h.renders,
		Scheduler:   h.sched,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:        rand.New(rand.NewSource(7)),
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	h.ctrl = app.NewController(opts)
	t.Cleanup(h.ctrl.Close)
	return h
}

// loggedIn registers a user in the backend and logs the controller in.
func (h *harness) loggedIn(t *testing.T, subscribed bool) {
	t.Helper()
	h.backend.AddUser("alice", "secret", subscribed)
	if err := h.ctrl.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !subscribed {
		if err := h.ctrl.ProceedAsFreeUser(); err != nil {
			t.Fatalf("continue free: %v", err)
		}
	}
}

// answerAll answers every question, correctly when right(i) holds, and presses next.
func (h *harness) answerAll(t *testing.T, right func(i int) bool) []string {
	t.Helper()
	ctx := context.Background()
	var seen []string
	for i := 0; h.ctrl.View().Screen == "quiz"; i++ {
		q := h.ctrl.View().Question
		seen = append(seen, q.Text)
		option := "wrong"
		if right(i) {
			option = "right"
		}
		if err := h.ctrl.SelectOption(option); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if err := h.ctrl.Next(ctx); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	return seen
}
