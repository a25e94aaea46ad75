// Package apitest provides an in-process quiz backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"quiz-client/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Course is the question bank of one course with its per-tier caps.
type Course struct {
	Questions     []domain.Question
	FreeMax       int
	SubscribedMax int
}

type user struct {
	password   string
	token      string
	subscribed bool
}

// Backend mimics the remote quiz API closely enough for client tests.
type Backend struct {
	mu          sync.Mutex
	users       map[string]*user
	courses     map[string]Course
	codes       map[string]struct{}
	failLogout  bool
	calls       []string
	lastQueries []string
}

func NewBackend() *Backend {
	return &Backend{
		users:   make(map[string]*user),
		courses: make(map[string]Course),
		codes:   make(map[string]struct{}),
	}
}

func (b *Backend) AddUser(username, password string, subscribed bool) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.users[username] = &user{password: password, token: token, subscribed: subscribed}
	return token
}

func (b *Backend) AddCourse(name string, course Course) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses[name] = course
}

func (b *Backend) AddCode(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[code] = struct{}{}
}

// FailLogout makes /logout answer 500.
func (b *Backend) FailLogout(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failLogout = fail
}

// Token returns the live session token of username, empty if logged out.
func (b *Backend) Token(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[username]; ok {
		return u.token
	}
	return ""
}

// Calls returns the request paths seen so far.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// LastQuery returns the raw query of the most recent /questions call.
func (b *Backend) LastQuery() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lastQueries) == 0 {
		return ""
	}
	return b.lastQueries[len(b.lastQueries)-1]
}

// Router exposes the backend routes.
func (b *Backend) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/register", b.register).Methods(http.MethodPost)
	r.HandleFunc("/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", b.logout).Methods(http.MethodPost)
	r.HandleFunc("/verify-access", b.verifyAccess).Methods(http.MethodPost)
	r.HandleFunc("/questions", b.questions).Methods(http.MethodGet)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Username and password are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[in.Username]; ok {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "User already exists"})
		return
	}
	b.users[in.Username] = &user{password: in.Password}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully"})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[in.Username]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}
	auth := r.Header.Get("Authorization")
	sessionCheck := in.Password == "" && auth != "" && auth == u.token
	if !sessionCheck && (in.Password == "" || in.Password != u.password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}
	u.token = uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"sessionToken": u.token,
		"isSubscribed": u.subscribed,
	})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failLogout {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "logout unavailable"})
		return
	}
	u, ok := b.authorizedLocked(in.Username, r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid session"})
		return
	}
	u.token = ""
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (b *Backend) verifyAccess(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Code     string `json:"code"`
		Months   int    `json:"subscriptionMonths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.authorizedLocked(in.Username, r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid session"})
		return
	}
	if _, ok := b.codes[in.Code]; !ok || in.Months <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid access code"})
		return
	}
	u.subscribed = true
	writeJSON(w, http.StatusOK, map[string]any{"message": "Access granted", "isSubscribed": true})
}

func (b *Backend) questions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastQueries = append(b.lastQueries, r.URL.RawQuery)
	u, ok := b.authorizedLocked(q.Get("username"), r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid session"})
		return
	}
	if _, err := strconv.Atoi(q.Get("count")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid count"})
		return
	}
	course, ok := b.courses[q.Get("course")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Course not found"})
		return
	}
	max := course.FreeMax
	if u.subscribed {
		max = course.SubscribedMax
	}
	writeJSON(w, http.StatusOK, domain.QuestionSet{Questions: course.Questions, MaxQuestions: max})
}

func (b *Backend) authorizedLocked(username string, r *http.Request) (*user, bool) {
	u, ok := b.users[username]
	if !ok || u.token == "" || r.Header.Get("Authorization") != u.token {
		return nil, false
	}
	return u, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Questions builds n numbered questions whose correct option is always "right".
func Questions(n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{
			Text:    "Question " + strconv.Itoa(i+1),
			Options: []string{"wrong", "right", "other"},
			Correct: "right",
		}
	}
	return out
}
