package app

import (
	"context"
	"time"

	"quiz-client/internal/domain"
	"quiz-client/internal/view"
)

// API is the remote quiz backend.
type API interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password, token string) (domain.LoginResult, error)
	Logout(ctx context.Context, username, token string) error
	VerifyAccess(ctx context.Context, username, token, code string, months int) (domain.AccessResult, error)
}

// QuestionRepository loads question sets (directly from the API or through a cache).
type QuestionRepository interface {
	Questions(ctx context.Context, q domain.QuestionQuery) (domain.QuestionSet, error)
}

// CredentialStore persists the logged-in user between runs, keyed by client id.
type CredentialStore interface {
	Load(ctx context.Context, clientID string) (domain.Credentials, error)
	Save(ctx context.Context, clientID string, creds domain.Credentials) error
	Clear(ctx context.Context, clientID string) error
}

// ResultStore keeps the history of finished quizzes.
type ResultStore interface {
	SaveResult(ctx context.Context, result domain.Result) error
	ListResults(ctx context.Context, username string, limit int) ([]domain.Result, error)
}

// Renderer receives a fresh view after every transition. It is called with the
// controller lock held and must not call back into the controller.
type Renderer interface {
	Render(v view.View)
}

// Scheduler runs timer callbacks. Returned stop functions are safe to call more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
	After(d time.Duration, fn func()) (stop func())
}
