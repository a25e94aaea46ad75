package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-client/internal/api"
	"quiz-client/internal/api/apitest"
	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/infra/postgres"
	infraredis "quiz-client/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const clientID = "integration"

func TestQuizRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	group, err := postgres.Migrate(ctx, pgURL)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if group.IsZero() {
		t.Fatalf("expected the first migration run to apply something")
	}
	if group, err = postgres.Migrate(ctx, pgURL); err != nil || !group.IsZero() {
		t.Fatalf("expected a second migration run to be a no-op, got %v, %v", group, err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	backend := apitest.NewBackend()
	backend.AddUser("alice", "secret", true)
	backend.AddCourse("go", apitest.Course{Questions: apitest.Questions(30), FreeMax: 15, SubscribedMax: 30})
	apiServer := httptest.NewServer(backend.Router())
	defer apiServer.Close()

	client := api.NewClient(apiServer.URL, 5*time.Second)
	deps := app.Options{
		ClientID:    clientID,
		API:         client,
		Questions:   infraredis.NewQuestionCache(redisClient, client, time.Minute),
		Credentials: infraredis.NewCredentialStore(redisClient, time.Hour),
		Results:     postgres.NewResultStore(pool),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ctrl := app.NewController(deps)
	defer ctrl.Close()
	if err := ctrl.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := ctrl.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := ctrl.Start(ctx, "Alice", "go", 25); err != nil {
		t.Fatalf("start: %v", err)
	}
	// the clock follows the course's tier max (30), not the requested count
	if q := ctrl.View().Question; q == nil || q.Total != 25 || !(strings.HasPrefix(q.Remaining, "60:") || strings.HasPrefix(q.Remaining, "59:")) {
		t.Fatalf("expected 25 questions on a 60:00 clock, got %+v", q)
	}
	for i := 0; ctrl.View().Screen == "quiz"; i++ {
		option := "wrong"
		if i%5 != 0 {
			option = "right"
		}
		if err := ctrl.SelectOption(option); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if err := ctrl.Next(ctx); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	res := ctrl.View().Result
	if res == nil || res.Score != 20 || res.Percentage != "80.00%" {
		t.Fatalf("expected 20/25 (80.00%%), got %+v", res)
	}

	history, err := ctrl.History(ctx, 5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Score != 20 || history[0].Total != 25 || history[0].TimedOut {
		t.Fatalf("unexpected history %+v", history)
	}

	// a second client with the same id picks the stored session up from redis
	restored := app.NewController(deps)
	defer restored.Close()
	if err := restored.Initialize(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if v := restored.View(); v.Screen != "start" || v.Username != "alice" {
		t.Fatalf("expected restored session on start screen, got %s/%s", v.Screen, v.Username)
	}

	if err := restored.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := deps.Credentials.Load(ctx, clientID); err != domain.ErrNoCredentials {
		t.Fatalf("expected credentials to be cleared, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
