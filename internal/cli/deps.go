package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"quiz-client/internal/api"
	"quiz-client/internal/app"
	"quiz-client/internal/config"
	"quiz-client/internal/infra/file"
	"quiz-client/internal/infra/memory"
	"quiz-client/internal/infra/postgres"
	redisstore "quiz-client/internal/infra/redis"
	"quiz-client/internal/lib/slogcustom"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// credentialBackend picks the store used when redis is not configured.
type credentialBackend int

const (
	credentialsInFile credentialBackend = iota
	credentialsInMemory
)

// deps are the long-lived collaborators shared by every controller of a process.
type deps struct {
	cfg         config.Config
	log         *slog.Logger
	client      *api.Client
	questions   app.QuestionRepository
	credentials app.CredentialStore
	results     app.ResultStore

	closers []func()
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", flags.configPath, err)
	}
	cfg.ApplyEnv()
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	return cfg, nil
}

func buildDeps(ctx context.Context, flags *rootFlags, fallback credentialBackend) (*deps, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	d := &deps{
		cfg: cfg,
		log: slogcustom.New(os.Stderr, cfg.Log.Level),
	}

	d.client = api.NewClient(cfg.API.BaseURL, config.TTLDuration(cfg.API.Timeout, 0))
	d.questions = d.client

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	if cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, 0); cacheTTL > 0 {
		if redisClient != nil {
			d.questions = redisstore.NewQuestionCache(redisClient, d.client, cacheTTL)
		} else {
			d.questions = memory.NewQuestionCache(d.client, cacheTTL)
		}
	}

	switch {
	case redisClient != nil:
		d.credentials = redisstore.NewCredentialStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour))
	case fallback == credentialsInFile:
		d.credentials = file.NewCredentialStore(cfg.Storage.File)
	default:
		d.credentials = memory.NewCredentialStore()
	}

	if cfg.Postgres.URL != "" {
		if _, err := postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
			d.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		d.results = postgres.NewResultStore(pool)
	} else {
		d.results = memory.NewResultStore()
	}

	d.log.Debug("dependencies ready",
		"api", cfg.API.BaseURL,
		"redis", redisClient != nil,
		"postgres", cfg.Postgres.URL != "",
	)
	return d, nil
}

// controller builds a Controller for clientID rendering to r.
func (d *deps) controller(clientID string, r app.Renderer) *app.Controller {
	return app.NewController(app.Options{
		ClientID:         clientID,
		API:              d.client,
		Questions:        d.questions,
		Credentials:      d.credentials,
		Results:          d.results,
		Renderer:         r,
		Logger:           d.log,
		Rand:             rand.New(rand.NewSource(time.Now().UnixNano())),
		FreeCounts:       d.cfg.Quiz.FreeCounts,
		SubscribedCounts: d.cfg.Quiz.SubscribedCounts,
		NoticeDelay:      config.TTLDuration(d.cfg.UI.NoticeDelay, 3*time.Second),
		GuardInterval:    config.TTLDuration(d.cfg.Guard.Interval, time.Second),
		GuardThreshold:   d.cfg.Guard.Threshold,
	})
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
