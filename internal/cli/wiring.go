package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"kviz/internal/app"
	"kviz/internal/config"
	"kviz/internal/infra/jsonl"
	"kviz/internal/infra/memory"
	pgloader "kviz/internal/infra/postgres"
	infraredis "kviz/internal/infra/redis"
	"kviz/internal/infra/sqlite"
	"kviz/internal/logging"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// loadConfig reads the config file and applies the verbose switch.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	logging.SetVerbose(verbose || cfg.Log.Verbose)
	return cfg, nil
}

// newQuizService wires the question source and session store described by cfg.
// The returned cleanup releases every connection it opened.
func newQuizService(ctx context.Context, cfg config.Config) (*app.QuizService, func(), error) {
	loader, cleanup, err := newBankLoader(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	keepFor := sessionTTL(cfg)

	var (
		source app.QuestionSource
		store  app.SessionRepository
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		source = infraredis.NewQuestionRepository(redisClient, loader, bankTTL)
		store = infraredis.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, keepFor))
		prev := cleanup
		cleanup = func() {
			_ = redisClient.Close()
			prev()
		}
	} else {
		source = memory.NewQuestionRepository(loader, bankTTL)
		store = memory.NewSessionStore(keepFor)
	}

	timeout := config.TTLDuration(cfg.Source.Timeout, app.DefaultLoadTimeout)
	service := app.NewQuizService(store, source, memory.SampleQuestions(), app.WithLoadTimeout(timeout))
	return service, cleanup, nil
}

// sessionTTL is how long a session is kept once it could have finished. The Redis
// liveness marker may override it; the in-memory store never reads redis.ttl.
func sessionTTL(cfg config.Config) time.Duration {
	return config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
}

// newBankLoader picks the first configured backing store: Postgres, SQLite, a
// line-record URL, a line-record file, then the built-in samples.
func newBankLoader(ctx context.Context, cfg config.Config) (memory.BankLoader, func(), error) {
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Printf("question bank: postgres")
		return pgloader.NewQuestionLoader(pool), pool.Close, nil
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("question bank: sqlite %s", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil
	case cfg.Source.JSONLURL != "":
		timeout := config.TTLDuration(cfg.Source.Timeout, app.DefaultLoadTimeout)
		log.Printf("question bank: %s", cfg.Source.JSONLURL)
		return jsonl.NewHTTPLoader(cfg.Source.JSONLURL, &http.Client{Timeout: timeout}), func() {}, nil
	case cfg.Source.JSONLPath != "":
		log.Printf("question bank: %s", cfg.Source.JSONLPath)
		return jsonl.NewFileLoader(cfg.Source.JSONLPath), func() {}, nil
	default:
		log.Printf("question bank: built-in samples")
		return memory.NewStaticBankLoader(memory.SampleQuestions()), func() {}, nil
	}
}
