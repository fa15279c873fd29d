package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/auth"
	"github.com/DeadlyParkour777/cpp-simulator/internal/cache"
	"github.com/DeadlyParkour777/cpp-simulator/internal/config"
	"github.com/DeadlyParkour777/cpp-simulator/internal/events"
	"github.com/DeadlyParkour777/cpp-simulator/internal/handler"
	"github.com/DeadlyParkour777/cpp-simulator/internal/judge"
	"github.com/DeadlyParkour777/cpp-simulator/internal/lessons"
	"github.com/DeadlyParkour777/cpp-simulator/internal/store"
	"github.com/DeadlyParkour777/cpp-simulator/internal/tutor"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type App struct {
	httpServer *http.Server
	closers    []func() error
}

func New(cfg config.Config) (*App, error) {
	a := &App{}

	judgeClient := judge.NewClient(judge.ClientConfig{
		BaseURL:    cfg.Judge0URL,
		APIKey:     cfg.Judge0APIKey,
		APIHost:    cfg.Judge0APIHost,
		LanguageID: cfg.Judge0LanguageID,
		Timeout:    cfg.Judge0HTTPTimeout,
	})
	runner := judge.NewRunner(judgeClient, cfg.Judge0APIKey != "")
	if cfg.Judge0APIKey == "" {
		log.Println("JUDGE0_API_KEY is not set, code execution is disabled")
	}

	var model tutor.ChatModel
	if cfg.OpenAIAPIKey != "" {
		model = tutor.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY is not set, tutor runs in demo mode")
	}
	tutorService := tutor.NewService(model)

	catalog, err := lessons.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	log.Printf("Loaded %d learning modules", len(catalog.List()))

	publisher := events.NewNoopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		writer := events.NewWriter(cfg.KafkaBrokers, cfg.ExecutionTopic)
		a.closers = append(a.closers, writer.Close)
		publisher = events.NewKafkaPublisher(writer)
		log.Println("Kafka producer initialized")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		a.closers = append(a.closers, redisClient.Close)
		log.Println("Redis cache initialized")
	}

	progressStore, verifier, err := a.progress(cfg, redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	httpHandler := handler.NewHandler(runner, tutorService, catalog, publisher, progressStore, verifier)
	log.Println("HTTP handler initialized")

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// progress returns nil dependencies when learner progress is not configured.
func (a *App) progress(cfg config.Config, redisClient *redis.Client) (store.Store, handler.TokenVerifier, error) {
	if !cfg.ProgressEnabled() {
		log.Println("DB_HOST is not set, learner progress is disabled")
		return nil, nil, nil
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET is not set, learner progress is disabled")
		return nil, nil, nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ping db: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL")

	var tokens cache.JWTCache
	if redisClient != nil {
		tokens = cache.NewRedisJWTCache(redisClient)
	}
	return store.NewStore(db, redisClient), auth.NewVerifier(cfg.JWTSecret, tokens), nil
}

func (a *App) Run() error {
	log.Printf("HTTP server started on %s", a.httpServer.Addr)
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	a.Close()
	return err
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Failed to release resource: %v", err)
		}
	}
	a.closers = nil
}
