package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"fishwrapper-service/internal/app"
	"fishwrapper-service/internal/config"
	"fishwrapper-service/internal/domain"
	"fishwrapper-service/internal/infra/memory"
	"fishwrapper-service/internal/infra/postgres"
	infraredis "fishwrapper-service/internal/infra/redis"
	transport "fishwrapper-service/internal/transport/http"
)

// backendStore is what a persistence backend must cover to run the site.
type backendStore interface {
	app.QuizStore
	app.TimelineStore
	app.CounterStore
	app.EditorStore
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the fishwrapper backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var store backendStore = memory.NewStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = postgres.NewStore(pool)
	}
	if err := seedWeekCounter(ctx, store); err != nil {
		return err
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var reader app.QuizReader
	if redisClient != nil {
		reader = infraredis.NewQuizCache(redisClient, store, quizTTL)
	} else {
		reader = memory.NewQuizCache(store, quizTTL)
	}

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient)
	} else {
		sessions = memory.NewSessionStore()
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret = "fishwrapper-dev-secret"
	}
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)

	feed := app.NewStoryFeed()
	quizzes := app.NewQuizService(store, reader)
	timeline := app.NewTimelineScheduler(store, store, feed)
	auth := app.NewAuthService(store, sessions, cfg.Session.Mode, []byte(secret), sessionTTL)

	handler := transport.NewHandler(quizzes, timeline, auth, feed, transport.Options{
		CookieName: cfg.CookieName(),
		SessionTTL: sessionTTL,
		BaseURL:    cfg.Server.BaseURL,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting fishwrapper backend on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedWeekCounter makes sure the timeline week counter exists; the postgres
// migration seeds it, the in-memory store starts empty.
func seedWeekCounter(ctx context.Context, store backendStore) error {
	_, err := store.GetCounter(ctx, app.WeekCounter)
	if errors.Is(err, domain.ErrCounterNotFound) {
		return store.SetCounter(ctx, app.WeekCounter, 1)
	}
	return err
}
