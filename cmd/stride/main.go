// Command stride is a small demo client. Pointed at a real backend via
// STRIDE_API_URL it logs in and reads data through the resilient transport;
// with no backend configured it spins up the in-process fixture and walks
// the refresh path against it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	stride "github.com/striderun/stride-go"
	"github.com/striderun/stride-go/adapters/events"
	"github.com/striderun/stride-go/adapters/store"
	"github.com/striderun/stride-go/api"
	"github.com/striderun/stride-go/core"
	"github.com/striderun/stride-go/internal/apitest"
	"github.com/striderun/stride-go/ports"
)

func main() {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// With no configured backend, run against the in-process fixture.
	baseURL := os.Getenv("STRIDE_API_URL")

	var fixture *apitest.Server
	if baseURL == "" {
		fixture = apitest.New()
		defer fixture.Close()
		baseURL = fixture.URL
		logger.Info("no STRIDE_API_URL set, using in-process fixture", zap.String("url", baseURL))
	}

	// Credentials live in Redis when available, otherwise in a local file.
	var credStore ports.CredentialStore
	var redisClient *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		credStore = store.NewRedisStore(redisClient)
	} else {
		credStore = store.NewFileStore(getEnv("STRIDE_TOKEN_FILE", ".stride-tokens.json"))
	}

	client := stride.NewClient(baseURL, credStore, stride.WithLogger(logger))

	// Forward auth events onto a Redis stream so other instances sharing
	// the credential store learn about session changes too.
	if redisClient != nil {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		detach := events.Forward(client.Events(), events.NewWatermillPublisher(publisher), logger)
		defer detach()
	}

	client.Events().Subscribe(stride.EventTokenRefreshed, func(core.AuthEvent) {
		logger.Info("session renewed")
	})
	client.Events().Subscribe(stride.EventAuthFailed, func(ev core.AuthEvent) {
		logger.Warn("session ended", zap.String("reason", ev.Message), zap.String("target", ev.Target))
	})

	if err := run(context.Background(), api.New(client), fixture); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, client *api.Client, fixture *apitest.Server) error {
	email := getEnv("STRIDE_EMAIL", apitest.Email)
	password := getEnv("STRIDE_PASSWORD", apitest.Password)

	user, err := client.Auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)

	runs, err := client.Runs.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("list runs failed: %w", err)
	}
	for _, r := range runs {
		fmt.Printf("  %s  %s km  %ds  %s\n", r.Date.Format("2006-01-02"), r.DistanceKm, r.DurationSeconds, r.Notes)
	}

	// Against the fixture, force a 401 to show the transparent refresh.
	if fixture != nil {
		fixture.ExpireAccess()
	}

	stats, err := client.Stats.Summary(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	fmt.Printf("total: %d runs, %s km\n", stats.TotalRuns, stats.TotalDistanceKm)

	return client.Auth.Logout(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
