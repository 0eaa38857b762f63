package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/draftroom/bestball-draft/internal/analytics"
	"github.com/draftroom/bestball-draft/internal/auth"
	"github.com/draftroom/bestball-draft/internal/dal"
	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/handlers"
	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/mocks"
	"github.com/draftroom/bestball-draft/internal/pubsub"
	"github.com/draftroom/bestball-draft/internal/ws"
)

// DefaultParticipantCount is the seat count used when PARTICIPANT_COUNT
// is not set. Rooms of other sizes configure it explicitly.
const DefaultParticipantCount = 12

// analyticsClient is what the ADP pipeline needs from ClickHouse; the
// mock satisfies it too.
type analyticsClient interface {
	RecordPick(draftID, playerID string, pickNumber int) error
	SyncADP(updateFunc func(playerID string, adp float64) error) error
	Close() error
}

// upstreamBroker is an Upstream we also have to shut down.
type upstreamBroker interface {
	pubsub.Upstream
	Close()
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init()
	logger.Info("starting best-ball draft service")

	environment := os.Getenv("ENVIRONMENT")
	dev := environment == "" || environment == "development"

	cfg, err := draft.NewConfig(
		envInt("PARTICIPANT_COUNT", DefaultParticipantCount),
		envInt("TOTAL_ROUNDS", 0),
	)
	if err != nil {
		logger.Error("invalid draft configuration", "error", err)
		log.Fatalf("invalid draft configuration: %v", err)
	}

	dataStore := openDataStore(cfg, dev)
	broker := openBroker(dev)
	ps := pubsub.NewWithUpstream(broker)

	ac := openAnalytics(dev)
	draftID := os.Getenv("DRAFT_ID")
	if draftID == "" {
		draftID = "local"
	}

	// Every completed pick feeds the ADP aggregate.
	go func() {
		events := ps.Subscribe()
		for event := range events {
			if event.Type != pubsub.EventPick {
				continue
			}
			playerID, _ := event.Payload["playerId"].(string)
			if playerID == "" {
				continue
			}
			if err := ac.RecordPick(draftID, playerID, pickNumber(event)); err != nil {
				logger.Warn("failed to record pick for ADP", "error", err, "player", playerID)
			}
		}
	}()

	// Periodically pull consensus ADP back onto the board.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		syncADP(ac, dataStore)
		for range ticker.C {
			syncADP(ac, dataStore)
		}
	}()

	provider := openAuth(dev)

	api := handlers.NewAPIHandlers(dataStore, ps, cfg)
	router := api.Routes(provider)
	router.Get("/ws", ws.Handler(ps))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", "error", err)
	}

	api.Queues().Close()
	broker.Close()
	if err := ac.Close(); err != nil {
		logger.Warn("failed to close analytics client", "error", err)
	}
	if closer, ok := dataStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close data store", "error", err)
		}
	}
}

// openDataStore picks the storage backend from DB_DRIVER.
func openDataStore(cfg draft.Config, dev bool) dal.DraftDAL {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "memory"
	}

	switch driver {
	case "memory":
		logger.Info("using in-memory data store")
		return dal.NewMemoryDAL(cfg)
	case "sqlite":
		file := os.Getenv("SQLITE_FILE")
		if file == "" {
			file = "dev.sqlite"
		}
		store, err := dal.NewSQLiteDAL(file, cfg)
		if err != nil {
			logger.Error("failed to initialize SQLite", "error", err)
			log.Fatalf("failed to initialize SQLite: %v", err)
		}
		logger.Info("connected to SQLite database", "file", file)
		return store
	case "postgres":
		connString := os.Getenv("DATABASE_URL")
		if connString == "" {
			if dev {
				store, err := mocks.NewMockPostgresDAL("dev.sqlite", cfg)
				if err != nil {
					logger.Error("failed to initialize mock Postgres", "error", err)
					log.Fatalf("failed to initialize mock Postgres: %v", err)
				}
				return store
			}
			logger.Error("DATABASE_URL is required for the postgres driver")
			log.Fatal("DATABASE_URL is required for the postgres driver")
		}
		store, err := dal.NewPostgresDAL(connString, cfg)
		if err != nil {
			logger.Error("failed to initialize Postgres", "error", err)
			log.Fatalf("failed to initialize Postgres: %v", err)
		}
		logger.Info("connected to Postgres database")
		return store
	default:
		logger.Error("unknown DB_DRIVER", "driver", driver)
		log.Fatalf("unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", driver)
		return nil
	}
}

// openBroker starts the event broker. Development runs an embedded NATS
// server so a single binary is a complete draft room.
func openBroker(dev bool) upstreamBroker {
	if os.Getenv("NATS_MODE") == "mock" {
		return mocks.NewMockNATSPubSub()
	}

	subject := os.Getenv("NATS_SUBJECT")
	if subject == "" {
		subject = "draft.events"
	}

	if dev {
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = subject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("failed to start embedded NATS", "error", err)
			log.Fatalf("failed to start embedded NATS: %v", err)
		}
		logger.Info("embedded NATS server ready", "url", embedded.GetServerURL())
		return embedded
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	broker, err := pubsub.NewNATSPubSub(natsURL, subject)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	logger.Info("connected to NATS", "url", natsURL)
	return broker
}

// openAnalytics connects to ClickHouse in production; development gets
// the mock so ADP still moves.
func openAnalytics(dev bool) analyticsClient {
	if dev {
		return mocks.NewMockAnalyticsClient()
	}

	addr := os.Getenv("CLICKHOUSE_ADDR")
	if addr == "" {
		addr = "localhost:9000"
	}
	database := os.Getenv("CLICKHOUSE_DB")
	if database == "" {
		database = "default"
	}
	username := os.Getenv("CLICKHOUSE_USER")
	if username == "" {
		username = "default"
	}
	password := os.Getenv("CLICKHOUSE_PASSWORD")

	client, err := analytics.NewClient(addr, database, username, password)
	if err != nil {
		logger.Error("failed to initialize ClickHouse", "error", err, "address", addr)
		log.Fatalf("failed to initialize ClickHouse: %v", err)
	}
	logger.Info("connected to ClickHouse", "address", addr, "database", database)
	return client
}

// openAuth selects mock auth for development or Authentik for production.
func openAuth(dev bool) auth.AuthProvider {
	if dev {
		logger.Info("using mock authentication for local development")
		return auth.NewMockAuth()
	}

	baseURL := os.Getenv("AUTHENTIK_BASE_URL")
	clientID := os.Getenv("AUTHENTIK_CLIENT_ID")
	clientSecret := os.Getenv("AUTHENTIK_CLIENT_SECRET")
	redirectURL := os.Getenv("AUTHENTIK_REDIRECT_URL")

	if baseURL == "" || clientID == "" || clientSecret == "" {
		logger.Error("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET are required for production")
		log.Fatal("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET are required for production")
	}
	if redirectURL == "" {
		redirectURL = "http://localhost:3000/auth/callback"
	}

	provider := auth.NewAuthentikAuth(&auth.AuthentikConfig{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "profile", "email"},
	})
	logger.Info("connected to Authentik", "url", baseURL)
	return provider
}

// syncADP writes the latest consensus ADP onto every player row.
func syncADP(ac analyticsClient, store dal.DraftDAL) {
	err := ac.SyncADP(func(playerID string, adp float64) error {
		_, err := store.SetPlayerADP(playerID, adp)
		return err
	})
	if err != nil {
		logger.Error("failed to sync ADP", "error", err)
		return
	}
	logger.Debug("ADP synced")
}

// pickNumber digs the pick number out of an event payload. Events that
// crossed NATS come back with JSON numbers as float64.
func pickNumber(event pubsub.Event) int {
	switch n := event.Payload["pickNumber"].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// envInt reads an integer environment variable with a fallback.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("ignoring invalid integer environment variable", "name", name, "value", raw)
		return fallback
	}
	return n
}
