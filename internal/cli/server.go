package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ismailukman/millionaire-live/internal/app"
	"github.com/ismailukman/millionaire-live/internal/config"
	"github.com/ismailukman/millionaire-live/internal/domain"
	"github.com/ismailukman/millionaire-live/internal/infra/memory"
	pgstore "github.com/ismailukman/millionaire-live/internal/infra/postgres"
	redisstore "github.com/ismailukman/millionaire-live/internal/infra/redis"
	"github.com/ismailukman/millionaire-live/internal/livesync"
	transport "github.com/ismailukman/millionaire-live/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := newLogger()

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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// The bundled pack is always servable; Postgres adds author packs.
	builtin := map[string]struct{}{memory.DefaultPackID: {}}
	var loader memory.PackLoader = memory.NewStaticPackLoader(builtinPacks())
	if pool != nil {
		loader = fallbackLoader{
			primary:  pgstore.NewPackLoader(pool),
			builtin:  memory.NewStaticPackLoader(builtinPacks()),
			builtins: builtin,
		}
	}

	packTTL := config.TTLDuration(cfg.Pack.TTL, 10*time.Minute)
	var packRepo app.PackRepository
	if redisClient != nil {
		packRepo = redisstore.NewPackRepository(redisClient, loader, packTTL)
	} else {
		packRepo = memory.NewPackRepository(loader, packTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	identity := app.StaticIdentity{UserID: hostIdentity()}

	var sink app.OutcomeSink
	var leaderboard *redisstore.Leaderboard
	if redisClient != nil {
		leaderboard = redisstore.NewLeaderboard(redisClient)
		sink = leaderboard
	}

	var factory *livesync.Factory
	if cfg.Live.Enabled {
		var docs livesync.DocumentStore
		if redisClient != nil {
			docs = redisstore.NewDocumentStore(redisClient)
		} else {
			logger.Warn().Msg("live.enabled without redis.addr, using in-process document store")
			docs = memory.NewDocumentStore()
		}
		factory = livesync.NewFactory(docs, identity, logger)
	}

	opts := app.Options{
		Timer:      app.TimerConfig{Enabled: cfg.Game.Timed, Seconds: cfg.Game.TimerSeconds},
		FFFSeconds: cfg.Game.FFFSeconds,
		Sink:       sink,
		Identity:   identity,
		Logger:     logger,
	}
	if factory != nil {
		opts.Live = factory
	}
	service := app.NewSessionService(store, packRepo, opts)
	if factory != nil {
		factory.BindHooks(service)
	}

	wsHandler := transport.NewWSHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	if leaderboard != nil {
		mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			n, _ := strconv.Atoi(r.URL.Query().Get("n"))
			entries, err := leaderboard.Top(r.Context(), n)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(entries)
		})
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting game server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func builtinPacks() map[string]domain.Pack {
	return map[string]domain.Pack{
		memory.DefaultPackID: memory.DefaultPack(),
	}
}

// fallbackLoader serves author packs from Postgres and the bundled pack
// when the database has no row for it.
type fallbackLoader struct {
	primary  memory.PackLoader
	builtin  memory.PackLoader
	builtins map[string]struct{}
}

func (l fallbackLoader) LoadPack(ctx context.Context, packID string) (domain.Pack, error) {
	pack, err := l.primary.LoadPack(ctx, packID)
	if err == nil {
		return pack, nil
	}
	if _, ok := l.builtins[packID]; ok && errors.Is(err, domain.ErrPackNotFound) {
		return l.builtin.LoadPack(ctx, packID)
	}
	return domain.Pack{}, err
}

func hostIdentity() string {
	if uid := os.Getenv("HOST_UID"); uid != "" {
		return uid
	}
	return "host-local"
}
