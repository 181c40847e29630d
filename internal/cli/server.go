package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"heresy-trivia-service/internal/app"
	"heresy-trivia-service/internal/config"
	"heresy-trivia-service/internal/domain"
	"heresy-trivia-service/internal/infra/jsonfile"
	"heresy-trivia-service/internal/infra/memory"
	pgloader "heresy-trivia-service/internal/infra/postgres"
	redisinfra "heresy-trivia-service/internal/infra/redis"
	transport "heresy-trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Question source priority: postgres, questions.json on disk, built-in
	// starter set.
	var loader memory.QuestionSetLoader = memory.NewStaticQuestionLoader(domain.StarterQuestionSet())
	switch {
	case pool != nil:
		loader = pgloader.NewQuestionSetLoader(pool, cfg.Questions.Set)
	case cfg.Questions.Path != "":
		loader = jsonfile.NewQuestionSetLoader(cfg.Questions.Path)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionSetRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionSetRepository(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionSetRepository(loader, questionTTL)
	}

	var usedStore app.UsedQuestionStore
	var sessionStore app.SessionRepository
	if redisClient != nil {
		usedStore = redisinfra.NewUsedQuestionStore(redisClient, 0)
		sessionStore = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		usedStore = memory.NewUsedQuestionStore()
		sessionStore = memory.NewSessionStore()
	}

	gameCfg := app.DefaultGameConfig()
	if cfg.Game.OffendedCap > 0 {
		gameCfg.OffendedCap = cfg.Game.OffendedCap
	}
	if cfg.Game.Tolerance > 0 {
		gameCfg.Ledger.DefaultTolerance = cfg.Game.Tolerance
	}
	if cfg.Game.GoodwillCredit > 0 {
		gameCfg.Ledger.GoodwillCredit = cfg.Game.GoodwillCredit
	}
	if cfg.Game.TimeoutWeight > 0 {
		gameCfg.Ledger.TimeoutWeight = cfg.Game.TimeoutWeight
	}

	service := app.NewGameService(sessionStore, questionRepo, usedStore, gameCfg, log)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting trivia game service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
