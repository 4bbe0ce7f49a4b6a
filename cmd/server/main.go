package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/bot"
	"github.com/lacasita/telegram-bot-go/internal/config"
	"github.com/lacasita/telegram-bot-go/internal/database"
	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
	"github.com/lacasita/telegram-bot-go/internal/handler"
	"github.com/lacasita/telegram-bot-go/internal/jobs"
	"github.com/lacasita/telegram-bot-go/internal/middleware"
	"github.com/lacasita/telegram-bot-go/internal/redis"
	"github.com/lacasita/telegram-bot-go/internal/repository"
	"github.com/lacasita/telegram-bot-go/internal/service"
	"github.com/lacasita/telegram-bot-go/internal/session"
	"github.com/lacasita/telegram-bot-go/internal/telegram"
	"github.com/lacasita/telegram-bot-go/internal/timeutil"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

type sessionBackend interface {
	session.Store
	session.Sweeper
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load timezone")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	cancel()
	log.Info().Msg("database connected")

	checks := map[string]handler.Pinger{"database": db}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info().Msg("redis connected")
	}

	sessionRepo := repository.NewSessionRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	householdRepo := repository.NewHouseholdRepository(db.DB)
	inviteRepo := repository.NewInviteRepository(db.DB)
	subcategoryRepo := repository.NewSubcategoryRepository(db.DB)
	recordRepo := repository.NewRecordRepository(db.DB)

	var sessions sessionBackend
	switch cfg.SessionBackend {
	case config.BackendRedis:
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL())
	case config.BackendMemory:
		sessions = session.NewMemoryStore(cfg.SessionTTL())
	default:
		sessions = session.NewPostgresStore(sessionRepo, cfg.SessionTTL())
	}
	log.Info().Str("backend", cfg.SessionBackend).Dur("ttl", cfg.SessionTTL()).Msg("session store ready")

	userService := service.NewUserService(userRepo)
	recordService := service.NewRecordService(subcategoryRepo, recordRepo)
	householdService := service.NewHouseholdService(householdRepo, userRepo, recordRepo)
	inviteService := service.NewInviteService(inviteRepo, cfg.InviteTTL())

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to telegram")
	}
	api.Debug = cfg.LogLevel == "debug"
	log.Info().Str("username", api.Self.UserName).Msg("telegram bot authorised")

	scenes := wizard.NewRegistry(
		bloodpressure.New(recordService, bot.Menus{}),
	)
	b := bot.New(sessions, telegram.NewSender(api), scenes, bot.Services{
		Users:      userService,
		Records:    recordService,
		Households: householdService,
		Invites:    inviteService,
	}, timeutil.NewFormatter(loc))

	telegramHandler := handler.NewTelegramHandler(b)
	healthHandler := handler.NewHealthHandler(checks)

	secretMiddleware := middleware.NewTelegramSecretMiddleware(cfg.WebhookSecretToken)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.WebhookBodyLimit)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.TelegramMode == config.ModeWebhook)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", healthHandler.ServeHTTP)

	if cfg.TelegramMode == config.ModeWebhook {
		r.Route("/telegram", func(r chi.Router) {
			r.Use(bodyLimitMiddleware.Handler)
			r.Use(secretMiddleware.Handler)
			r.Post("/webhook", telegramHandler.Webhook)
		})
	}

	cleanupJob := jobs.NewCleanupJob(sessions, inviteRepo, cfg.SweepInterval())
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pollDone := make(chan struct{})
	switch cfg.TelegramMode {
	case config.ModeWebhook:
		if err := telegram.SetWebhook(api, cfg.WebhookURL, cfg.WebhookSecretToken); err != nil {
			log.Fatal().Err(err).Msg("failed to register webhook")
		}
		log.Info().Str("url", cfg.WebhookURL).Msg("webhook registered")
		close(pollDone)
	default:
		if err := telegram.DeleteWebhook(api, false); err != nil {
			log.Warn().Err(err).Msg("failed to remove webhook before polling")
		}
		poller := telegram.NewPoller(api, b, config.PollingWorkers, config.PollingTimeoutSeconds)
		go func() {
			defer close(pollDone)
			poller.Run(runCtx)
		}()
	}

	<-runCtx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	select {
	case <-pollDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("timed out waiting for in-flight turns")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
