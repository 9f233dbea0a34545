package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordfriend/internal/config"
	"wordfriend/internal/handler"
	"wordfriend/internal/identity"
	"wordfriend/internal/middleware"
	"wordfriend/internal/repository/postgres"
	"wordfriend/internal/scheduler"
	"wordfriend/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting wordfriend server", zap.String("env", cfg.Env))

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.Database.MigrationsDir, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepo(db)
	wordRepo := postgres.NewWordRepo(db)
	masteryRepo := postgres.NewMasteryRepo(db)
	achievementRepo := postgres.NewAchievementRepo(db)
	wordFriendRepo := postgres.NewWordFriendRepo(db)
	ledgerRepo := postgres.NewLedgerRepo(db)
	agentRepo := postgres.NewAgentRepo(db)
	chatRepo := postgres.NewChatRepo(db)

	// Initialize services
	identityClient := identity.NewClient(cfg.Identity.AppID, cfg.Identity.Secret, cfg.Identity.BaseURL, cfg.Identity.Timeout, logger)
	streakService := service.NewStreakService(masteryRepo, userRepo)
	achievementService := service.NewAchievementService(achievementRepo, masteryRepo, userRepo, streakService, logger)
	masteryService := service.NewMasteryService(tx, masteryRepo, userRepo, wordRepo, achievementService)
	progressionService := service.NewProgressionService(tx, wordFriendRepo, userRepo, cfg.Game.WordFriendPrice, logger)
	ledgerService := service.NewLedgerService(tx, ledgerRepo, userRepo, logger, nil)
	userService := service.NewUserService(tx, userRepo, achievementRepo, wordFriendRepo, masteryRepo, identityClient, logger)
	wordService := service.NewWordService(wordRepo, masteryRepo, userRepo)
	chatService := service.NewChatService(agentRepo, chatRepo, userRepo, logger)

	// Start the daily achievement sweep
	if cfg.Scheduler.Enabled {
		loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
		if err != nil {
			logger.Fatal("Invalid sweep timezone", zap.Error(err))
		}
		sweeps := scheduler.New(achievementService, cfg.Scheduler.SweepAt, loc, sweepTimeout, logger)
		if err := sweeps.Start(); err != nil {
			logger.Fatal("Failed to schedule achievement sweep", zap.Error(err))
		}
		defer sweeps.Stop()
	}

	h := handler.NewHandler(handler.Services{
		Users:        userService,
		Streaks:      streakService,
		Achievements: achievementService,
		Words:        wordService,
		Mastery:      masteryService,
		Progression:  progressionService,
		Ledger:       ledgerService,
		Chat:         chatService,
	}, db, logger)

	proxies, err := middleware.ParseProxyTrust(cfg.HTTP.TrustedProxies)
	if err != nil {
		logger.Fatal("Invalid trusted proxy list", zap.Error(err))
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: h.Router(handler.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
			TrustedProxies: proxies,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// Start server in background
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping server...")
	case err := <-serverErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies pending schema migrations from dir
func runMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
