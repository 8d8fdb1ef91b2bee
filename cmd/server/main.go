package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/api"
	"github.com/campusfind/lostfound/internal/app"
	"github.com/campusfind/lostfound/internal/app/maintenance"
	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/internal/cache"
	"github.com/campusfind/lostfound/internal/database"
	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/internal/storage"
	"github.com/campusfind/lostfound/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lostfound-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	files, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("initialise file store: %w", err)
	}

	var denylist iauth.Denylist = iauth.NewMemoryDenylist()
	if cfg.Cache.Redis.Enabled {
		client, redisErr := cache.OpenRedis(cfg.Cache.Redis.Address, cfg.Cache.Redis.Username, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if redisErr != nil {
			log.Warn("redis unavailable; falling back to in-memory token denylist", zap.Error(redisErr))
		} else {
			denylist = iauth.NewRedisDenylist(client)
			defer client.Close()
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         cfg.Auth.JWT.Secret,
		Issuer:         cfg.Auth.JWT.Issuer,
		AccessTokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	cleaner, err := startMaintenance(cfg, db)
	if err != nil {
		return err
	}
	if cleaner != nil {
		defer func() {
			stopCtx := cleaner.Stop()
			if err := cleaner.RunOnce(stopCtx); err != nil {
				log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
			}
		}()
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:       db,
		JWT:      jwtService,
		Denylist: denylist,
		Files:    files,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseConnection())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db, cfg.SeedData()); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(cfg.Database.Driver))))

	return db, nil
}

func startMaintenance(cfg *app.Config, db *gorm.DB) (*maintenance.Cleaner, error) {
	if !cfg.Maintenance.Enabled {
		return nil, nil
	}

	notificationService, err := services.NewNotificationService(db)
	if err != nil {
		return nil, fmt.Errorf("initialise notification service: %w", err)
	}
	activityService, err := services.NewActivityService(db)
	if err != nil {
		return nil, fmt.Errorf("initialise activity service: %w", err)
	}

	cleaner := maintenance.NewCleaner(notificationService, activityService,
		maintenance.WithSchedule(cfg.Maintenance.Schedule),
		maintenance.WithNotificationRetention(cfg.Maintenance.NotificationRetention),
		maintenance.WithActivityLogRetention(cfg.Maintenance.ActivityLogRetention),
	)
	if err := cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}
	return cleaner, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
