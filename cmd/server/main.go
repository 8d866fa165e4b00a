package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evn/eom_hradmin/config"
	"github.com/evn/eom_hradmin/db"
	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/logger"
	"github.com/evn/eom_hradmin/internal/repositories"
	"github.com/evn/eom_hradmin/internal/routes"
	authService "github.com/evn/eom_hradmin/internal/services/auth"
	shiftService "github.com/evn/eom_hradmin/internal/services/shift"
	"github.com/evn/eom_hradmin/internal/services/ws"
)

const clientRecordTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.NewConfig()
	logger.Setup(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient, err = config.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	keyVerifier, err := newKeyVerifier(ctx, cfg, redisClient)
	if err != nil {
		return err
	}

	admin, err := adminFromConfig(cfg)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	router := routes.Setup(routes.Dependencies{
		Admin:       admin,
		JWTService:  authService.NewJWTService(cfg.JwtSecret),
		KeyVerifier: keyVerifier,
		ClientStore: newClientStore(cfg, redisClient),
		ShiftStore:  repositories.NewShiftRepository(database),
		Sheets:      shiftService.NewGoogleSheetsReader(cfg.GoogleCredentialsFile),
		Hub:         hub,
		StaticDir:   cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "client_store", cfg.ClientStore, "key_source", cfg.ClientKeySource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newKeyVerifier(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (authService.KeyVerifier, error) {
	if cfg.ClientKeySource != config.KeySourceRedis {
		return authService.NewStaticKeyVerifier(cfg.ClientAPIKeys), nil
	}
	v := authService.NewRedisKeyVerifier(redisClient, authService.DefaultKeySet)
	if err := v.Seed(ctx, cfg.ClientAPIKeys...); err != nil {
		return nil, err
	}
	return v, nil
}

func newClientStore(cfg *config.Config, redisClient *redis.Client) repositories.ClientStore {
	if cfg.ClientStore == config.ClientStoreRedis {
		return repositories.NewRedisClientStore(redisClient, clientRecordTTL)
	}
	return repositories.NewMockClientStore()
}

func adminFromConfig(cfg *config.Config) (models.Admin, error) {
	admin := models.Admin{
		ID:           1,
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
		Role:         "superadmin",
	}
	if admin.PasswordHash == "" && cfg.AdminPassword != "" {
		if cfg.IsProduction() {
			return admin, errors.New("ADMIN_PASSWORD_HASH must be set in production")
		}
		hash, err := authService.HashPassword(cfg.AdminPassword)
		if err != nil {
			return admin, fmt.Errorf("hash admin password: %w", err)
		}
		admin.PasswordHash = hash
	}
	if admin.PasswordHash == "" {
		slog.Warn("admin password is not configured, admin login is disabled")
	}
	return admin, nil
}
