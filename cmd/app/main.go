package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/mood-backend/internal/domain/repository"
	"github.com/wichananm65/mood-backend/internal/identity"
	"github.com/wichananm65/mood-backend/internal/infrastructure/config"
	"github.com/wichananm65/mood-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/mood-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/mood-backend/internal/infrastructure/logger"
	"github.com/wichananm65/mood-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/mood-backend/internal/interface/http/handler"
	"github.com/wichananm65/mood-backend/internal/interface/http/router"
	"github.com/wichananm65/mood-backend/internal/interface/presenter"
	"github.com/wichananm65/mood-backend/internal/usecase"
)

// main wires dependencies (dependency injection) and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileRepo, identityRepo, db := mustOpenStores(ctx, cfg, logg)
	if db != nil {
		defer db.Close()
	}

	m := metrics.New()
	profilePresenter := presenter.NewProfilePresenter()
	bootstrap := usecase.NewProfileBootstrap(profileRepo, logg.Named("bootstrap"), m)
	profileService := usecase.NewProfileService(profileRepo)

	identityHandler := identity.NewHandler(
		identity.NewService(identityRepo),
		identity.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
		bootstrap,
		logg.Named("identity"),
	)
	profileHandler := handler.NewProfileHandler(profileService, profilePresenter, logg.Named("profile"))

	app := router.New(router.Deps{
		Identity:    identityHandler,
		Profile:     profileHandler,
		JWTSecret:   []byte(cfg.JWTSecret),
		Registry:    m.Registry(),
		CORSOrigins: cfg.CORSOrigins,
		Log:         logg.Named("http"),
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logg.Error("shutdown", zap.Error(err))
		}
	}()

	logg.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("database", cfg.UsesDatabase()))
	if err := app.Listen(cfg.Addr); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

// mustOpenStores returns PostgreSQL-backed stores when DATABASE_URL is set and
// in-memory ones otherwise.
func mustOpenStores(ctx context.Context, cfg config.Config, logg *zap.Logger) (repository.ProfileRepository, identity.Repository, *sql.DB) {
	if !cfg.UsesDatabase() {
		logg.Warn("DATABASE_URL is not set, profiles and identities are kept in memory")
		return inmemory.NewProfileRepository(), identity.NewInMemoryRepository(nil), nil
	}

	db, err := postgres.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("open database", zap.Error(err))
	}
	if cfg.DBMigrate {
		if err := postgres.Migrate(ctx, db, logg.Named("migrate")); err != nil {
			db.Close()
			logg.Fatal("migrate database", zap.Error(err))
		}
	}

	return postgres.NewProfileRepository(db), identity.NewPostgresRepository(db), db
}
