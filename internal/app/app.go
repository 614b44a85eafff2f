package app

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

	"github.com/almonsour13/mango-lens/internal/config"
	"github.com/almonsour13/mango-lens/internal/database"
	"github.com/almonsour13/mango-lens/internal/handler"
	"github.com/almonsour13/mango-lens/internal/middleware"
	"github.com/almonsour13/mango-lens/internal/repository"
	"github.com/almonsour13/mango-lens/internal/router"
	"github.com/almonsour13/mango-lens/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	treeRepo := repository.NewTreeRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	scanRepo := repository.NewScanRepository(pool)
	trashRepo := repository.NewTrashRepository(pool)
	slog.Info("database ready")

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, userRepo, tokenRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	treeService := service.NewTreeService(treeRepo)
	scanService := service.NewScanService(scanRepo, imageRepo, treeRepo)
	imageService := service.NewImageService(imageRepo, scanRepo)
	trashService := service.NewTrashService(trashRepo, treeRepo, imageRepo)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(authService),
		Tree:  handler.NewTreeHandler(treeService),
		Scan:  handler.NewScanHandler(scanService),
		Image: handler.NewImageHandler(imageService),
		Trash: handler.NewTrashHandler(trashService),
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go expiredTokenSweeper(cleanupCtx, tokenRepo, time.Hour)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				cleanupCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

type tokenSweeper interface {
	CleanExpired(ctx context.Context) (int64, error)
}

func expiredTokenSweeper(ctx context.Context, tokens tokenSweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := tokens.CleanExpired(ctx)
			if err != nil {
				slog.Warn("expired token sweep failed", "error", err)
				continue
			}
			if swept > 0 {
				slog.Info("swept expired refresh tokens", "count", swept)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
