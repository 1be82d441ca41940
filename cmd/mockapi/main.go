package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sixcities/internal/config"
	"sixcities/internal/database"
	"sixcities/internal/logger"
	"sixcities/internal/mockapi"
	"sixcities/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.AppName += "-mockapi"

	appLog, closeLog, err := logger.FromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closeLog()

	db, err := database.Connect(cfg.MockAPI.DSN, appLog)
	if err != nil {
		appLog.Error("open database failed", "error", err)
		os.Exit(1)
	}
	repo := mockapi.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		appLog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MockAPI.Seed {
		n, err := mockapi.Seed(ctx, repo)
		if err != nil {
			appLog.Error("seed failed", "error", err)
			os.Exit(1)
		}
		appLog.Info("seed finished", "offers_created", n)
	}

	j := jwt.New(cfg.MockAPI.JWTSecret, cfg.MockAPI.JWTTTL)
	h := mockapi.NewHandler(mockapi.NewService(repo, j, appLog), j, appLog)
	srv := &http.Server{
		Addr:              cfg.MockAPI.Addr,
		Handler:           mockapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLog.Info("mock api listening", "addr", cfg.MockAPI.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("mock api failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("mock api shutdown failed", "error", err)
	}
}
