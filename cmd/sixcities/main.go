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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sixcities/internal/api"
	"sixcities/internal/config"
	"sixcities/internal/database"
	"sixcities/internal/logger"
	"sixcities/internal/metrics"
	"sixcities/internal/store"
	"sixcities/internal/tokenstore"
	"sixcities/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog, closeLog, err := logger.FromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closeLog()

	db, err := database.Connect(cfg.StorageDSN, appLog)
	if err != nil {
		appLog.Error("open client storage failed", "error", err)
		os.Exit(1)
	}
	tokens, err := tokenstore.New(db)
	if err != nil {
		appLog.Error("migrate client storage failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client := api.NewClient(tokens, api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  appLog,
		Metrics: m,
	})
	st := store.New(client, tokens, m, appLog)
	defer st.Close()

	hub := web.NewHub(m, appLog)
	hub.Attach(st.Bus)
	defer hub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// restore the previous session before serving
	checkCtx, cancel := context.WithTimeout(ctx, cfg.APITimeout)
	if err := st.Auth.CheckAuth(checkCtx); err != nil {
		appLog.Info("starting anonymous", "reason", err)
	}
	cancel()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(web.NewHandler(st, hub, m, appLog)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLog.Info("http server listening", "addr", cfg.HTTPAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutdown sequence initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http server shutdown failed", "error", err)
	}
	appLog.Info("stopped")
}
