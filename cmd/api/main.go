package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parish.org/internal/auth"
	"parish.org/internal/config"
	"parish.org/internal/httpapi"
	"parish.org/internal/membership"
	"parish.org/internal/obs"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	issuer, err := auth.NewTokenIssuer(cfg.AuthSecret, auth.WithIssuer(cfg.AuthIssuer))
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	stores := membership.NewMemoryStores()
	if cfg.DemoData {
		membership.SeedDemo(stores)
	}
	managers := membership.NewManagers(stores.Repositories(), membership.WithAdminRole(cfg.AdminRole))

	api := httpapi.New(managers, issuer, version,
		httpapi.WithTokenTTL(cfg.TokenTTL),
		httpapi.WithRateLimit(cfg.RatePerSec, cfg.RateBurst),
		httpapi.WithDevTokens(cfg.DevTokens),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	obs.Info("server_starting", map[string]any{"version": version, "addr": srv.Addr, "dev_tokens": cfg.DevTokens})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	obs.Info("server_stopping", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	obs.Info("server_stopped", nil)
}
