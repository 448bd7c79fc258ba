// README: Entry point; loads config, wires the dispatch engine, starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"guincho/internal/clock"
	"guincho/internal/config"
	httptransport "guincho/internal/http"
	"guincho/internal/logging"
	"guincho/internal/modules/estimate"
	"guincho/internal/modules/fleet"
	"guincho/internal/modules/pricing"
	"guincho/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.System()
	estimator := estimate.NewEstimator(cfg.Estimator.BaseKm)
	recalc := estimate.NewRecalculator(clk, estimator, cfg.Engine.DebounceWindow, cfg.Engine.EstimateLatency)
	pricingSvc := pricing.NewService(cfg.Pricing)
	directory := fleet.NewStaticDirectory(fleet.DefaultRoster())

	session := ride.NewSession(ride.Deps{
		Clock:     clk,
		Logger:    log,
		Recalc:    recalc,
		Pricing:   pricingSvc,
		Directory: directory,
	}, cfg.Engine, cfg.Estimator.FallbackKm, cfg.BaseAddress)

	router := httptransport.NewRouter(httptransport.ServerDeps{
		Session:   session,
		Directory: directory,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("forced shutdown", zap.Error(err))
		}
	}()

	log.Info("guincho-api listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server", zap.Error(err))
	}
	log.Info("guincho-api stopped")
}
