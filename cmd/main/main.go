package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/config"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/service"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/report"
	serverhttp "github.com/adrielsb/FarmaGeniusProject-sub001/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	store, err := report.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open report store")
	}
	defer store.Close()

	eng := service.NewEngine(store, logger)
	r := serverhttp.NewRouter(cfg, logger, eng)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
