package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contact "github.com/nazarhussain/site-contact/internal"
)

func main() {
	config, err := contact.LoadConfig()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger, logCloser := contact.NewLogger(config.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := contact.NewServer(config, contact.Deps{Logger: logger})
	go srv.Limiter().Run(ctx)

	s := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("contact api listening",
		"addr", config.ListenAddr,
		"env", config.Environment,
		"relay", config.RelayConfigured(),
		"verification", config.VerificationConfigured(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("could not stop server gracefully", "err", err)
			_ = s.Close()
		}
	}
}
