package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodmic/internal/config"
	"moodmic/internal/gateway"
	"moodmic/internal/logging"
	"moodmic/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(logging.Config{Level: "info", Format: "json"})
		bootLog := logging.Component("gateway")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "json"})
	log := logging.Component("gateway")

	if err := cfg.ValidateGateway(); err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	llm := gateway.NewLLMClient(gateway.LLMConfig{
		APIKey:  cfg.Gateway.LLMAPIKey,
		BaseURL: cfg.Gateway.LLMBaseURL,
		Model:   cfg.Gateway.LLMModel,
		Timeout: cfg.Gateway.LLMTimeout,
	})
	handler := gateway.NewSentimentHandler(llm, metrics.Default, log)
	router := gateway.NewRouter(handler, log)

	server := &http.Server{
		Addr:    cfg.Gateway.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Gateway.ListenAddr).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("gateway stopped")
}
