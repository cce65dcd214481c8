package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/porcitech/kouakou/internal/assistant"
	"github.com/porcitech/kouakou/internal/config"
	"github.com/porcitech/kouakou/internal/domain/memory"
	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/ratelimit"
	"github.com/porcitech/kouakou/internal/server"
	"github.com/porcitech/kouakou/internal/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	requestTimeout, err := config.DurationOrDefault(cfg.Gemini.RequestTimeout, config.DefaultGeminiRequestTimeout)
	if err != nil {
		return fmt.Errorf("parse gemini request timeout: %w", err)
	}

	gateway, err := gemini.NewClient(gemini.Options{
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		BaseURL:        cfg.Gemini.BaseURL,
		RequestTimeout: requestTimeout,
		SearchEnabled:  cfg.Gemini.SearchEnabled,
	})
	if err != nil {
		return err
	}

	store := memory.New()
	catalog, err := tool.BuildCatalog(store.Services())
	if err != nil {
		return err
	}
	slog.Info("Tool catalog built", "tools", len(catalog.Names()))

	agent := assistant.New(gateway, catalog, assistant.Options{
		MaxStreamIterations: cfg.Assistant.MaxStreamIterations,
		MaxMessageRunes:     cfg.Assistant.MaxMessageRunes,
		Temperature:         cfg.Gemini.Temperature,
		MaxOutputTokens:     cfg.Gemini.MaxOutputToken,
		AssistantName:       cfg.Assistant.AssistantName,
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		window, err := config.DurationOrDefault(cfg.RateLimit.Window, config.DefaultRateLimitWindow)
		if err != nil {
			return fmt.Errorf("parse rate limit window: %w", err)
		}
		limiter = ratelimit.New(cfg.RateLimit.MaxRequests, window)

		go func() {
			ticker := time.NewTicker(window)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					limiter.Prune()
				}
			}
		}()
	}

	srv, err := server.New(&cfg.Server, agent, limiter)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	return srv.Stop(context.Background())
}
