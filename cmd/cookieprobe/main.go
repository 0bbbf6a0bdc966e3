// Command cookieprobe runs the classifier pipeline and the solver behind a
// standalone HTTP demo server, the harness a real interactive-proxy host
// replaces with its own UI and hostapi implementations.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cookieprobe/cookieprobe/internal/api"
	"github.com/cookieprobe/cookieprobe/internal/classifier"
	"github.com/cookieprobe/cookieprobe/internal/config"
	"github.com/cookieprobe/cookieprobe/internal/db"
	"github.com/cookieprobe/cookieprobe/internal/hostapi/stub"
	"github.com/cookieprobe/cookieprobe/internal/replayer"
	"github.com/cookieprobe/cookieprobe/internal/service"
	"github.com/cookieprobe/cookieprobe/internal/solver"
	"github.com/cookieprobe/cookieprobe/pkg/logger"
	"github.com/cookieprobe/cookieprobe/pkg/snowflake"
)

func main() {
	logger.Init(logger.ParseLevel(os.Getenv("COOKIEPROBE_LOG_LEVEL")))

	if err := run(); err != nil {
		logger.Error("cookieprobe: fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if err := snowflake.Init(1); err != nil {
		return err
	}

	conn, err := db.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer conn.Close()

	store := classifier.NewSQLiteStore(conn)
	provider := newProvider(cfg.AI)

	pipeline := classifier.NewPipeline(cfg, store, provider, stub.AllScope{})
	pipeline.Start()
	defer pipeline.Stop()

	sender := replayer.NewDirectSender(10 * time.Second)
	sv := solver.New(replayer.New(sender), solver.Options{})
	svc := service.New(sv, pipeline)

	server := api.NewServer(svc, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("COOKIEPROBE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8787"
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cookieprobe: listening", "addr", addr)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("cookieprobe: shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newProvider selects the classifier's LM backend by cfg.Provider, the way
// spec.md §6's COOKIEPROBE_AI_PROVIDER setting is described: "OpenAI" or
// "Anthropic", defaulting to OpenAI for any other value.
func newProvider(cfg config.AIConfig) classifier.Provider {
	switch cfg.Provider {
	case "Anthropic":
		return classifier.NewMessagesProvider(cfg.APIKey, cfg.Endpoint, cfg.Model)
	default:
		return classifier.NewChatCompletionProvider(cfg.APIKey, cfg.Endpoint, cfg.Model)
	}
}
