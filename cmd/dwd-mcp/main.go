// Command dwd-mcp serves DWD weather data (stations, warnings, crowd
// reports) as MCP tools and resources over stdio. With OPS_ADDR set it also
// exposes /healthz, /readyz, and /metrics on HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/dwd-mcp/internal/adapter/dwd"
	"github.com/couchcryptid/dwd-mcp/internal/adapter/httpserver"
	"github.com/couchcryptid/dwd-mcp/internal/adapter/mcpserver"
	"github.com/couchcryptid/dwd-mcp/internal/config"
	"github.com/couchcryptid/dwd-mcp/internal/observability"
	"github.com/couchcryptid/dwd-mcp/internal/service"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := dwd.NewClient(cfg.BaseURL, cfg.RequestTimeout, metrics, logger)
	weather := service.New(client, logger, metrics)
	srv := mcpserver.New(weather, logger, metrics, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ops *httpserver.Server
	if cfg.OpsAddr != "" {
		ops = httpserver.NewServer(cfg.OpsAddr, weather, logger)
		go func() {
			if err := ops.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
	}

	logger.Info("shutting down")

	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
