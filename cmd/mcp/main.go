// Command mcp serves the rules engine as MCP tools. It speaks stdio by
// default and streamable HTTP when APP_MCP_ADDR is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fantasy-rules-engine/internal/app"
	"github.com/riskibarqy/fantasy-rules-engine/internal/config"
	"github.com/riskibarqy/fantasy-rules-engine/internal/interfaces/mcptools"
	"github.com/riskibarqy/fantasy-rules-engine/internal/observability"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol in stdio mode.
	var logOut io.Writer = os.Stderr
	if cfg.MCPAddr != "" {
		logOut = os.Stdout
	}
	logger, flushLogs, err := observability.InitLogger(cfg, logOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("mcp server stopped with error", "error", err)
		_ = flushLogs(context.Background())
		os.Exit(1)
	}
	_ = flushLogs(context.Background())
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close app failed", "error", err)
		}
	}()
	container.Start(ctx)

	server := container.NewMCPServer()
	if cfg.MCPAddr == "" {
		logger.Info("mcp server starting", "transport", "stdio", "tools", len(server.Tools()))
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	srv := &http.Server{
		Addr:              cfg.MCPAddr,
		Handler:           server.HTTPHandler(mcptools.DefaultPath),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp server starting", "transport", "http", "addr", cfg.MCPAddr, "path", mcptools.DefaultPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown mcp server: %w", err)
	}
	logger.Info("mcp server stopped")
	return serveErr
}
