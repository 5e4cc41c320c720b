package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/admina-mcp/admina-mcp/configs"
	"github.com/admina-mcp/admina-mcp/internal/adapter/inbound/adminhttp"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "stdio" && transport != "sse" {
				return fmt.Errorf("invalid transport %q (must be 'stdio' or 'sse')", transport)
			}
			return runServe(cmd.Context(), transport)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or sse")
	return cmd
}

func runServe(parent context.Context, transport string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// === Logging ===
	logger := newLogger(cfg, transport == "stdio")
	slog.SetDefault(logger)
	logger.Info("Logger initialized.",
		slog.String("level", cfg.ParsedLogLevel().String()),
		slog.String("transport", transport),
		slog.String("version", version))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry providers.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	mcpSrv, err := a.mcpServer(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	logger.Info("MCP server initialized.")

	if transport == "stdio" {
		logger.Info("Starting in STDIO mode")
		stdioServer := mcpGoServer.NewStdioServer(mcpSrv)
		if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("STDIO server error", slog.Any("error", err))
			return err
		}
		return nil
	}

	return serveSSE(ctx, cfg, a, mcpSrv, logger)
}

// serveSSE runs the MCP SSE server and the admin HTTP server until ctx is done
// or either server fails.
func serveSSE(ctx context.Context, cfg *configs.Config, a *app, mcpSrv *mcpGoServer.MCPServer, logger *slog.Logger) error {
	if err := cfg.ValidateAdmin(); err != nil {
		return err
	}
	logger.Info("Starting in SSE mode")

	sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+cfg.ListenAddr))

	g, gctx := errgroup.WithContext(ctx)

	var adminServer *http.Server
	if cfg.AdminAddr != "" {
		adminHandlers := adminhttp.NewHandlers(usecase.NewListToolsUseCase(a.repo, logger), a.invoke, version, cfg.AdminToken, logger)
		adminServer = &http.Server{
			Addr:        cfg.AdminAddr,
			Handler:     adminHandlers.Router(),
			ReadTimeout: cfg.ServerReadTimeout,
			IdleTimeout: cfg.ServerIdleTimeout,
		}
		g.Go(func() error {
			logger.Info("Admin HTTP server starting.", slog.String("address", adminServer.Addr))
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin HTTP server: %w", err)
			}
			return nil
		})
	} else {
		logger.Info("Admin HTTP server disabled.")
	}

	g.Go(func() error {
		logger.Info("MCP SSE server starting.", slog.String("address", cfg.ListenAddr))
		if err := sseServer.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP SSE server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		errs := []error{sseServer.Shutdown(shutdownCtx)}
		if adminServer != nil {
			errs = append(errs, adminServer.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.Any("error", err))
		return err
	}
	logger.Info("Servers shut down gracefully.")
	return nil
}
