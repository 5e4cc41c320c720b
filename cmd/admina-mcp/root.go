package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/admina-mcp/admina-mcp/configs"
	"github.com/admina-mcp/admina-mcp/internal/adapter/inbound/mcptool"
	"github.com/admina-mcp/admina-mcp/internal/adapter/outbound/admina"
	"github.com/admina-mcp/admina-mcp/internal/adapter/outbound/memrepo"
	"github.com/admina-mcp/admina-mcp/internal/tools"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

const serverName = "admina-mcp"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serverName,
		Short: "MCP server exposing the Admina API as tools",
		Long: `admina-mcp serves the Admina device, identity, custom field, service and
provisioning APIs to MCP clients. Credentials are read from ADMINA_API_KEY and
ADMINA_ORGANIZATION_ID when the first tool is called.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// newLogger logs to the configured file in stdio mode so stdout stays
// reserved for the protocol.
func newLogger(cfg *configs.Config, stdio bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.ParsedLogLevel()}
	if !stdio {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts))
	}
	return slog.New(slog.NewTextHandler(logFile, opts))
}

// app holds the wired dependencies shared by the commands.
type app struct {
	catalog  []usecase.ToolDefinition
	repo     *memrepo.InMemoryToolRepository
	invoke   *usecase.InvokeToolUseCase
	handlers *mcptool.Handler
}

func newApp(ctx context.Context, cfg *configs.Config, logger *slog.Logger) (*app, error) {
	catalog := tools.Catalog()
	repo := memrepo.NewInMemoryToolRepository(logger)
	if err := repo.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to load tool catalog: %w", err)
	}

	provider := admina.NewProvider(configs.LoadCredentials, cfg.ClientOptions(logger)...)
	invoke := usecase.NewInvokeToolUseCase(repo, provider, cfg.ArrayEncodings, logger)

	return &app{
		catalog:  catalog,
		repo:     repo,
		invoke:   invoke,
		handlers: mcptool.NewHandler(invoke, logger),
	}, nil
}

// mcpServer creates the MCP server and registers every tool on it.
func (a *app) mcpServer(ctx context.Context, logger *slog.Logger) (*mcpGoServer.MCPServer, error) {
	srv := mcpGoServer.NewMCPServer(serverName, version,
		mcpGoServer.WithToolCapabilities(true),
		mcpGoServer.WithRecovery(),
	)

	register := usecase.NewRegisterToolsUseCase(a.catalog, a.repo, srv, a.handlers, logger)
	if err := register.Execute(ctx); err != nil {
		return nil, err
	}
	return srv, nil
}
