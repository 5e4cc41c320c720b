package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/admina-mcp/admina-mcp/configs"
	"github.com/admina-mcp/admina-mcp/internal/adapter/inbound/mcptool"
	"github.com/admina-mcp/admina-mcp/internal/tools"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools served by this server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, def := range tools.Catalog() {
				fmt.Fprintf(w, "%s\t%s\n", def.Name(), def.Tool.Description)
			}
			return w.Flush()
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured credentials by fetching the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.ParsedLogLevel()}))

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			result, err := a.invoke.Execute(cmd.Context(), tools.OrganizationInfoTool, map[string]any{})
			if err != nil {
				return errors.New(mcptool.RenderError(tools.OrganizationInfoTool, err))
			}
			text, err := mcptool.RenderResult(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", serverName, version, buildTime)
		},
	}
}
