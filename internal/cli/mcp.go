package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	pmxmcp "github.com/ppiankov/pmx/internal/mcp"
)

var (
	mcpAuditLog string
	mcpNoWatch  bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Append a hash-chained JSONL record of every request to this file")
	mcpCmd.Flags().BoolVar(&mcpNoWatch, "no-watch", false, "Do not watch repo/ for profile changes")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Runs pmx as an MCP (Model Context Protocol) server over stdio.
Every visible profile is served as a prompt; <{{NAME}}> placeholders become
prompt arguments. Tools: list_profiles, show_profile, render_profile,
create_profile. Visibility follows [mcp] in config.toml.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	st, err := openStorage()
	if err != nil {
		return err
	}

	srv, err := pmxmcp.New(pmxmcp.Config{
		Storage:      st,
		Version:      version,
		AuditLogPath: mcpAuditLog,
		Watch:        !mcpNoWatch,
		Logger:       log.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("shutting down MCP server")
		cancel()
	}()

	log.Info().Str("root", st.Path).Msg("pmx MCP server running on stdio")
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
