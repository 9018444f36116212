package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	defaults "github.com/camilodvr/censopueblos/config"
	"github.com/camilodvr/censopueblos/internal/registry"
	"github.com/camilodvr/censopueblos/internal/runtime"
	"github.com/camilodvr/censopueblos/internal/service"
	"github.com/camilodvr/censopueblos/pkg/version"
)

var mcpOpts struct {
	dataset string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the dataset tools over MCP stdio",
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpOpts.dataset, "dataset", defaults.DefaultDatasetPath, "Canonical dataset path (.csv or .parquet)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc := service.New(mcpOpts.dataset, logger)
	ctrl := runtime.NewController(runtime.NewLimits(0))
	mw := runtime.NewMiddleware(ctrl)
	toolRegistry := registry.New()

	srv := server.NewMCPServer(
		"CNPV-2018 Indigenous Peoples Dataset Server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(buildHooks(logger)),
		server.WithToolHandlerMiddleware(mw.ToolMiddleware),
	)
	registry.RegisterDatasetTools(srv, toolRegistry, svc)

	logger.Info().
		Str("version", version.Version()).
		Str("dataset", mcpOpts.dataset).
		Int("max_concurrent_requests", ctrl.LimitsSnapshot().MaxConcurrentRequests).
		Msg("mcp server bootstrap configured")

	if err := server.ServeStdio(srv); err != nil {
		// Use stderr for transport errors so clients don't misinterpret output.
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return err
	}
	return nil
}

// buildHooks constructs mcp-go server hooks for basic telemetry.
func buildHooks(logger zerolog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session registered")
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session unregistered")
	})
	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		logger.Info().Str("tool", req.Params.Name).Msg("tool call served")
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Str("method", string(method)).Err(err).Msg("request error")
	})
	return hooks
}
