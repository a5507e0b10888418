package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/enfoco/enfoco/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the archive search, vault search, chat and image analysis tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		gw := newGateway(cfg, logger)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		logger.Info("enfoco MCP server started on stdio",
			zap.String("provider", string(cfg.Provider)),
			zap.Int("sections", len(cat.Sections())),
		)

		srv := mcpserver.NewServer(gw, cat)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
