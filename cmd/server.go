package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/dashboard"
	"github.com/enfoco/enfoco/internal/gateway"
	"github.com/enfoco/enfoco/internal/server"
	"github.com/enfoco/enfoco/internal/session"
)

const shutdownGrace = 10 * time.Second

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP service for the helix dashboard",
	Long:  `Starts the enfoco HTTP service: navigator sessions, the AI gateway endpoints, the helix WebSocket, health checks and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		nav, err := newNavigator(cfg)
		if err != nil {
			return fmt.Errorf("creating navigator: %w", err)
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		gw := newGateway(cfg, logger)
		sessions := session.NewStore(nav, cfg.Navigator.SessionTTL, logger)

		srv, err := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		registerAllRoutes(srv, sessions, gw, cat)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", zap.Error(err))
			}
		}()

		logger.Info("enfoco server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("provider", string(cfg.Provider)),
			zap.String("model", cfg.Model),
			zap.Int("helix_items", nav.Len()),
			zap.Int("sections", len(cat.Sections())),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes mounts the feature routes. Plain JSON endpoints share the
// request timeout group; the dashboard's WebSocket stays outside it.
func registerAllRoutes(srv *server.Server, sessions *session.Store, gw gateway.Gateway, cat *catalog.Catalog) {
	srv.API(func(r chi.Router) {
		catalog.RegisterRoutes(r, cat)
		session.RegisterRoutes(r, sessions)
		gateway.RegisterRoutes(r, gw, cat, sessions)
	})

	dash := dashboard.New(sessions, gw, cat, logger)
	dash.RegisterRoutes(srv.Router())
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
