package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	transport "github.com/BlockSyncLab/FGVGAMEBA/internal/transport/http"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the campaign API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret (or JWT_SECRET) must be set")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackend(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer b.Close()

	svc := b.services(loc)
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	go svc.Feed.Run(feedCtx)

	router := transport.NewRouter(svc, transport.NewAuthenticator(cfg.Auth.JWTSecret), cfg.Server.CORSOrigins)
	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// websocket streams stay open; their writes carry their own deadline
		WriteTimeout: 0,
	}

	go func() {
		glog.Infof("starting campaign service on :%s (timezone %s)", finalPort, loc)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Errorf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		glog.Info("shutting down server...")
	case <-ctx.Done():
		glog.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	defer glog.Flush()
	return server.Shutdown(shutdownCtx)
}
