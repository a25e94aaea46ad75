package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-client/internal/app"
	transport "quiz-client/internal/transport/http"
	"github.com/spf13/cobra"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz page for a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), flags, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default from config or PORT, else 8080)")
	return cmd
}

func runServer(ctx context.Context, flags *rootFlags, portFlag string) error {
	d, err := buildDeps(ctx, flags, credentialsInMemory)
	if err != nil {
		return err
	}
	defer d.Close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = d.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	wsHandler := transport.NewWSHandler(func(clientID string, r app.Renderer) *app.Controller {
		return d.controller(clientID, r)
	}, d.log)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewMux(wsHandler),
		ReadTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.log.Info("serving quiz page", "addr", "http://localhost:"+finalPort, "api", d.cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		d.log.Info("shutting down server")
	case <-ctx.Done():
		d.log.Info("context canceled, shutting down server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
