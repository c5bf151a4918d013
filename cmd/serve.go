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

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/config"
	"github.com/abhisek/satprep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question bank to the practice UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, func(cfg *config.Config) error {
			stringFlag(cmd, "in", &cfg.Serve.In)
			stringFlag(cmd, "addr", &cfg.Serve.Addr)
			boolFlag(cmd, "require-visual", &cfg.Serve.RequireVisual)
			return nil
		})
		if err != nil {
			return err
		}

		holder := server.NewHolder(server.FileLoader(cfg.Serve.In, cfg.LoaderOptions()))
		snap, err := holder.Reload()
		if err != nil {
			return err
		}
		for _, is := range snap.Issues {
			fmt.Fprintf(os.Stderr, "warning: %s\n", is)
		}

		srv := &http.Server{
			Addr:              cfg.Serve.Addr,
			Handler:           server.New(holder, server.Options{AllowedOrigins: cfg.Serve.AllowedOrigins}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			fmt.Printf("Serving %d questions from %s on %s\n", snap.Bank.Len(), cfg.Serve.In, cfg.Serve.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("in", config.DefaultQuestionsPath, "Question list to serve")
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Bool("require-visual", false, "Drop questions whose topic needs a figure but has none")
}
