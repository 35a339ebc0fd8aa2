package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/internal/server"
	"github.com/procflow/procflow/pkg/config"
	"github.com/procflow/procflow/pkg/document"
	"github.com/procflow/procflow/pkg/process"
)

// serveCommand creates the serve command for the live browser preview.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [process.json]",
		Short: "Serve a live browser preview of a process",
		Long: `Serve a live browser preview of a process.

The page renders the diagram with the Mermaid browser library. The server
also exposes a small JSON API for loading documents and adding steps, so
edits can come from tooling while the preview is open. Edits made through
the API are written back to the file on shutdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDocument
			if len(args) == 1 {
				path = args[0]
			}
			if addr == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				addr = cfg.Serve.Addr
			}
			return c.runServe(cmd.Context(), path, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

// runServe runs the preview server until the context is canceled.
func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	p, err := document.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p = process.New()
	} else if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	srv := server.New(p, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	printInfo("Serving %q", p.Name)
	printDetail("http://%s", addr)
	printDetail("Ctrl+C to stop")

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Warn("shutdown", "err", err)
	}

	if err := document.WriteFile(srv.Process(), path); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	printSuccess("Saved %s", path)
	return nil
}
