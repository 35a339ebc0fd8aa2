package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/config"
	"github.com/procflow/procflow/pkg/document"
	apperrors "github.com/procflow/procflow/pkg/errors"
	"github.com/procflow/procflow/pkg/store"
)

// storeCommand creates the store command for sharing process documents.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Push and pull process documents from a shared store",
		Long: `Push and pull process documents from a shared store.

The backend is selected in the configuration file: "file" (the default,
under the local data directory), "redis", or "mongo".`,
	}

	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

// withStore opens the configured store, runs fn, and closes it.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	backend := cfg.Store
	if backend == "" {
		backend = "file"
	}
	s, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", backend, err)
	}
	s = store.Instrument(backend, s)
	defer func() {
		if err := s.Close(ctx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	return fn(s)
}

// storePushCommand creates the "store push" subcommand.
func (c *CLI) storePushCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "push <process.json>",
		Short: "Upload a process document to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// Round-trip through the codec so only well-formed documents
			// reach the store.
			p, err := document.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			data, err := document.Marshal(p)
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if err := apperrors.ValidateProcessName(name); err != nil {
				return err
			}

			return c.withStore(cmd.Context(), func(s store.Store) error {
				if err := s.Put(cmd.Context(), name, data); err != nil {
					return fmt.Errorf("push %q: %w", name, err)
				}
				printSuccess("Pushed %q", name)
				printStats(p.NodeCount(), p.EdgeCount(), false)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "store name (default derived from the filename)")

	return cmd
}

// storePullCommand creates the "store pull" subcommand.
func (c *CLI) storePullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Download a process document from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return c.withStore(cmd.Context(), func(s store.Store) error {
				data, err := s.Get(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("pull %q: %w", name, err)
				}

				// Decode before writing so a corrupt store entry fails
				// here instead of at the next load.
				p, err := document.Unmarshal(data)
				if err != nil {
					return fmt.Errorf("decode %q: %w", name, err)
				}

				path := output
				if path == "" {
					path = name + ".json"
				}
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printSuccess("Pulled %q", p.Name)
				printFile(path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json)")

	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List process documents in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s store.Store) error {
				names, err := s.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list store: %w", err)
				}
				if len(names) == 0 {
					printInfo("Store is empty")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	}
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a process document from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return c.withStore(cmd.Context(), func(s store.Store) error {
				if err := s.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("remove %q: %w", name, err)
				}
				printSuccess("Removed %q", name)
				return nil
			})
		},
	}
}
