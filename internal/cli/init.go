package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/document"
	apperrors "github.com/procflow/procflow/pkg/errors"
	"github.com/procflow/procflow/pkg/process"
)

// initCommand creates the init command for starting a new process document.
func (c *CLI) initCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new process document",
		Long: `Create a new process document containing only the start node.

The optional name argument sets the process title. The document is written
to process.json unless --output is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := process.New()
			if len(args) == 1 {
				if err := apperrors.ValidateProcessName(args[0]); err != nil {
					return err
				}
				p.Rename(args[0])
			}

			path := output
			if path == "" {
				path = defaultDocument
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := document.WriteFile(p, path); err != nil {
				return fmt.Errorf("write document: %w", err)
			}

			printSuccess("Created %q", p.Name)
			printFile(path)
			printNextStep("Build it step by step", fmt.Sprintf("procflow edit %s", path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default process.json)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")

	return cmd
}
