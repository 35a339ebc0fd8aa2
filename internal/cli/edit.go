package cli

import (
	"errors"
	"fmt"
	"io/fs"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/document"
	"github.com/procflow/procflow/pkg/process"
)

// editCommand creates the edit command: the interactive guided builder.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [process.json]",
		Short: "Build a process interactively, one step at a time",
		Long: `Build a process interactively, one step at a time.

The editor walks the process like a narration: every new step or decision
attaches after the current one. If the file does not exist yet it starts
from a fresh process; changes are only written back on "Save and quit".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDocument
			if len(args) == 1 {
				path = args[0]
			}

			p, err := document.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				p = process.New()
			} else if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			prog := tea.NewProgram(NewEditorModel(p), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := prog.Run()
			if err != nil {
				return fmt.Errorf("run editor: %w", err)
			}

			model, ok := final.(EditorModel)
			if !ok || !model.Saved {
				printInfo("Discarded changes")
				return nil
			}

			if err := document.WriteFile(model.Proc, path); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			printSuccess("Saved %q", model.Proc.Name)
			printFile(path)
			printNextStep("Preview it", fmt.Sprintf("procflow serve %s", path))
			return nil
		},
	}
}
