package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/document"
)

// showCommand creates the show command for inspecting a process document.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [process.json]",
		Short: "Show the steps and branches of a process document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDocument
			if len(args) == 1 {
				path = args[0]
			}
			p, err := document.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			fmt.Println(StyleTitle.Render(p.Name))
			printKeyValue("Nodes", strconv.Itoa(p.NodeCount()))
			printKeyValue("Edges", strconv.Itoa(p.EdgeCount()))
			fmt.Println()

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			borderStyle := lipgloss.NewStyle().Foreground(colorDim)

			rows := [][]string{}
			for _, n := range p.Nodes() {
				rows = append(rows, []string{n.ID, string(n.Kind), n.Label})
			}
			nodeTable := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(borderStyle).
				Headers("ID", "Kind", "Label").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StyleDim
					}
					return StyleValue
				})
			fmt.Println(nodeTable.Render())

			if p.EdgeCount() == 0 {
				return nil
			}

			fmt.Println()
			rows = rows[:0]
			for _, e := range p.Edges() {
				label := e.Label
				if label == "" {
					label = "—"
				}
				rows = append(rows, []string{e.From, iconArrow, e.To, label})
			}
			edgeTable := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(borderStyle).
				Headers("From", "", "To", "Label").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 1 || col == 3 {
						return StyleDim
					}
					return StyleValue
				})
			fmt.Println(edgeTable.Render())
			return nil
		},
	}
}
