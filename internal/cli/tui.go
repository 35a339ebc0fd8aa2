package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/procflow/procflow/pkg/errors"
	"github.com/procflow/procflow/pkg/mermaid"
	"github.com/procflow/procflow/pkg/process"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(colorCyan)
	errStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// EditorModel - Guided Process Builder
// =============================================================================

// editorMode selects what the editor is currently asking for.
type editorMode int

const (
	modeMenu       editorMode = iota // main action menu
	modeTaskLabel                    // label for a new task step
	modeQuestion                     // question for a new decision
	modeYesLabel                     // yes-branch step label
	modeNoLabel                      // no-branch step label
	modeBranch                       // which decision branch to continue on
	modeRename                       // new process name
	modePickNode                     // pick a node for the pending action
	modePickEdge                     // pick an edge to remove
	modeEditLabel                    // replacement label for the picked node
)

// nodeAction is what happens to a node picked in modePickNode.
type nodeAction int

const (
	actionEditLabel nodeAction = iota
	actionRemove
	actionRewind
)

// menuItem pairs a menu entry with its behavior.
type menuItem struct {
	title string
	run   func(m EditorModel) (EditorModel, tea.Cmd)
}

// EditorModel is the bubbletea model for the guided process builder.
// Every step attaches to the tail node, mirroring a narrated walkthrough:
// "and then what happens?".
type EditorModel struct {
	Proc *process.Process

	// tail is the node the next step chains from.
	tail string

	mode   editorMode
	action nodeAction

	menu   []menuItem
	cursor int

	input  string
	picked string // node id picked for edit

	// pending decision answers collected across input modes
	question string
	yesLabel string

	// ids of the freshly created decision branches, for modeBranch
	branchIDs [2]string

	errMsg string

	// Saved reports whether the user chose to persist on exit.
	Saved bool
}

// NewEditorModel creates an editor for the given process.
func NewEditorModel(p *process.Process) EditorModel {
	m := EditorModel{Proc: p, tail: process.StartNodeID}
	m.menu = []menuItem{
		{"Add a step", func(m EditorModel) (EditorModel, tea.Cmd) {
			return m.enterInput(modeTaskLabel), nil
		}},
		{"Add a decision", func(m EditorModel) (EditorModel, tea.Cmd) {
			return m.enterInput(modeQuestion), nil
		}},
		{"Mark the end", func(m EditorModel) (EditorModel, tea.Cmd) {
			end := m.Proc.EnsureEnd()
			if m.tail != end {
				if err := m.Proc.AddEdge(m.tail, end, ""); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.tail = end
			return m, nil
		}},
		{"Continue from an earlier step", func(m EditorModel) (EditorModel, tea.Cmd) {
			m.action = actionRewind
			return m.enterPickNode(), nil
		}},
		{"Edit a label", func(m EditorModel) (EditorModel, tea.Cmd) {
			m.action = actionEditLabel
			return m.enterPickNode(), nil
		}},
		{"Remove a step", func(m EditorModel) (EditorModel, tea.Cmd) {
			m.action = actionRemove
			return m.enterPickNode(), nil
		}},
		{"Remove a connection", func(m EditorModel) (EditorModel, tea.Cmd) {
			if m.Proc.EdgeCount() == 0 {
				m.errMsg = "there are no connections yet"
				return m, nil
			}
			m.mode = modePickEdge
			m.cursor = 0
			return m, nil
		}},
		{"Rename the process", func(m EditorModel) (EditorModel, tea.Cmd) {
			m = m.enterInput(modeRename)
			m.input = m.Proc.Name
			return m, nil
		}},
		{"Start over", func(m EditorModel) (EditorModel, tea.Cmd) {
			m.Proc.Reset()
			m.tail = process.StartNodeID
			return m, nil
		}},
		{"Save and quit", func(m EditorModel) (EditorModel, tea.Cmd) {
			m.Saved = true
			return m, tea.Quit
		}},
		{"Quit without saving", func(m EditorModel) (EditorModel, tea.Cmd) {
			return m, tea.Quit
		}},
	}
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

// enterInput switches to a text-entry mode with a cleared buffer.
func (m EditorModel) enterInput(mode editorMode) EditorModel {
	m.mode = mode
	m.input = ""
	m.errMsg = ""
	return m
}

// enterPickNode switches to the node picker.
func (m EditorModel) enterPickNode() EditorModel {
	m.mode = modePickNode
	m.cursor = 0
	m.errMsg = ""
	return m
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeMenu:
		return m.updateMenu(key)
	case modePickNode:
		return m.updatePickNode(key)
	case modePickEdge:
		return m.updatePickEdge(key)
	case modeBranch:
		return m.updateBranch(key)
	default:
		return m.updateInput(key)
	}
}

func (m EditorModel) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case "enter":
		m.errMsg = ""
		return m.menu[m.cursor].run(m)
	}
	return m, nil
}

func (m EditorModel) updatePickNode(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.Proc.Nodes()
	switch key.String() {
	case "esc", "q":
		return m.backToMenu(), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
	case "enter":
		node := nodes[m.cursor]
		switch m.action {
		case actionEditLabel:
			m.picked = node.ID
			m.mode = modeEditLabel
			m.input = node.Label
		case actionRemove:
			if err := m.Proc.RemoveNode(node.ID); err != nil {
				m.errMsg = err.Error()
				return m.backToMenuKeepError(), nil
			}
			if _, ok := m.Proc.Node(m.tail); !ok {
				m.tail = process.StartNodeID
			}
			return m.backToMenu(), nil
		case actionRewind:
			if err := m.Proc.TruncateAfter(node.ID); err != nil {
				m.errMsg = err.Error()
				return m.backToMenuKeepError(), nil
			}
			m.tail = node.ID
			return m.backToMenu(), nil
		}
	}
	return m, nil
}

func (m EditorModel) updatePickEdge(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	edges := m.Proc.Edges()
	switch key.String() {
	case "esc", "q":
		return m.backToMenu(), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(edges)-1 {
			m.cursor++
		}
	case "enter":
		if err := m.Proc.RemoveEdge(m.cursor); err != nil {
			m.errMsg = err.Error()
			return m.backToMenuKeepError(), nil
		}
		return m.backToMenu(), nil
	}
	return m, nil
}

func (m EditorModel) updateBranch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		return m.backToMenu(), nil
	case "up", "k", "down", "j":
		m.cursor = 1 - m.cursor
	case "enter":
		m.tail = m.branchIDs[m.cursor]
		return m.backToMenu(), nil
	}
	return m, nil
}

func (m EditorModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		return m.backToMenu(), nil
	case tea.KeyBackspace:
		if m.input != "" {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		if key.Type == tea.KeySpace {
			m.input += " "
		} else {
			m.input += string(key.Runes)
		}
	case tea.KeyEnter:
		return m.commitInput()
	}
	return m, nil
}

// commitInput applies the entered text according to the current mode.
func (m EditorModel) commitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input)

	switch m.mode {
	case modeTaskLabel:
		if err := apperrors.ValidateLabel(text); err != nil {
			m.errMsg = apperrors.UserMessage(err)
			return m, nil
		}
		// Check the attachment point before creating anything so a failed
		// step never leaves an orphaned node behind.
		if _, ok := m.Proc.Node(m.tail); !ok {
			m.errMsg = process.ErrUnknownNode.Error()
			return m.backToMenuKeepError(), nil
		}
		id := m.Proc.AddNode(text, process.KindTask)
		if err := m.Proc.AddEdge(m.tail, id, ""); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.tail = id
		return m.backToMenu(), nil

	case modeQuestion:
		if err := apperrors.ValidateLabel(text); err != nil {
			m.errMsg = apperrors.UserMessage(err)
			return m, nil
		}
		m.question = text
		m = m.enterInput(modeYesLabel)
		return m, nil

	case modeYesLabel:
		m.yesLabel = text
		m = m.enterInput(modeNoLabel)
		return m, nil

	case modeNoLabel:
		id, err := m.Proc.AddDecision(m.tail, m.question, m.yesLabel, text)
		if err != nil {
			m.errMsg = err.Error()
			return m.backToMenuKeepError(), nil
		}
		children := m.Proc.Children(id)
		if len(children) == 2 {
			m.branchIDs = [2]string{children[0], children[1]}
			m.mode = modeBranch
			m.cursor = 0
			return m, nil
		}
		return m.backToMenu(), nil

	case modeRename:
		if err := apperrors.ValidateProcessName(text); err != nil {
			m.errMsg = apperrors.UserMessage(err)
			return m, nil
		}
		m.Proc.Rename(text)
		return m.backToMenu(), nil

	case modeEditLabel:
		if err := apperrors.ValidateLabel(text); err != nil {
			m.errMsg = apperrors.UserMessage(err)
			return m, nil
		}
		m.Proc.UpdateLabel(m.picked, text)
		return m.backToMenu(), nil
	}

	return m.backToMenu(), nil
}

func (m EditorModel) backToMenu() EditorModel {
	m.mode = modeMenu
	m.cursor = 0
	m.input = ""
	m.errMsg = ""
	return m
}

func (m EditorModel) backToMenuKeepError() EditorModel {
	err := m.errMsg
	m = m.backToMenu()
	m.errMsg = err
	return m
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Proc.Name))
	b.WriteString("\n")
	if node, ok := m.Proc.Node(m.tail); ok {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("building after: %s", node.Label)))
	}
	b.WriteString("\n\n")

	b.WriteString(previewStyle.Render(mermaid.Render(m.Proc)))
	b.WriteString("\n\n")

	switch m.mode {
	case modeMenu:
		m.viewMenu(&b)
	case modePickNode:
		m.viewPickNode(&b)
	case modePickEdge:
		m.viewPickEdge(&b)
	case modeBranch:
		m.viewBranch(&b)
	default:
		m.viewInput(&b)
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(iconError + " " + m.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

func (m EditorModel) viewMenu(b *strings.Builder) {
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	for i, item := range m.menu {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + item.title
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m EditorModel) viewPickNode(b *strings.Builder) {
	titles := map[nodeAction]string{
		actionEditLabel: "Which label should change?",
		actionRemove:    "Which step should go?",
		actionRewind:    "Continue building after which step?",
	}
	b.WriteString(promptStyle.Render(titles[m.action]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back"))
	b.WriteString("\n\n")

	for i, n := range m.Proc.Nodes() {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, n.Kind, n.Label)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m EditorModel) viewPickEdge(b *strings.Builder) {
	b.WriteString(promptStyle.Render("Which connection should go?"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back"))
	b.WriteString("\n\n")

	for i, e := range m.Proc.Edges() {
		from := m.nodeLabel(e.From)
		to := m.nodeLabel(e.To)
		line := fmt.Sprintf("  %s %s %s", from, iconArrow, to)
		if e.Labeled() {
			line += listDimStyle.Render(" (" + e.Label + ")")
		}
		if i == m.cursor {
			line = "▸" + line[1:]
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m EditorModel) viewBranch(b *strings.Builder) {
	b.WriteString(promptStyle.Render("Continue on which branch?"))
	b.WriteString("\n\n")
	labels := [2]string{process.YesLabel, process.NoLabel}
	for i := 0; i < 2; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + labels[i] + ": " + m.nodeLabel(m.branchIDs[i])
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m EditorModel) viewInput(b *strings.Builder) {
	prompts := map[editorMode]string{
		modeTaskLabel: "What happens next?",
		modeQuestion:  "What is the question?",
		modeYesLabel:  "What happens on yes? (empty for default)",
		modeNoLabel:   "What happens on no? (empty for default)",
		modeRename:    "New process name:",
		modeEditLabel: "New label:",
	}
	b.WriteString(promptStyle.Render(prompts[m.mode]))
	b.WriteString("\n\n")
	b.WriteString("  " + StyleValue.Render(m.input) + StyleDim.Render("▎"))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("⏎ confirm  esc cancel"))
	b.WriteString("\n")
}

// nodeLabel resolves a node id to its label for display.
func (m EditorModel) nodeLabel(id string) string {
	if n, ok := m.Proc.Node(id); ok {
		return n.Label
	}
	return id
}
