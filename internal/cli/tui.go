package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorOK)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// NodePickerModel - Interactive child selection
// =============================================================================

// NodePickerModel is the bubbletea model for picking the children of a new
// relation. Space toggles a node; the pick order is the child order.
type NodePickerModel struct {
	Title     string
	Nodes     []scene.Node
	Cursor    int
	Picked    []string
	Height    int
	Offset    int
	Confirmed bool
}

// NewNodePickerModel creates a picker over the scene's nodes.
func NewNodePickerModel(title string, nodes []scene.Node) NodePickerModel {
	return NodePickerModel{Title: title, Nodes: nodes, Height: 15}
}

func (m NodePickerModel) Init() tea.Cmd {
	return nil
}

func (m NodePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Picked = nil
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Nodes) > 0 {
				m.toggle(m.Nodes[m.Cursor].ID)
			}
		case "enter":
			if len(m.Picked) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m *NodePickerModel) toggle(id string) {
	for i, p := range m.Picked {
		if p == id {
			m.Picked = append(m.Picked[:i:i], m.Picked[i+1:]...)
			return
		}
	}
	m.Picked = append(m.Picked, id)
}

func (m NodePickerModel) position(id string) int {
	for i, p := range m.Picked {
		if p == id {
			return i + 1
		}
	}
	return 0
}

func (m NodePickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if pos := m.position(n.ID); pos > 0 {
			mark = fmt.Sprintf("%d", pos)
		}
		rows = append(rows, []string{cursor, mark, n.ID, string(n.Kind), claims(n)})
	}

	t := newTable(func(row, col int) lipgloss.Style {
		idx := m.Offset + row
		switch {
		case idx >= len(m.Nodes):
			return lipgloss.NewStyle()
		case idx == m.Cursor:
			return listSelectedStyle
		case m.position(m.Nodes[idx].ID) > 0:
			return listCheckedStyle
		}
		return listDimStyle
	}, "", "#", "Node", "Kind", "Owners").Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d picked · [%d/%d]", len(m.Picked), m.Cursor+1, len(m.Nodes))))
	return b.String()
}

// pickNodes runs the picker and returns the chosen ids in pick order. It
// refuses to start when stdin is not a terminal.
func pickNodes(s *scene.Scene, title string) ([]string, error) {
	if fi, err := os.Stdin.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "--ids is required when stdin is not a terminal")
	}
	if s.Len() == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "scene has no nodes to pick")
	}

	p := tea.NewProgram(NewNodePickerModel(title, s.Nodes()))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("node picker: %w", err)
	}
	fm, ok := finalModel.(NodePickerModel)
	if !ok || !fm.Confirmed {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no nodes picked")
	}
	return fm.Picked, nil
}
