package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayoutListModel - Interactive layout selection
// =============================================================================

// LayoutItem is one entry of the layout picker.
type LayoutItem struct {
	Name string
	Keys int
}

// LayoutListModel is the bubbletea model for interactive layout selection.
type LayoutListModel struct {
	Title    string
	Layouts  []LayoutItem
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewLayoutListModel creates a picker over the layouts of doc in document order.
func NewLayoutListModel(doc *keyboard.Document) LayoutListModel {
	items := make([]LayoutItem, 0, doc.Layouts.Len())
	for _, name := range doc.Layouts.Names() {
		layout, _ := doc.Layouts.Get(name)
		items = append(items, LayoutItem{Name: name, Keys: len(layout.Keys)})
	}
	title := "Select Layout"
	if doc.Name != "" {
		title += " of " + doc.Name
	}
	return LayoutListModel{Title: title, Layouts: items, Height: 15}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layouts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Layouts) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Layouts[m.Cursor].Name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layouts))
	for i := m.Offset; i < end; i++ {
		item := m.Layouts[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-32s %s", cursor, item.Name, listDimStyle.Render(fmt.Sprintf("%d keys", item.Keys)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layouts))))
	return b.String()
}

// pickLayout runs the picker. An empty name means the user quit.
// A document with a single layout is picked without prompting.
func pickLayout(doc *keyboard.Document) (string, error) {
	switch doc.Layouts.Len() {
	case 0:
		return "", errors.New(errors.ErrCodeSchema, "document has no layouts")
	case 1:
		return doc.Layouts.Names()[0], nil
	}

	final, err := tea.NewProgram(NewLayoutListModel(doc)).Run()
	if err != nil {
		return "", fmt.Errorf("layout picker: %w", err)
	}
	return final.(LayoutListModel).Selected, nil
}
