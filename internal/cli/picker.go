package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// figureItem is one row in the interactive figure picker.
type figureItem struct {
	ID       string
	Type     string
	Children int
}

// figurePickerModel is the bubbletea model for interactive figure selection.
type figurePickerModel struct {
	items    []figureItem
	cursor   int
	selected *figureItem
	height   int
	offset   int
}

func newFigurePickerModel(items []figureItem) figurePickerModel {
	return figurePickerModel{items: items, height: 15}
}

func (m figurePickerModel) Init() tea.Cmd {
	return nil
}

func (m figurePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			item := m.items[m.cursor]
			m.selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m figurePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Figure"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ build  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := m.offset; i < end; i++ {
		item := m.items[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + styleFigureID.Render(item.ID) + "  " + styleFigureType.Render(item.Type)
		if item.Children > 0 {
			line += " " + StyleDim.Render(fmt.Sprintf("(%d sub-figures)", item.Children))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// pickFigure runs the interactive picker and returns the selected figure,
// or nil if the user quit without selecting.
func pickFigure(items []figureItem) (*figureItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("spec declares no figures")
	}

	p := tea.NewProgram(newFigurePickerModel(items))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	model, ok := final.(figurePickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model %T", final)
	}
	return model.selected, nil
}
