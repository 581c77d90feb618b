package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNothingToPick is returned by Pick for an empty list.
var ErrNothingToPick = errors.New("nothing to pick from")

// PickerItem is one selectable line, e.g. a wallet or a network.
type PickerItem struct {
	Label    string
	SubLabel string // dimmed, e.g. an address
	Value    string
}

type pickerModel struct {
	title    string
	items    []PickerItem
	current  string // Value marked as active
	cursor   int
	selected *PickerItem
	quitting bool
}

func newPicker(title string, items []PickerItem, current string) pickerModel {
	m := pickerModel{title: title, items: items, current: current}
	for i, it := range items {
		if it.Value == current {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		item := m.items[m.cursor]
		m.selected = &item
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n")
	for i, item := range m.items {
		mark := "  "
		if item.Value == m.current {
			mark = StyleSuccess.Render("● ")
		}
		line := StyleValue.Render(item.Label)
		if item.SubLabel != "" {
			line += "  " + Meta(item.SubLabel)
		}
		if i == m.cursor {
			sb.WriteString("  ▸ " + mark + StyleSelected.Render(item.Label))
			if item.SubLabel != "" {
				sb.WriteString("  " + Meta(item.SubLabel))
			}
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("    " + mark + line + "\n")
	}
	sb.WriteString("\n" + Meta("  ↑↓/jk move · enter select · q cancel") + "\n")
	return sb.String()
}

// Pick runs an interactive list and returns the chosen Value. The cursor
// starts on current. A cancelled pick returns ("", nil).
func Pick(title string, items []PickerItem, current string) (string, error) {
	if len(items) == 0 {
		return "", ErrNothingToPick
	}
	final, err := tea.NewProgram(newPicker(title, items, current)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	fm := final.(pickerModel)
	if fm.selected == nil {
		return "", nil
	}
	return fm.selected.Value, nil
}
