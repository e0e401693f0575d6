package prompt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/ui"
)

const pickerRows = 10

// pickerKeys defines the picker's key bindings. Letters go to the filter,
// so navigation uses arrows and ctrl chords only.
type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Picker is a bubbletea model that filters items as the user types
type Picker struct {
	title    string
	items    []string
	filtered []string
	cursor   int
	offset   int
	width    int

	input textinput.Model
	keys  pickerKeys

	chosen  string
	aborted bool
}

// NewPicker creates a picker over items
func NewPicker(title string, items []string) Picker {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "> "
	ti.PromptStyle = ui.FilterPromptStyle
	ti.PlaceholderStyle = ui.DimStyle
	ti.Focus()

	return Picker{
		title:    title,
		items:    items,
		filtered: items,
		input:    ti,
		keys:     defaultPickerKeys(),
	}
}

func (m Picker) Init() tea.Cmd {
	return textinput.Blink
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Select):
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.chosen = m.filtered[m.cursor]
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Up):
			m.move(-1)
			return m, nil
		case key.Matches(keyMsg, m.keys.Down):
			m.move(1)
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filtered = filterItems(m.input.Value(), m.items)
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m *Picker) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.filtered)-1, m.cursor+delta))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerRows {
		m.offset = m.cursor - pickerRows + 1
	}
}

func (m Picker) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(ui.DimStyle.Render("  no matching styles"))
		b.WriteString("\n")
	}

	end := min(len(m.filtered), m.offset+pickerRows)
	for i := m.offset; i < end; i++ {
		row := m.filtered[i]
		if m.width > 0 {
			// two cells of padding per row
			row = ui.Truncate(row, m.width-2)
		}
		if i == m.cursor {
			b.WriteString(ui.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(ui.NormalItemStyle.Render(row))
		}
		b.WriteString("\n")
	}
	b.WriteString(ui.CategoryStyle.Render(fmt.Sprintf("  %d/%d styles", len(m.filtered), len(m.items))))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Picker) helpView() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Cancel}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, ui.HelpKeyStyle.Render(h.Key)+" "+ui.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// Chosen returns the selected item and whether one was selected
func (m Picker) Chosen() (string, bool) {
	return m.chosen, m.chosen != "" && !m.aborted
}

// filterItems ranks items against query, best match first.
// An empty query keeps the original order.
func filterItems(query string, items []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	ranks := fuzzy.RankFindFold(query, items)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// Pick runs a picker program on in/out and returns the chosen item.
// Cancelling returns domain.ErrAborted.
func Pick(title string, items []string, in io.Reader, out io.Writer) (string, error) {
	final, err := tea.NewProgram(NewPicker(title, items), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	chosen, ok := final.(Picker).Chosen()
	if !ok {
		return "", domain.ErrAborted
	}
	return chosen, nil
}
