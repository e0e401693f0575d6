package prompt

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/recraft/internal/domain"
)

func TestLineSkipsBlankAnswers(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n  \na red fox\n"), &out)

	got, err := p.Line("Enter a description")
	require.NoError(t, err)
	assert.Equal(t, "a red fox", got)
	assert.Equal(t, 3, strings.Count(out.String(), "Enter a description"), "times asked")
}

func TestLineEOF(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Line("x")
	assert.ErrorIs(t, err, domain.ErrAborted)
}

func TestSecretWithoutTerminal(t *testing.T) {
	p := New(strings.NewReader("tok-abc\n"), &bytes.Buffer{})
	require.False(t, p.Interactive(), "string reader should not be interactive")

	got, err := p.Secret("Enter your Recraft API token")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got)
}

func TestChooseRetries(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n9\n2\n"), &out)

	idx, err := p.Choose("Enter your choice", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "valid number")
	assert.Contains(t, out.String(), "Invalid choice")
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
	}
	for in, want := range tests {
		p := New(strings.NewReader(in), &bytes.Buffer{})
		got, err := p.Confirm("Proceed?")
		require.NoError(t, err, "Confirm(%q)", in)
		assert.Equal(t, want, got, "Confirm(%q)", in)
	}
}

func TestPickWithoutTerminal(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Pick("Style", []string{"any"})
	assert.Error(t, err, "expected error without a terminal")
}

var pickerItems = []string{
	"realistic_image",
	"digital_illustration",
	"vector_illustration",
	"vector_illustration_line_art",
}

func update(m Picker, msg tea.Msg) Picker {
	next, _ := m.Update(msg)
	return next.(Picker)
}

func TestPickerFilterAndSelect(t *testing.T) {
	m := NewPicker("Choose a style", pickerItems)

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("vector")})
	assert.Equal(t, []string{"vector_illustration", "vector_illustration_line_art"}, m.filtered)

	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	got, ok := m.Chosen()
	assert.True(t, ok)
	assert.Equal(t, "vector_illustration_line_art", got)
}

func TestPickerCursorBounds(t *testing.T) {
	m := NewPicker("Choose a style", pickerItems)

	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Zero(t, m.cursor, "cursor moved above first item")
	for range 10 {
		m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(pickerItems)-1, m.cursor, "cursor should stop at the last item")
}

func TestPickerCancel(t *testing.T) {
	m := NewPicker("Choose a style", pickerItems)
	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok := m.Chosen()
	assert.False(t, ok, "cancelled picker should have no choice")
}

func TestPickerNoMatches(t *testing.T) {
	m := NewPicker("Choose a style", pickerItems)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := m.Chosen()
	assert.False(t, ok, "enter with no matches should not select")
	assert.Contains(t, m.View(), "no matching styles")
}

func TestPickerViewFitsWidth(t *testing.T) {
	m := NewPicker("Choose a style", pickerItems)
	m = update(m, tea.WindowSizeMsg{Width: 12, Height: 20})
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("line")})

	view := m.View()
	assert.Contains(t, view, "vector_...", "long rows should be truncated")
	assert.NotContains(t, view, "vector_illustration_line_art", "row wider than the terminal was rendered in full")
	assert.Contains(t, view, "/"+strconv.Itoa(len(pickerItems))+" styles", "view should show the match count")
}
