package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/larder/internal/tui/styles"
)

// SearchBar holds the title filter sent to the store
type SearchBar struct {
	input      textinput.Model
	suggestion string // best history match, accepted with tab
	searching  bool
	width      int
}

// NewSearchBar creates an empty search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Filter by name"
	ti.CharLimit = 80
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

func (s *SearchBar) Blur() {
	s.input.Blur()
}

func (s SearchBar) IsFocused() bool {
	return s.input.Focused()
}

// Value returns the trimmed filter text
func (s SearchBar) Value() string {
	return strings.TrimSpace(s.input.Value())
}

func (s *SearchBar) SetSuggestion(suggestion string) {
	s.suggestion = suggestion
}

func (s SearchBar) Suggestion() string {
	return s.suggestion
}

// SetSearching toggles the in-flight indicator
func (s *SearchBar) SetSearching(searching bool) {
	s.searching = searching
}

func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-22, 10)
}

// Update handles typing. It reports whether the filter text changed.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !s.input.Focused() {
		return s, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "tab" {
		if s.suggestion == "" {
			return s, nil, false
		}
		s.input.SetValue(s.suggestion)
		s.input.CursorEnd()
		s.suggestion = ""
		return s, nil, true
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd, s.input.Value() != before
}

func (s SearchBar) View() string {
	border := styles.InactiveBorder
	if s.input.Focused() {
		border = styles.ActiveBorder
	}

	label := styles.LabelStyle.Render("Filter by Title ")
	if s.input.Focused() {
		label = styles.AccentStyle.Render("Filter by Title ")
	}

	line := label + s.input.View()
	if s.searching {
		line += styles.DimStyle.Render("  searching...")
	} else if s.suggestion != "" && s.input.Focused() {
		line += styles.DimStyle.Render("  tab: " + styles.Truncate(s.suggestion, 24))
	}

	frameW, _ := border.GetFrameSize()
	return border.Width(max(s.width-frameW, 20)).Padding(0, 1).Render(line)
}
