package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.ForceQuit) {
		return m, tea.Quit
	}

	// An open error swallows everything until dismissed
	if m.errorMessage() != "" {
		if key.Matches(msg, Keys.Confirm) {
			m.dismissError()
		}
		return m, nil
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch m.Focus {
	case PaneForm:
		return m.handleFormKey(msg)
	case PaneSearch:
		return m.handleSearchKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Escape) {
		return m, m.setFocus(PaneList)
	}

	form, cmd, submitted := m.Form.Update(msg)
	m.Form = form
	if submitted == nil {
		return m, cmd
	}
	return m, m.addIngredient(*submitted)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.setFocus(PaneList)
	case "enter":
		return m, m.startSearch(m.SearchBar.Value())
	}

	bar, cmd, changed := m.SearchBar.Update(msg)
	m.SearchBar = bar
	if !changed {
		return m, cmd
	}

	query := m.SearchBar.Value()
	suggestion := ""
	if best := m.SearchSvc.Suggest(query, 1); len(best) > 0 {
		suggestion = best[0]
	}
	m.SearchBar.SetSuggestion(suggestion)

	return m, tea.Batch(cmd, DebounceSearchCmd(query, m.Debounce))
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input takes every key while typing
	if !m.List.IsFilterTyping() {
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.Help):
			m.ShowHelp = true
			return m, nil
		case key.Matches(msg, Keys.FocusForm):
			return m, m.setFocus(PaneForm)
		case key.Matches(msg, Keys.FocusSearch):
			return m, m.setFocus(PaneSearch)
		case key.Matches(msg, Keys.Reload):
			return m, m.startSearch(m.SearchBar.Value())
		}
	}

	list, cmd, removeID := m.List.Update(msg)
	m.List = list
	if removeID == "" {
		return m, cmd
	}
	return m, m.removeIngredient(removeID)
}
