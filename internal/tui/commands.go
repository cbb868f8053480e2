package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/larder/internal/request"
	"github.com/mmcdole/larder/internal/search"
)

// Command factories for async operations

const (
	callTimeout   = 10 * time.Second
	searchTimeout = 30 * time.Second
)

// ExecuteCallCmd performs a registered store call. Completion is applied
// back on the update loop.
func ExecuteCallCmd(tracker *request.Tracker, call request.Call) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		return CallCompletedMsg{Result: tracker.Execute(ctx, call)}
	}
}

// LoadIngredientsCmd fetches the ingredients matching filter
func LoadIngredientsCmd(svc *search.Service, filter string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		items, err := svc.Load(ctx, filter)
		if err != nil {
			return SearchFailedMsg{
				ErrMsg: ErrMsg{Err: err, Context: "loading ingredients"},
				Query:  filter,
			}
		}
		return IngredientsLoadedMsg{Ingredients: items, Query: filter}
	}
}

// DebounceSearchCmd waits out the debounce delay before asking for a search
func DebounceSearchCmd(query string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Query: query}
	})
}

// TickCmd returns a command that sends a tick after the given duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
