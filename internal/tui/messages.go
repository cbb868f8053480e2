package tui

import (
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/request"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CallCompletedMsg carries the outcome of an add or remove call
type CallCompletedMsg struct {
	Result request.Result
}

// IngredientsLoadedMsg signals that a search returned its result set
type IngredientsLoadedMsg struct {
	Ingredients []domain.Ingredient
	Query       string
}

// SearchFailedMsg signals that loading ingredients for Query failed
type SearchFailedMsg struct {
	ErrMsg
	Query string
}

// SearchDebounceMsg fires once typing has paused. The search only runs if
// Query still matches the input.
type SearchDebounceMsg struct {
	Query string
}

// TickMsg drives the spinner
type TickMsg struct{}

// ClearStatusMsg clears the footer status message
type ClearStatusMsg struct{}
