package domain

import (
	"context"
	"encoding/json"
)

// Transport performs a single call against the remote store.
// path is relative to the store base URL; body is JSON-encoded when non-nil.
type Transport interface {
	Do(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// IngredientRepository reads ingredient listings from the remote store
type IngredientRepository interface {
	// ListIngredients returns every ingredient in the collection
	ListIngredients(ctx context.Context) ([]Ingredient, error)

	// FindByTitle returns ingredients whose title equals title exactly
	FindByTitle(ctx context.Context, title string) ([]Ingredient, error)
}

// HistoryStore keeps recently submitted search queries
type HistoryStore interface {
	// RecordQuery marks query as used now
	RecordQuery(query string) error

	// RecentQueries returns up to limit queries, most recent first
	RecentQueries(limit int) ([]string, error)

	// ClearHistory removes every recorded query
	ClearHistory() error

	Close() error
}
