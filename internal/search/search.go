package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/larder/internal/domain"
)

// DebounceDelay is how long typing must pause before a search is sent
const DebounceDelay = 500 * time.Millisecond

// Service loads filtered ingredient sets from the store and keeps a history
// of the queries that produced them.
type Service struct {
	repo        domain.IngredientRepository
	history     domain.HistoryStore // may be nil
	historySize int
	logger      *slog.Logger
}

// NewService creates a new search service. history may be nil to disable
// query history.
func NewService(repo domain.IngredientRepository, history domain.HistoryStore, historySize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		history:     history,
		historySize: historySize,
		logger:      logger,
	}
}

// Load returns the ingredients matching filter. An empty filter returns the
// whole collection.
func (s *Service) Load(ctx context.Context, filter string) ([]domain.Ingredient, error) {
	filter = strings.TrimSpace(filter)

	if filter == "" {
		items, err := s.repo.ListIngredients(ctx)
		if err != nil {
			s.logger.Error("failed to list ingredients", "error", err)
			return nil, err
		}
		s.logger.Debug("listed ingredients", "count", len(items))
		return items, nil
	}

	items, err := s.repo.FindByTitle(ctx, filter)
	if err != nil {
		s.logger.Error("search failed", "query", filter, "error", err)
		return nil, err
	}
	s.logger.Debug("search complete", "query", filter, "results", len(items))

	s.remember(filter)
	return items, nil
}

func (s *Service) remember(query string) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordQuery(query); err != nil {
		s.logger.Warn("failed to record query", "query", query, "error", err)
		return
	}
	if pruner, ok := s.history.(interface{ Prune(int) error }); ok && s.historySize > 0 {
		if err := pruner.Prune(s.historySize); err != nil {
			s.logger.Warn("failed to prune history", "error", err)
		}
	}
}

// Suggest returns previous queries that fuzzily match input, best first.
// Ties keep recency order.
func (s *Service) Suggest(input string, limit int) []string {
	if s.history == nil {
		return nil
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	recent, err := s.history.RecentQueries(s.historySize)
	if err != nil {
		s.logger.Warn("failed to read history", "error", err)
		return nil
	}

	ranks := fuzzy.RankFindFold(input, recent)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	var result []string
	for _, r := range ranks {
		// The exact query is already in the input
		if strings.EqualFold(r.Target, input) {
			continue
		}
		result = append(result, r.Target)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}

// History returns the most recent queries, newest first
func (s *Service) History() []string {
	if s.history == nil {
		return nil
	}
	recent, err := s.history.RecentQueries(s.historySize)
	if err != nil {
		s.logger.Warn("failed to read history", "error", err)
		return nil
	}
	return recent
}
