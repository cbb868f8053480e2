package firebase

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/mmcdole/larder/internal/domain"
)

// IngredientRecord is one child of the ingredients collection
type IngredientRecord struct {
	Title  string        `json:"title"`
	Amount domain.Amount `json:"amount"`
}

// decodeRecords parses a collection body: an object keyed by record id, or
// null when the collection is empty.
func decodeRecords(body []byte) (map[string]IngredientRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return map[string]IngredientRecord{}, nil
	}

	var records map[string]IngredientRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MapIngredients converts decoded records to domain ingredients ordered by
// key. Push ids sort in creation order.
func MapIngredients(records map[string]IngredientRecord) []domain.Ingredient {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]domain.Ingredient, 0, len(ids))
	for _, id := range ids {
		r := records[id]
		result = append(result, domain.Ingredient{
			ID:     id,
			Title:  r.Title,
			Amount: r.Amount,
		})
	}
	return result
}
