package firebase

import (
	"encoding/json"
	"testing"

	"github.com/mmcdole/larder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []domain.Ingredient
	}{
		{name: "null collection", body: `null`, want: []domain.Ingredient{}},
		{name: "empty body", body: ``, want: []domain.Ingredient{}},
		{name: "empty object", body: `{}`, want: []domain.Ingredient{}},
		{
			name: "numeric and string amounts",
			body: `{"-Nb":{"title":"Flour","amount":2.5},"-Na":{"title":"Eggs","amount":"12"}}`,
			want: []domain.Ingredient{
				{ID: "-Na", Title: "Eggs", Amount: "12"},
				{ID: "-Nb", Title: "Flour", Amount: "2.5"},
			},
		},
		{
			name: "missing amount",
			body: `{"-Na":{"title":"Salt"}}`,
			want: []domain.Ingredient{{ID: "-Na", Title: "Salt"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := decodeRecords([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, MapIngredients(records))
		})
	}
}

func TestIngredientRecordRejectsBadAmount(t *testing.T) {
	var r IngredientRecord
	err := json.Unmarshal([]byte(`{"title":"Salt","amount":{"g":5}}`), &r)
	assert.Error(t, err)
}
