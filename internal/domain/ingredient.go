package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ingredient is a single pantry entry. ID is assigned by the remote store on
// creation and is empty for ingredients that have not been saved yet.
type Ingredient struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Amount Amount `json:"amount"`
}

// WithoutID returns a copy of the ingredient with its ID cleared
func (i Ingredient) WithoutID() Ingredient {
	i.ID = ""
	return i
}

// Amount holds an ingredient quantity as entered by the user.
// The store may hold it as a JSON string or a JSON number; both decode here.
type Amount string

// UnmarshalJSON accepts a JSON string, number, or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// String returns the amount text
func (a Amount) String() string {
	return string(a)
}

// Float parses the amount as a number
func (a Amount) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
