package ingredients

import (
	"fmt"

	"github.com/mmcdole/larder/internal/domain"
)

// Action is a list mutation. The set is closed: only Set, Add and Delete
// implement it.
type Action interface {
	isAction()
}

// Set replaces the whole list
type Set struct {
	Ingredients []domain.Ingredient
}

// Add appends one ingredient
type Add struct {
	Ingredient domain.Ingredient
}

// Delete removes every ingredient with ID
type Delete struct {
	ID string
}

func (Set) isAction()    {}
func (Add) isAction()    {}
func (Delete) isAction() {}

// Reduce returns the list that results from applying action to current.
// current is never modified.
func Reduce(current []domain.Ingredient, action Action) []domain.Ingredient {
	switch a := action.(type) {
	case Set:
		return ReplaceAll(a.Ingredients)
	case Add:
		return Append(current, a.Ingredient)
	case Delete:
		return RemoveByID(current, a.ID)
	default:
		panic(fmt.Sprintf("ingredients: unhandled action %T", action))
	}
}

// ReplaceAll returns a copy of newList
func ReplaceAll(newList []domain.Ingredient) []domain.Ingredient {
	out := make([]domain.Ingredient, len(newList))
	copy(out, newList)
	return out
}

// Append returns current with ing added at the end. No duplicate check is
// made; ids come from the store.
func Append(current []domain.Ingredient, ing domain.Ingredient) []domain.Ingredient {
	out := make([]domain.Ingredient, len(current), len(current)+1)
	copy(out, current)
	return append(out, ing)
}

// RemoveByID returns current without the records whose ID equals id
func RemoveByID(current []domain.Ingredient, id string) []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(current))
	for _, ing := range current {
		if ing.ID != id {
			out = append(out, ing)
		}
	}
	return out
}
