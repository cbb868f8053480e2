package ingredients

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/request"
)

// Intent tags for calls issued by the controller
const (
	IntentAddIngredient    request.Intent = "ADD_INGREDIENT"
	IntentRemoveIngredient request.Intent = "REMOVE_INGREDIENT"
)

// Locator maps ingredient operations to store resource paths
type Locator interface {
	CollectionPath() string
	ItemPath(id string) string
}

// createResponse is the store's answer to a create call
type createResponse struct {
	Name string `json:"name"`
}

// Controller owns the ingredient list and reconciles it with completed
// store calls.
type Controller struct {
	tracker *request.Tracker
	locator Locator
	logger  *slog.Logger

	items []domain.Ingredient
}

// NewController creates a controller with an empty list
func NewController(tracker *request.Tracker, locator Locator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		tracker: tracker,
		locator: locator,
		logger:  logger,
		items:   []domain.Ingredient{},
	}
}

// AddIngredient issues a create call for ing. The ingredient is appended
// once the store answers with its id.
func (c *Controller) AddIngredient(ing domain.Ingredient) request.Call {
	payload := ing.WithoutID()
	return c.tracker.Send(request.Request{
		Method: http.MethodPost,
		Path:   c.locator.CollectionPath(),
		Body:   payload,
		Extra:  payload,
		Intent: IntentAddIngredient,
	})
}

// RemoveIngredient issues a delete call for id. The record is removed once
// the store confirms.
func (c *Controller) RemoveIngredient(id string) request.Call {
	return c.tracker.Send(request.Request{
		Method: http.MethodDelete,
		Path:   c.locator.ItemPath(id),
		Extra:  id,
		Intent: IntentRemoveIngredient,
	})
}

// SetIngredients replaces the list with a result set fetched elsewhere
func (c *Controller) SetIngredients(list []domain.Ingredient) {
	c.dispatch(Set{Ingredients: list})
}

// Reconcile completes the call behind res and applies the mutation its
// intent calls for. It reports whether the list changed.
func (c *Controller) Reconcile(res request.Result) bool {
	if !c.tracker.Complete(res) {
		return false
	}
	if res.Err != nil {
		return false
	}

	switch res.Call.Intent {
	case IntentRemoveIngredient:
		id, ok := res.Call.Extra.(string)
		if !ok {
			panic(fmt.Sprintf("ingredients: remove payload is %T, want string", res.Call.Extra))
		}
		c.dispatch(Delete{ID: id})
		return true

	case IntentAddIngredient:
		ing, ok := res.Call.Extra.(domain.Ingredient)
		if !ok {
			panic(fmt.Sprintf("ingredients: add payload is %T, want domain.Ingredient", res.Call.Extra))
		}
		var created createResponse
		if err := json.Unmarshal(res.Data, &created); err != nil || created.Name == "" {
			c.tracker.Fail(res.Call, fmt.Errorf("%w: create response %q", domain.ErrMalformedResponse, string(res.Data)))
			return false
		}
		ing.ID = created.Name
		c.dispatch(Add{Ingredient: ing})
		return true

	default:
		c.logger.Warn("completed call has no reconciliation", "intent", res.Call.Intent)
		return false
	}
}

func (c *Controller) dispatch(action Action) {
	c.items = Reduce(c.items, action)
	c.logger.Debug("ingredient list updated", "action", fmt.Sprintf("%T", action), "count", len(c.items))
}

// Ingredients returns the current list. Callers must not modify it.
func (c *Controller) Ingredients() []domain.Ingredient {
	return c.items
}

// IsLoading reports whether a store call is in flight
func (c *Controller) IsLoading() bool {
	return c.tracker.IsLoading()
}

// ErrorMessage returns the store error to display, if any
func (c *Controller) ErrorMessage() (string, bool) {
	return c.tracker.ErrorMessage()
}

// ClearError dismisses the displayed error without touching the list
func (c *Controller) ClearError() {
	c.tracker.Clear()
}

// Tracker returns the underlying call tracker
func (c *Controller) Tracker() *request.Tracker {
	return c.tracker
}
