package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/larder/internal/adapter/firebase"
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/ingredients"
	"github.com/mmcdole/larder/internal/request"
	"github.com/mmcdole/larder/internal/search"
	"github.com/mmcdole/larder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDatabase serves the ingredients collection the way the REST API does
type fakeDatabase struct {
	mu      sync.Mutex
	records map[string]firebase.IngredientRecord
	nextID  int
	fail    bool
}

func (db *fakeDatabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.fail {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/ingredients.json":
		out := map[string]firebase.IngredientRecord{}
		var want string
		filtered := r.URL.Query().Get("equalTo") != ""
		if filtered {
			_ = json.Unmarshal([]byte(r.URL.Query().Get("equalTo")), &want)
		}
		for id, rec := range db.records {
			if !filtered || rec.Title == want {
				out[id] = rec
			}
		}
		_ = json.NewEncoder(w).Encode(out)

	case r.Method == http.MethodPost && r.URL.Path == "/ingredients.json":
		var rec firebase.IngredientRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		db.nextID++
		id := fmt.Sprintf("gen-id-%d", db.nextID)
		db.records[id] = rec
		_ = json.NewEncoder(w).Encode(map[string]string{"name": id})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/ingredients/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/ingredients/"), ".json")
		delete(db.records, id)
		_, _ = w.Write([]byte("null"))

	default:
		http.NotFound(w, r)
	}
}

func (db *fakeDatabase) setFail(fail bool) {
	db.mu.Lock()
	db.fail = fail
	db.mu.Unlock()
}

func newTestModel(t *testing.T, seed map[string]firebase.IngredientRecord) (Model, *fakeDatabase) {
	t.Helper()

	if seed == nil {
		seed = map[string]firebase.IngredientRecord{}
	}
	db := &fakeDatabase{records: seed}
	srv := httptest.NewServer(db)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := firebase.NewClient(srv.URL, "", firebase.Collection("ingredients"), logger)
	controller := ingredients.NewController(request.NewTracker(client, logger), client.Collection(), logger)

	history, err := store.NewHistoryStore("", "")
	require.NoError(t, err)
	svc := search.NewService(client, history, 10, logger)

	m := NewModel(controller, svc, 0, logger)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
	return m, db
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, _ = updateCmd(t, m, msg)
	return m
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// load runs the initial full-collection load
func load(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, LoadIngredientsCmd(m.SearchSvc, "")())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModel_InitialLoad(t *testing.T) {
	m, _ := newTestModel(t, map[string]firebase.IngredientRecord{
		"b": {Title: "Bread", Amount: "1"},
		"a": {Title: "Apple", Amount: "2"},
	})
	require.True(t, m.Searching)

	m = load(t, m)

	assert.False(t, m.Searching)
	assert.Equal(t, []domain.Ingredient{
		{ID: "a", Title: "Apple", Amount: "2"},
		{ID: "b", Title: "Bread", Amount: "1"},
	}, m.Controller.Ingredients())
	assert.Contains(t, m.View(), "Bread")
}

func TestModel_AddIngredient(t *testing.T) {
	m, db := newTestModel(t, nil)
	m = load(t, m)

	m = update(t, m, runes("a"))
	require.Equal(t, PaneForm, m.Focus)

	m = update(t, m, runes("Apple"))
	m = update(t, m, keyTab)
	m = update(t, m, runes("2"))
	m, cmd := updateCmd(t, m, keyEnter)

	require.NotNil(t, cmd)
	assert.True(t, m.Controller.IsLoading())
	assert.True(t, m.Form.IsDisabled())
	assert.Contains(t, m.View(), "Saving...")

	m = update(t, m, cmd())

	assert.Equal(t, []domain.Ingredient{{ID: "gen-id-1", Title: "Apple", Amount: "2"}}, m.Controller.Ingredients())
	assert.False(t, m.Controller.IsLoading())
	assert.False(t, m.Form.IsDisabled())
	assert.Equal(t, "Added ingredient", m.StatusMsg)
	assert.Equal(t, "", m.errorMessage())
	assert.Contains(t, db.records, "gen-id-1")
}

func TestModel_RemoveIngredient(t *testing.T) {
	m, db := newTestModel(t, map[string]firebase.IngredientRecord{
		"a": {Title: "Apple", Amount: "2"},
		"b": {Title: "Bread", Amount: "1"},
	})
	m = load(t, m)

	m, cmd := updateCmd(t, m, runes("x"))
	require.NotNil(t, cmd)

	m = update(t, m, cmd())

	assert.Equal(t, []domain.Ingredient{{ID: "b", Title: "Bread", Amount: "1"}}, m.Controller.Ingredients())
	assert.Equal(t, "Removed ingredient", m.StatusMsg)
	assert.NotContains(t, db.records, "a")
}

func TestModel_StoreErrorShowsModalUntilDismissed(t *testing.T) {
	m, db := newTestModel(t, map[string]firebase.IngredientRecord{
		"a": {Title: "Apple", Amount: "2"},
	})
	m = load(t, m)
	before := m.Controller.Ingredients()

	db.setFail(true)
	m, cmd := updateCmd(t, m, runes("x"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, before, m.Controller.Ingredients())
	assert.False(t, m.Controller.IsLoading())
	assert.Equal(t, request.GenericErrorMessage, m.errorMessage())
	assert.Contains(t, m.View(), request.GenericErrorMessage)

	// other keys are swallowed while the error is open
	m, cmd = updateCmd(t, m, runes("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, request.GenericErrorMessage, m.errorMessage())

	m = update(t, m, keyEnter)
	assert.Empty(t, m.errorMessage())
	assert.Equal(t, before, m.Controller.Ingredients())
}

func TestModel_FailedAddKeepsFormValues(t *testing.T) {
	m, db := newTestModel(t, nil)
	m = load(t, m)
	db.setFail(true)

	m = update(t, m, runes("a"))
	m = update(t, m, runes("Apple"))
	m = update(t, m, keyTab)
	m = update(t, m, runes("2"))
	m, cmd := updateCmd(t, m, keyEnter)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Empty(t, m.Controller.Ingredients())
	assert.Equal(t, request.GenericErrorMessage, m.errorMessage())

	m = update(t, m, keyEsc)
	db.setFail(false)

	// values survive, so submitting again retries the same ingredient
	m, cmd = updateCmd(t, m, keyEnter)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, []domain.Ingredient{{ID: "gen-id-1", Title: "Apple", Amount: "2"}}, m.Controller.Ingredients())
}

func TestModel_DebouncedSearch(t *testing.T) {
	m, _ := newTestModel(t, map[string]firebase.IngredientRecord{
		"a": {Title: "Apple", Amount: "2"},
		"b": {Title: "Bread", Amount: "1"},
	})
	m = load(t, m)

	m = update(t, m, runes("f"))
	require.Equal(t, PaneSearch, m.Focus)

	m, cmd := updateCmd(t, m, runes("Apple"))
	require.NotNil(t, cmd)

	// a tick for text that has since changed does nothing
	m, cmd = updateCmd(t, m, SearchDebounceMsg{Query: "App"})
	assert.Nil(t, cmd)
	assert.False(t, m.Searching)

	m, cmd = updateCmd(t, m, SearchDebounceMsg{Query: "Apple"})
	require.NotNil(t, cmd)
	assert.True(t, m.Searching)

	m = update(t, m, cmd())

	assert.False(t, m.Searching)
	assert.Equal(t, []domain.Ingredient{{ID: "a", Title: "Apple", Amount: "2"}}, m.Controller.Ingredients())
	assert.Equal(t, []string{"Apple"}, m.SearchSvc.History())
}

func TestModel_StaleSearchResultIsDropped(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = load(t, m)

	m, _ = updateCmd(t, m, runes("f"))
	m, _ = updateCmd(t, m, runes("Bread"))
	m, _ = updateCmd(t, m, keyEnter)
	require.True(t, m.Searching)

	m = update(t, m, IngredientsLoadedMsg{
		Ingredients: []domain.Ingredient{{ID: "a", Title: "Apple", Amount: "2"}},
		Query:       "",
	})

	assert.True(t, m.Searching)
	assert.Empty(t, m.Controller.Ingredients())
}

func TestModel_SearchFailure(t *testing.T) {
	m, db := newTestModel(t, map[string]firebase.IngredientRecord{
		"a": {Title: "Apple", Amount: "2"},
	})
	m = load(t, m)
	db.setFail(true)

	m, cmd := updateCmd(t, m, runes("r"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.False(t, m.Searching)
	assert.Equal(t, request.GenericErrorMessage, m.SearchErr)
	assert.Len(t, m.Controller.Ingredients(), 1, "list kept on failed search")
	_, storeErr := m.Controller.ErrorMessage()
	assert.False(t, storeErr, "search errors are tracked apart from store calls")

	m = update(t, m, keyEnter)
	assert.Empty(t, m.errorMessage())
}

func TestModel_HelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, runes("?"))
	assert.True(t, m.ShowHelp)
	assert.Contains(t, m.View(), "Fuzzy filter list")

	m = update(t, m, runes("j"))
	assert.False(t, m.ShowHelp)

	_, cmd := updateCmd(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_TypingInFormDoesNotTriggerShortcuts(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = update(t, m, runes("a"))

	m = update(t, m, runes("qx?"))

	assert.Equal(t, PaneForm, m.Focus)
	assert.False(t, m.ShowHelp)
	assert.Contains(t, m.View(), "qx?")
}
