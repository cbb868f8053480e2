package firebase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/larder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollectionPaths(t *testing.T) {
	c := Collection("ingredients")

	assert.Equal(t, "/ingredients.json", c.CollectionPath())
	assert.Equal(t, "/ingredients/-Nabc123.json", c.ItemPath("-Nabc123"))
	assert.Equal(t, "/ingredients/a%2Fb.json", c.ItemPath("a/b"))
}

func TestClient_DoCreate(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"name":"-Ngen1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "", "ingredients", quietLogger())
	body := domain.Ingredient{Title: "Apple", Amount: "2"}

	data, err := client.Do(context.Background(), http.MethodPost, client.Collection().CollectionPath(), body)

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"-Ngen1"}`, string(data))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/ingredients.json", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"title": "Apple", "amount": "2"}, gotBody)
}

func TestClient_DoDelete(t *testing.T) {
	var gotMethod, gotPath string
	var gotLength int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotLength = r.ContentLength
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "ingredients", quietLogger())

	_, err := client.Do(context.Background(), http.MethodDelete, client.Collection().ItemPath("-Na"), nil)

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/ingredients/-Na.json", gotPath)
	assert.Equal(t, int64(0), gotLength)
}

func TestClient_AuthParameter(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.URL.Query().Get("auth")
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s3cret", "ingredients", quietLogger())
	_, err := client.ListIngredients(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "s3cret", gotAuth)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: domain.ErrAuthFailed},
		{name: "forbidden", status: http.StatusForbidden, wantErr: domain.ErrAuthFailed},
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: domain.ErrUnexpectedStatus},
		{name: "bad request", status: http.StatusBadRequest, wantErr: domain.ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "", "ingredients", quietLogger())
			_, err := client.Do(context.Background(), http.MethodGet, "/ingredients.json", nil)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", "ingredients", quietLogger())
	_, err := client.ListIngredients(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreUnreachable)
}

func TestClient_ListIngredients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ingredients.json", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("orderBy"))
		_, _ = w.Write([]byte(`{
			"-Nb": {"title": "Bread", "amount": 1},
			"-Na": {"title": "Apple", "amount": "2"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "ingredients", quietLogger())
	got, err := client.ListIngredients(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Ingredient{
		{ID: "-Na", Title: "Apple", Amount: "2"},
		{ID: "-Nb", Title: "Bread", Amount: "1"},
	}, got)
}

func TestClient_FindByTitle(t *testing.T) {
	var gotOrderBy, gotEqualTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrderBy = r.URL.Query().Get("orderBy")
		gotEqualTo = r.URL.Query().Get("equalTo")
		_, _ = w.Write([]byte(`{"-Na": {"title": "Apple", "amount": "2"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "ingredients", quietLogger())
	got, err := client.FindByTitle(context.Background(), `Apple "Fuji"`)

	require.NoError(t, err)
	assert.Equal(t, `"title"`, gotOrderBy)
	assert.Equal(t, `"Apple \"Fuji\""`, gotEqualTo)
	assert.Len(t, got, 1)
}

func TestClient_ListIngredientsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1, 2, 3]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "ingredients", quietLogger())
	_, err := client.ListIngredients(context.Background())

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestProbe(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/.json", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("shallow"))
			_, _ = w.Write([]byte(`{"ingredients": true}`))
		}))
		defer srv.Close()

		assert.NoError(t, Probe(context.Background(), srv.URL))
	})

	t.Run("locked rules still reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		assert.NoError(t, Probe(context.Background(), srv.URL))
	})

	t.Run("not a database", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.ErrorIs(t, Probe(context.Background(), srv.URL), domain.ErrUnexpectedStatus)
	})
}
