package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/larder/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Larder/1.0"
)

// Collection names a top-level node of the database and builds REST paths
// for it. Every path carries the .json suffix the REST API requires.
type Collection string

// CollectionPath returns the path of the whole collection
func (c Collection) CollectionPath() string {
	return "/" + string(c) + ".json"
}

// ItemPath returns the path of one record in the collection
func (c Collection) ItemPath(id string) string {
	return "/" + string(c) + "/" + url.PathEscape(id) + ".json"
}

// Client talks to a Firebase Realtime Database over its REST API.
// It implements domain.Transport and domain.IngredientRepository.
type Client struct {
	baseURL    string
	auth       string
	collection Collection
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new REST client. auth may be empty for databases with
// public rules; otherwise it is sent as the auth query parameter.
func NewClient(baseURL, auth string, collection Collection, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		collection: collection,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Collection returns the collection this client reads ingredients from
func (c *Client) Collection() Collection {
	return c.collection
}

// Do implements domain.Transport
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.doRequest(ctx, method, path, nil, body)
}

// doRequest performs an HTTP request against the database
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.auth != "" {
		query.Set("auth", c.auth)
	}

	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Never log the auth parameter
	c.logger.Debug("firebase request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("firebase request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Error("firebase request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	return respBody, nil
}

// ListIngredients returns every ingredient in the collection
func (c *Client) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.collection.CollectionPath(), nil, nil)
	if err != nil {
		return nil, err
	}
	return c.parseIngredients(body)
}

// FindByTitle returns ingredients whose title equals title.
// The database rules must index the collection on "title".
func (c *Client) FindByTitle(ctx context.Context, title string) ([]domain.Ingredient, error) {
	query, err := equalToQuery("title", title)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, c.collection.CollectionPath(), query, nil)
	if err != nil {
		return nil, err
	}
	return c.parseIngredients(body)
}

// Ping checks that the database answers at all
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("shallow", "true")
	_, err := c.doRequest(ctx, http.MethodGet, "/.json", query, nil)
	return err
}

func (c *Client) parseIngredients(body []byte) ([]domain.Ingredient, error) {
	records, err := decodeRecords(body)
	if err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return MapIngredients(records), nil
}

// equalToQuery builds an orderBy/equalTo filter. Both values are JSON
// strings on the wire, quotes included.
func equalToQuery(field, value string) (url.Values, error) {
	orderBy, err := json.Marshal(field)
	if err != nil {
		return nil, err
	}
	equalTo, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("orderBy", string(orderBy))
	query.Set("equalTo", string(equalTo))
	return query, nil
}
