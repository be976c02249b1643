// Package subgraph queries the GraphQL index of the registry.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"go.uber.org/zap"
)

// ErrIndexer is returned for any failed subgraph query.
var ErrIndexer = errors.New("subgraph query failed")

// Notifier shows a transient message to the user.
type Notifier interface {
	Error(msg string)
}

// Filter narrows the items query.
type Filter struct {
	Registry string       // registry address; empty for every registry the subgraph indexes
	Statuses []tcr.Status // empty for every status
	First    int          // page size, capped at config.MaxItemsPerQuery
}

// Client talks to a subgraph endpoint. It never retries.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
	notify Notifier
	log    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as a bearer token (The Graph gateway).
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithNotifier reports failed item queries to the user.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notify = n }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("subgraph") }
}

// NewClient creates a client for the subgraph at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: config.HTTPTimeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Items returns the items matching f. On failure it returns an empty, non-nil
// slice together with an error wrapping ErrIndexer, and notifies the user.
func (c *Client) Items(ctx context.Context, f Filter) ([]Item, error) {
	first := f.First
	if first <= 0 || first > config.MaxItemsPerQuery {
		first = config.MaxItemsPerQuery
	}

	where := map[string]any{}
	if len(f.Statuses) > 0 {
		names := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			names[i] = s.String()
		}
		where["status_in"] = names
	}
	if f.Registry != "" {
		where["registryAddress"] = strings.ToLower(f.Registry)
	}

	var data struct {
		LItems []Item `json:"litems"`
	}
	if err := c.query(ctx, itemsQuery, map[string]any{"first": first, "where": where}, &data); err != nil {
		if c.notify != nil {
			c.notify.Error("Failed to load frontends. Please try again later.")
		}
		return []Item{}, err
	}
	if data.LItems == nil {
		return []Item{}, nil
	}
	return data.LItems, nil
}

// Item returns one item by id, or nil if the subgraph does not know it.
func (c *Client) Item(ctx context.Context, itemID string) (*Item, error) {
	var data struct {
		LItems []Item `json:"litems"`
	}
	vars := map[string]any{"where": map[string]any{"itemID": strings.ToLower(itemID)}}
	if err := c.query(ctx, itemQuery, vars, &data); err != nil {
		return nil, err
	}
	if len(data.LItems) == 0 {
		return nil, nil
	}
	return &data.LItems[0], nil
}

// Stats returns the registry counters. id is the subgraph registry entity id;
// empty means "1".
func (c *Client) Stats(ctx context.Context, id string) (*Stats, error) {
	if id == "" {
		id = "1"
	}
	var data struct {
		LRegistry *rawStats `json:"lregistry"`
	}
	if err := c.query(ctx, statsQuery, map[string]any{"id": strings.ToLower(id)}, &data); err != nil {
		return nil, err
	}
	if data.LRegistry == nil {
		return nil, fmt.Errorf("%w: registry %q not indexed", ErrIndexer, id)
	}
	s := data.LRegistry.parse()
	return &s, nil
}

// --- GraphQL plumbing ---

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexer, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrIndexer, err)
	}
	c.log.Debug("query", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(raw)), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrIndexer, resp.StatusCode)
	}

	var gql gqlResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return fmt.Errorf("%w: invalid response: %v", ErrIndexer, err)
	}
	if len(gql.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrIndexer, gql.Errors[0].Message)
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return fmt.Errorf("%w: empty response", ErrIndexer)
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("%w: invalid data: %v", ErrIndexer, err)
	}
	return nil
}
