// Package client is a typed access layer for the catalog API. It owns
// request construction, normalization of the API's wire shapes into the
// internal Game/Genre model, and recovery from a class of update failures
// caused by drift between the assumed and the deployed API contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Game is the internal model the UI works with, independent of wire shape.
type Game struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"release_date"`
	Genres      []Genre `json:"genres"`
}

// Genre is a tag entity, many-to-many with Game.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Config carries the injected client configuration. Zero values fall back
// to sensible defaults; only BaseURL is required.
type Config struct {
	BaseURL    string
	Headers    http.Header
	HTTPClient *http.Client
	Logger     *log.Logger
}

// DefaultHeaders returns the header set sent on every request, including
// the no-cache directives the catalog frontend relies on.
func DefaultHeaders() http.Header {
	return http.Header{
		"Content-Type":  {"application/json"},
		"Accept":        {"application/json"},
		"Cache-Control": {"no-cache, no-store, must-revalidate"},
		"Pragma":        {"no-cache"},
		"Expires":       {"0"},
	}
}

// Client talks to the catalog API. Safe for concurrent use.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     *log.Logger
}

// New builds a Client from the given configuration.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    cfg.Headers,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.headers == nil {
		c.headers = DefaultHeaders()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// envelope is the common response wrapper: {"data": ..., "message": ...}.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	if query == nil {
		query = url.Values{}
	}
	if method == http.MethodGet {
		// Cache-busting param, mirroring the frontend's timestamp trick.
		query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp.StatusCode, raw)
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, fmt.Errorf("decoding response for %s %s: %w", method, path, err)
		}
	}
	return env, nil
}

// sendGame issues a mutating request and normalizes the returned game.
func (c *Client) sendGame(ctx context.Context, method, path string, body any) (Game, error) {
	env, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return Game{}, err
	}
	if len(env.Data) == 0 {
		return Game{}, errors.New("unexpected API response format")
	}
	var wire wireGame
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return Game{}, err
	}
	return wire.normalize(), nil
}

// ListGames fetches all games and normalizes them into the internal shape.
func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	env, err := c.do(ctx, http.MethodGet, "/games", nil, nil)
	if err != nil {
		return nil, err
	}

	var wire []wireGame
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &wire); err != nil {
			return nil, err
		}
	}

	games := make([]Game, 0, len(wire))
	for _, w := range wire {
		games = append(games, w.normalize())
	}
	return games, nil
}

// GetGame fetches a single game by id. When the direct read 404s it falls
// back to fetching the full list and filtering, so a deployment without a
// get-by-id route still resolves; a miss there still reports ErrNotFound,
// and transport failures stay distinguishable from a missing entity.
func (c *Client) GetGame(ctx context.Context, id int) (Game, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d", id), nil, nil)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Game{}, err
		}

		games, listErr := c.ListGames(ctx)
		if listErr != nil {
			return Game{}, listErr
		}
		for _, game := range games {
			if game.ID == id {
				return game, nil
			}
		}
		return Game{}, err
	}

	if len(env.Data) == 0 {
		return Game{}, &APIError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("game with ID %d not found", id)}
	}
	var wire wireGame
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return Game{}, err
	}
	return wire.normalize(), nil
}

// CreateGame creates a game. Any client-supplied id is stripped (the server
// assigns identity) and free-text genres are resolved through EnsureGenre.
func (c *Client) CreateGame(ctx context.Context, game Game) (Game, error) {
	payload, err := c.gamePayload(ctx, game)
	if err != nil {
		return Game{}, err
	}
	return c.sendGame(ctx, http.MethodPost, "/games", map[string]any{"data": payload})
}

// DeleteGame removes a game, then issues one best-effort cache-busting read
// of the list so intermediaries drop any stale copy. A failed invalidation
// read is logged and swallowed; the delete itself already succeeded.
func (c *Client) DeleteGame(ctx context.Context, id int) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/games/%d", id), nil, nil); err != nil {
		return err
	}

	query := url.Values{"invalidate": {"true"}}
	if _, err := c.do(ctx, http.MethodGet, "/games", query, nil); err != nil {
		c.logger.Printf("cache invalidation after deleting game %d failed (non-critical): %v", id, err)
	}
	return nil
}

// gamePayload builds the enveloped request data for a game, without the id,
// with text fields trimmed and genre references resolved to ids.
func (c *Client) gamePayload(ctx context.Context, game Game) (map[string]any, error) {
	data := map[string]any{
		"title":        strings.TrimSpace(game.Title),
		"description":  strings.TrimSpace(game.Description),
		"release_date": game.ReleaseDate,
	}

	if game.Genres != nil {
		ids := make([]int, 0, len(game.Genres))
		for _, genre := range game.Genres {
			if genre.ID != 0 {
				ids = append(ids, genre.ID)
				continue
			}
			resolved, err := c.EnsureGenre(ctx, genre.Name)
			if err != nil {
				return nil, err
			}
			ids = append(ids, resolved.ID)
		}
		data["genres"] = ids
	}

	return data, nil
}
