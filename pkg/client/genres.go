package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SearchGenres returns genres whose name contains the query string,
// case-insensitively. An empty or blank query returns no results. The
// results are re-filtered locally in case the deployed API ignores the
// filter parameter.
func (c *Client) SearchGenres(ctx context.Context, query string) ([]Genre, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Genre{}, nil
	}

	params := url.Values{}
	params.Set("filters[name][$containsi]", query)

	env, err := c.do(ctx, http.MethodGet, "/genres", params, nil)
	if err != nil {
		return nil, err
	}

	var wire []wireGenre
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &wire); err != nil {
			return nil, err
		}
	}

	needle := strings.ToLower(query)
	genres := make([]Genre, 0, len(wire))
	for _, w := range wire {
		genre := w.normalize()
		if strings.Contains(strings.ToLower(genre.Name), needle) {
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

// EnsureGenre resolves free-text input to a genre, reusing an existing one
// on an exact case-insensitive name match so "RPG" and "rpg" never become
// two rows. Names are trimmed and lowercased before creation. Two
// concurrent calls for the same new name can still race into a duplicate;
// that is a known, accepted limitation.
func (c *Client) EnsureGenre(ctx context.Context, name string) (Genre, error) {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if cleaned == "" {
		return Genre{}, fmt.Errorf("%w: genre name is empty", ErrValidation)
	}

	existing, err := c.SearchGenres(ctx, cleaned)
	if err != nil {
		return Genre{}, err
	}
	for _, genre := range existing {
		if strings.ToLower(genre.Name) == cleaned {
			return genre, nil
		}
	}

	return c.CreateGenre(ctx, cleaned)
}

// CreateGenre creates a genre with the given name as-is. Most callers want
// EnsureGenre, which checks for an existing match first.
func (c *Client) CreateGenre(ctx context.Context, name string) (Genre, error) {
	body := map[string]any{"data": map[string]any{"name": name}}
	env, err := c.do(ctx, http.MethodPost, "/genres", nil, body)
	if err != nil {
		return Genre{}, err
	}
	if len(env.Data) == 0 {
		return Genre{}, errors.New("unexpected API response format")
	}

	var wire wireGenre
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return Genre{}, err
	}
	return wire.normalize(), nil
}
