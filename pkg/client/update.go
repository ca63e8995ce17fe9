package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// updateState enumerates the phases of the update fallback chain.
type updateState int

const (
	stateTryingPut updateState = iota
	stateTryingPatch
	stateConfirmingExistence
	stateCreatingFresh
	stateDone
	stateFailed
)

func (s updateState) String() string {
	switch s {
	case stateTryingPut:
		return "trying-put"
	case stateTryingPatch:
		return "trying-patch"
	case stateConfirmingExistence:
		return "confirming-existence"
	case stateCreatingFresh:
		return "creating-fresh"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return fmt.Sprintf("updateState(%d)", int(s))
}

// UpdateGame pushes the submitted data for a game id, tolerating drift
// between the assumed and the deployed API contract:
//
//  1. PUT with full replacement semantics.
//  2. On not-found, PATCH with the same payload.
//  3. If PATCH cannot locate the target either, a read confirms existence:
//     a confirmed-live entity is recreated fresh and the stale one deleted
//     best-effort; a confirmed-absent one skips straight to create.
//
// Non-404 failures terminate the chain immediately. When the confirming
// read itself fails with a transport error the chain surfaces ErrAmbiguous.
func (c *Client) UpdateGame(ctx context.Context, id int, game Game) (Game, error) {
	payload, err := c.gamePayload(ctx, game)
	if err != nil {
		return Game{}, err
	}
	body := map[string]any{"data": payload}
	path := fmt.Sprintf("/games/%d", id)

	var (
		state       = stateTryingPut
		result      Game
		finalErr    error
		deleteStale bool
	)

	for state != stateDone && state != stateFailed {
		switch state {
		case stateTryingPut:
			result, finalErr = c.sendGame(ctx, http.MethodPut, path, body)
			switch {
			case finalErr == nil:
				state = stateDone
			case errors.Is(finalErr, ErrNotFound):
				c.logger.Printf("PUT for game %d reported not found, retrying as PATCH", id)
				state = stateTryingPatch
			default:
				state = stateFailed
			}

		case stateTryingPatch:
			result, finalErr = c.sendGame(ctx, http.MethodPatch, path, body)
			switch {
			case finalErr == nil:
				state = stateDone
			case errors.Is(finalErr, ErrNotFound):
				state = stateConfirmingExistence
			default:
				state = stateFailed
			}

		case stateConfirmingExistence:
			_, readErr := c.GetGame(ctx, id)
			switch {
			case readErr == nil:
				deleteStale = true
				state = stateCreatingFresh
			case errors.Is(readErr, ErrNotFound):
				state = stateCreatingFresh
			default:
				finalErr = fmt.Errorf("%w: %v", ErrAmbiguous, readErr)
				state = stateFailed
			}

		case stateCreatingFresh:
			result, finalErr = c.sendGame(ctx, http.MethodPost, "/games", body)
			if finalErr != nil {
				state = stateFailed
				break
			}
			if deleteStale {
				// The stale entity is harmless orphaned data if this fails.
				if _, err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
					c.logger.Printf("deleting stale game %d failed (non-critical): %v", id, err)
				}
			}
			state = stateDone
		}
	}

	if state == stateFailed {
		return Game{}, finalErr
	}
	return result, nil
}
