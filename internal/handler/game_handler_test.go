package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"gamevault/backend/internal/database"
	"gamevault/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genreIDs(genres []handler.GenreResponse) []uint {
	ids := make([]uint, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestCreateGame_RequiresTitle(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing data envelope", gin.H{}},
		{"missing title", gin.H{"data": gin.H{"description": "no title"}}},
		{"blank title", gin.H{"data": gin.H{"title": "   "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(t, router, http.MethodPost, "/api/games", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateGame_ThenGetRoundTrip(t *testing.T) {
	router := setupRouter(t)

	created := createTestGame(t, router, gin.H{"title": "Hollow Knight"})
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Hollow Knight", created.Title)
	assert.Empty(t, created.Genres)

	rec := performRequest(t, router, http.MethodGet, fmt.Sprintf("/api/games/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeData[handler.GameResponse](t, rec)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Hollow Knight", fetched.Title)
	assert.Empty(t, fetched.Genres)
}

func TestCreateGame_WithGenres(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	coop := createTestGenre(t, router, "co-op")

	created := createTestGame(t, router, gin.H{
		"title":        "Divinity",
		"description":  "Tactical RPG",
		"release_date": "2017-09-14",
		"genres":       []uint{rpg.ID, coop.ID},
	})

	rec := performRequest(t, router, http.MethodGet, fmt.Sprintf("/api/games/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeData[handler.GameResponse](t, rec)

	assert.Equal(t, "2017-09-14", fetched.ReleaseDate)
	assert.ElementsMatch(t, []uint{rpg.ID, coop.ID}, genreIDs(fetched.Genres))
}

func TestCreateGame_AcceptsGenreObjects(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	created := createTestGame(t, router, gin.H{
		"title":  "Wasteland",
		"genres": []gin.H{{"id": rpg.ID}},
	})

	assert.ElementsMatch(t, []uint{rpg.ID}, genreIDs(created.Genres))
}

func TestCreateGame_IgnoresUnknownGenreIDs(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	created := createTestGame(t, router, gin.H{
		"title":  "Gothic",
		"genres": []uint{rpg.ID, 9999},
	})

	assert.ElementsMatch(t, []uint{rpg.ID}, genreIDs(created.Genres))
}

func TestCreateGame_RejectsBadReleaseDate(t *testing.T) {
	router := setupRouter(t)

	rec := performRequest(t, router, http.MethodPost, "/api/games", gin.H{
		"data": gin.H{"title": "Bad Date", "release_date": "14/09/2017"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGame_NotFound(t *testing.T) {
	router := setupRouter(t)

	rec := performRequest(t, router, http.MethodGet, "/api/games/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGames_IncludesGenreNames(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	createTestGame(t, router, gin.H{"title": "First", "genres": []uint{rpg.ID}})
	createTestGame(t, router, gin.H{"title": "Second"})

	rec := performRequest(t, router, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	games := decodeData[[]handler.GameResponse](t, rec)

	require.Len(t, games, 2)
	assert.Equal(t, "First", games[0].Title)
	require.Len(t, games[0].Genres, 1)
	assert.Equal(t, "rpg", games[0].Genres[0].Name)
	assert.Empty(t, games[1].Genres)
}

func TestUpdateGame_PartialLeavesOtherFieldsUntouched(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	created := createTestGame(t, router, gin.H{
		"title":        "Original",
		"description":  "Keep me",
		"release_date": "2020-01-01",
		"genres":       []uint{rpg.ID},
	})

	rec := performRequest(t, router, http.MethodPut, fmt.Sprintf("/api/games/%d", created.ID), gin.H{
		"data": gin.H{"title": "Renamed"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[handler.GameResponse](t, rec)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Keep me", updated.Description)
	assert.Equal(t, "2020-01-01", updated.ReleaseDate)
	assert.ElementsMatch(t, []uint{rpg.ID}, genreIDs(updated.Genres))
}

func TestUpdateGame_ViaPatch(t *testing.T) {
	router := setupRouter(t)

	created := createTestGame(t, router, gin.H{"title": "Before", "description": "stays"})

	rec := performRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/games/%d", created.ID), gin.H{
		"data": gin.H{"title": "After"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[handler.GameResponse](t, rec)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "stays", updated.Description)
}

func TestUpdateGame_RejectsEmptyTitle(t *testing.T) {
	router := setupRouter(t)

	created := createTestGame(t, router, gin.H{"title": "Valid"})
	rec := performRequest(t, router, http.MethodPut, fmt.Sprintf("/api/games/%d", created.ID), gin.H{
		"data": gin.H{"title": "  "},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateGame_ReplacesGenreSet(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	coop := createTestGenre(t, router, "co-op")
	created := createTestGame(t, router, gin.H{"title": "Game", "genres": []uint{rpg.ID}})

	rec := performRequest(t, router, http.MethodPut, fmt.Sprintf("/api/games/%d", created.ID), gin.H{
		"data": gin.H{"genres": []uint{coop.ID}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[handler.GameResponse](t, rec)
	assert.ElementsMatch(t, []uint{coop.ID}, genreIDs(updated.Genres))
}

func TestUpdateGame_ConnectDisconnect(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	coop := createTestGenre(t, router, "co-op")
	created := createTestGame(t, router, gin.H{"title": "Game", "genres": []uint{rpg.ID}})

	rec := performRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/games/%d", created.ID), gin.H{
		"data": gin.H{"genres": gin.H{"connect": []uint{coop.ID}, "disconnect": []uint{rpg.ID}}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[handler.GameResponse](t, rec)
	assert.ElementsMatch(t, []uint{coop.ID}, genreIDs(updated.Genres))
}

func TestUpdateGame_NotFound(t *testing.T) {
	router := setupRouter(t)

	rec := performRequest(t, router, http.MethodPut, "/api/games/42", gin.H{
		"data": gin.H{"title": "Ghost"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGame(t *testing.T) {
	router := setupRouter(t)

	rpg := createTestGenre(t, router, "rpg")
	created := createTestGame(t, router, gin.H{"title": "Doomed", "genres": []uint{rpg.ID}})

	rec := performRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/games/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game deleted successfully")

	rec = performRequest(t, router, http.MethodGet, fmt.Sprintf("/api/games/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The genre survives the game.
	rec = performRequest(t, router, http.MethodGet, fmt.Sprintf("/api/genres/%d", rpg.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteGame_NotFound(t *testing.T) {
	router := setupRouter(t)

	rec := performRequest(t, router, http.MethodDelete, "/api/games/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGame_DatabaseFailureIsNotNotFound(t *testing.T) {
	router := setupRouter(t)
	created := createTestGame(t, router, gin.H{"title": "Doomed"})

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := performRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/games/%d", created.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
