package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gamevault/backend/internal/database"
	"gamevault/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// GenreRefs captures the two genre-relation forms accepted on the wire:
// a bare array of ids (or {id} objects) meaning full replacement, or a
// {"connect": [...], "disconnect": [...]} object for incremental changes.
type GenreRefs struct {
	Set        []uint
	Connect    []uint
	Disconnect []uint

	incremental bool
}

// UnmarshalJSON accepts `[1, 2]`, `[{"id": 1}, {"id": 2}]`, and
// `{"connect": [1], "disconnect": [2]}`.
func (r *GenreRefs) UnmarshalJSON(b []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(b, &elements); err == nil {
		r.Set = make([]uint, 0, len(elements))
		for _, el := range elements {
			var id uint
			if err := json.Unmarshal(el, &id); err == nil {
				r.Set = append(r.Set, id)
				continue
			}
			var ref struct {
				ID uint `json:"id"`
			}
			if err := json.Unmarshal(el, &ref); err != nil {
				return err
			}
			r.Set = append(r.Set, ref.ID)
		}
		return nil
	}

	var ops struct {
		Connect    []uint `json:"connect"`
		Disconnect []uint `json:"disconnect"`
	}
	if err := json.Unmarshal(b, &ops); err != nil {
		return err
	}
	r.Connect = ops.Connect
	r.Disconnect = ops.Disconnect
	r.incremental = true
	return nil
}

// Incremental reports whether the refs carry connect/disconnect operations
// instead of a full replacement set.
func (r *GenreRefs) Incremental() bool {
	return r.incremental
}

type GameInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ReleaseDate string    `json:"release_date"`
	Genres      GenreRefs `json:"genres" swaggertype:"array,integer"`
}

// GameUpdateInput carries partial update semantics: only non-nil fields are
// applied to the stored game.
type GameUpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ReleaseDate *string    `json:"release_date"`
	Genres      *GenreRefs `json:"genres" swaggertype:"array,integer"`
}

// GameCreateRequest is the enveloped create/update body: {"data": {...}}.
type GameCreateRequest struct {
	Data GameInput `json:"data" binding:"required"`
}

type GameUpdateRequest struct {
	Data GameUpdateInput `json:"data" binding:"required"`
}

type GameResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ReleaseDate string          `json:"release_date"`
	Genres      []GenreResponse `json:"genres"`
}

func newGameResponse(game models.Game) GameResponse {
	genreResponses := make([]GenreResponse, 0, len(game.Genres))
	for _, genre := range game.Genres {
		if genre != nil {
			genreResponses = append(genreResponses, newGenreResponse(*genre))
		}
	}

	return GameResponse{
		ID:          game.ID,
		Title:       game.Title,
		Description: game.Description,
		ReleaseDate: formatReleaseDate(game.ReleaseDate),
		Genres:      genreResponses,
	}
}

// endregion

// region --- Helpers ---

func parseReleaseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatReleaseDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// findGenres loads the genres matching the given ids. Ids with no matching
// genre are silently dropped, so attaching an unknown genre never fails the
// request.
func findGenres(ids []uint) []*models.Genre {
	var genres []*models.Genre
	if len(ids) > 0 {
		database.DB.Find(&genres, ids)
	}
	return genres
}

// endregion

// region --- Handlers ---

// GetGames godoc
// @Summary      List all games
// @Description  Retrieves every game with its genres populated, in insertion order.
// @Tags         games
// @Produce      json
// @Success      200 {object} map[string][]GameResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	var games []models.Game
	if err := database.DB.Preload("Genres").Order("id").Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves details for a single game, including its genres.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.Preload("Genres").First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newGameResponse(game)})
}

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new game and attaches the given genres. Unknown genre ids are ignored.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body GameCreateRequest true "Game Info"
// @Success      201  {object}  map[string]GameResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /games [post]
func CreateGame(c *gin.Context) {
	var req GameCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input := req.Data

	if strings.TrimSpace(input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	releaseDate, err := parseReleaseDate(input.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid release_date, expected YYYY-MM-DD"})
		return
	}

	// On create an incremental form degenerates to its connect set.
	ids := input.Genres.Set
	if input.Genres.Incremental() {
		ids = input.Genres.Connect
	}

	game := models.Game{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ReleaseDate: releaseDate,
		Genres:      findGenres(ids),
	}

	if err := database.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	database.DB.Preload("Genres").First(&game, game.ID)

	c.JSON(http.StatusCreated, gin.H{"data": newGameResponse(game)})
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Partially updates a game: only fields present in the body change. Genres accept a replacement set or connect/disconnect operations. Serves both PUT and PATCH.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Game ID"
// @Param        input body      GameUpdateRequest true  "Changed fields"
// @Success      200   {object}  map[string]GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	// Fetched without Preload so Save does not re-upsert a stale genre set
	// after an association Replace.
	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var req GameUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input := req.Data

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		game.Title = title
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.ReleaseDate != nil {
		releaseDate, err := parseReleaseDate(*input.ReleaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid release_date, expected YYYY-MM-DD"})
			return
		}
		game.ReleaseDate = releaseDate
	}

	if input.Genres != nil {
		assoc := database.DB.Model(&game).Association("Genres")
		if input.Genres.Incremental() {
			if connect := findGenres(input.Genres.Connect); len(connect) > 0 {
				if err := assoc.Append(connect); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach genres"})
					return
				}
			}
			if disconnect := findGenres(input.Genres.Disconnect); len(disconnect) > 0 {
				if err := assoc.Delete(disconnect); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach genres"})
					return
				}
			}
		} else {
			if err := assoc.Replace(findGenres(input.Genres.Set)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update genres for game"})
				return
			}
		}
	}

	if err := database.DB.Save(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
		return
	}

	database.DB.Preload("Genres").First(&game, id)

	c.JSON(http.StatusOK, gin.H{"data": newGameResponse(game)})
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game and its genre links. Genres themselves are untouched.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"data": null, "message": "Game deleted successfully"}"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	game := models.Game{ID: uint(id)}
	result := database.DB.Select("Genres").Delete(&game)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": nil, "message": "Game deleted successfully"})
}

// endregion
