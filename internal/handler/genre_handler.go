package handler

import (
	"net/http"
	"strconv"
	"strings"

	"gamevault/backend/internal/database"
	"gamevault/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// genreFilterParam is the Strapi-style query key the frontend sends for
// case-insensitive substring filtering.
const genreFilterParam = "filters[name][$containsi]"

// likeEscaper neutralizes LIKE wildcards in user-supplied filter text so a
// literal "%" or "_" in a genre name matches itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GenreInput struct {
	Name string `json:"name" binding:"required"`
}

// GenreCreateRequest is the enveloped body: {"data": {"name": ...}}.
type GenreCreateRequest struct {
	Data GenreInput `json:"data" binding:"required"`
}

type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newGenreResponse(genre models.Genre) GenreResponse {
	return GenreResponse{
		ID:   genre.ID,
		Name: genre.Name,
	}
}

// GetGenres godoc
// @Summary      List genres
// @Description  Retrieves all genres, optionally filtered by a case-insensitive name substring via filters[name][$containsi].
// @Tags         genres
// @Produce      json
// @Param        filters[name][$containsi] query string false "Name substring filter"
// @Success      200  {object}  map[string][]GenreResponse
// @Router       /genres [get]
func GetGenres(c *gin.Context) {
	query := database.DB.Model(&models.Genre{}).Order("id")
	if q := c.Query(genreFilterParam); q != "" {
		needle := likeEscaper.Replace(strings.ToLower(q))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+needle+"%")
	}

	var genres []models.Genre
	if err := query.Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve genres"})
		return
	}

	response := make([]GenreResponse, 0, len(genres))
	for _, genre := range genres {
		response = append(response, newGenreResponse(genre))
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// GetGenreByID godoc
// @Summary      Get a single genre by ID
// @Tags         genres
// @Produce      json
// @Param        id path int true "Genre ID"
// @Success      200 {object} map[string]GenreResponse
// @Failure      404 {object} ErrorResponse "Genre not found"
// @Router       /genres/{id} [get]
func GetGenreByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var genre models.Genre
	if err := database.DB.First(&genre, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newGenreResponse(genre)})
}

// CreateGenre godoc
// @Summary      Create a new genre
// @Description  Creates a new genre. The name is stored trimmed, with its casing preserved.
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        input body GenreCreateRequest true "Genre Info"
// @Success      201  {object}  map[string]GenreResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Genre already exists"
// @Router       /genres [post]
func CreateGenre(c *gin.Context) {
	var req GenreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Data.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	genre := models.Genre{Name: name}
	if err := database.DB.Create(&genre).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists or another error occurred"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": newGenreResponse(genre)})
}

// UpdateGenre godoc
// @Summary      Update a genre
// @Description  Updates the name of an existing genre.
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        id   path      int                true  "Genre ID"
// @Param        input body GenreCreateRequest true "New Genre Info"
// @Success      200  {object}  map[string]GenreResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Genre not found"
// @Router       /genres/{id} [put]
func UpdateGenre(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req GenreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Data.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	var genre models.Genre
	if err := database.DB.First(&genre, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	if err := database.DB.Model(&genre).Update("name", name).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists or another error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newGenreResponse(genre)})
}

// DeleteGenre godoc
// @Summary      Delete a genre
// @Description  Deletes a genre. Games referencing it keep their other genres; nothing cascades.
// @Tags         genres
// @Produce      json
// @Param        id   path      int  true  "Genre ID"
// @Success      200  {object}  map[string]string "{"data": null, "message": "Genre deleted successfully"}"
// @Failure      404  {object}  ErrorResponse "Genre not found"
// @Router       /genres/{id} [delete]
func DeleteGenre(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	genre := models.Genre{ID: uint(id)}
	result := database.DB.Select("Games").Delete(&genre)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete genre"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": nil, "message": "Genre deleted successfully"})
}
