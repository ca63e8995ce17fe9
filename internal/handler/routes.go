package handler

import (
	"gamevault/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the catalog API under /api. PUT and PATCH on a game
// share one handler: both carry partial update semantics.
func RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/token", IssueToken)
		}

		gameRoutes := api.Group("/games")
		gameRoutes.Use(auth.Middleware())
		{
			gameRoutes.GET("", GetGames)
			gameRoutes.GET("/:id", GetGameByID)
			gameRoutes.POST("", CreateGame)
			gameRoutes.PUT("/:id", UpdateGame)
			gameRoutes.PATCH("/:id", UpdateGame)
			gameRoutes.DELETE("/:id", DeleteGame)
		}

		genreRoutes := api.Group("/genres")
		genreRoutes.Use(auth.Middleware())
		{
			genreRoutes.GET("", GetGenres)
			genreRoutes.GET("/:id", GetGenreByID)
			genreRoutes.POST("", CreateGenre)
			genreRoutes.PUT("/:id", UpdateGenre)
			genreRoutes.DELETE("/:id", DeleteGenre)
		}
	}
}
