package auth

import (
	"fmt"
	"net/http"
	"strings"

	"gamevault/backend/internal/config"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Middleware is the auth hook point for the catalog routes. With REQUIRE_AUTH
// disabled (the default, matching the open catalog deployment) it is a
// pass-through. When enabled it requires a valid bearer token issued by
// POST /api/auth/token and stores its subject in the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.AppConfig.RequireAuth {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		token, err := gojwt.Parse(parts[1], func(token *gojwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if claims, ok := token.Claims.(gojwt.MapClaims); ok {
			if subject, ok := claims["sub"].(string); ok {
				c.Set("subject", subject)
			}
		}

		c.Next()
	}
}
