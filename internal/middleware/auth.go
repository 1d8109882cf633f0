// internal/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

// AuthRequired validates the Bearer token and confirms its subject still
// exists. Missing, malformed, expired and lookup-failure cases each get
// their own rejection instead of one blanket 401.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is missing",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be of the form 'Bearer <token>'",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			message := "Token is invalid"
			switch {
			case errors.Is(err, utils.ErrTokenExpired):
				message = "Token has expired"
			case errors.Is(err, utils.ErrTokenMalformed):
				message = "Token is malformed"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Token subject no longer exists",
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to look up token subject",
				})
			}
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", user.ID.String())
		c.Set("user_type", string(user.UserType))
		c.Set("is_premium", user.IsPremium)
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get("user_type")
		if !exists || userType != string(models.UserTypeAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets user info when a valid token is present and stays quiet
// otherwise.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user_type", string(user.UserType))
		c.Set("is_premium", user.IsPremium)
		c.Next()
	}
}
