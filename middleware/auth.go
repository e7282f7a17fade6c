package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fusion6/identity"
	"fusion6/models"
)

const (
	ProfileHeader = "X-Profile-ID"

	KeyProfileID = "profileId"
	KeyUserID    = "userId"
	KeyRole      = "role"
	KeyToken     = "token"
)

// ProfileMiddleware resolves the client profile from the X-Profile-ID header,
// minting a new one when the header is missing or not a UUID.
func ProfileMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetHeader(ProfileHeader)
		if _, err := uuid.Parse(profileID); err != nil {
			profileID = uuid.NewString()
		}

		c.Set(KeyProfileID, profileID)
		c.Header(ProfileHeader, profileID)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

func AuthMiddleware(tokens *identity.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := tokens.Parse(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		c.Set(KeyToken, tokenString)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyRole) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}
