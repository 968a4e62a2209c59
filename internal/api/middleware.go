package api

import (
	"errors"
	"net/http"
	"strings"

	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	ContextClaimsKey = "tokenClaims"
)

// extractToken pulls the session token from the request. The WebApp client
// sends it as the token query parameter; a Bearer header is honored too.
func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// AuthMiddleware creates a Gin middleware validating the session token and
// stashing the user id and claims in the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Authentication token is missing")
			return
		}

		claims, err := authService.VerifyToken(tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		// Refresh tokens only buy new access tokens, never API access.
		if claims.TokenType != "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// getUserIDFromContext retrieves the authenticated user's object id set by
// AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	userIDStr, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("user ID in context has wrong type")
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("user ID in context is not a valid object ID")
	}
	return userID, nil
}

// getClaimsFromContext retrieves the full token claims set by AuthMiddleware.
func getClaimsFromContext(c *gin.Context) (*service.TokenClaims, error) {
	raw, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, errors.New("token claims not found in context")
	}
	claims, ok := raw.(*service.TokenClaims)
	if !ok {
		return nil, errors.New("token claims in context have wrong type")
	}
	return claims, nil
}

// abortWithError sends a JSON error response and stops the handler chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
