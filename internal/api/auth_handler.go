package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateMeRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         string    `json:"id"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type TelegramAuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MapUserToResponse converts a domain user to its public view.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.Hex(),
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		CreatedAt:  user.CreatedAt,
	}
}

// --- Handler Methods ---

// TelegramAuth exchanges Telegram WebApp init data for a token pair.
func (h *AuthHandler) TelegramAuth(c *gin.Context) {
	var req TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	access, refresh, user, err := h.authService.AuthenticateTelegram(c.Request.Context(), req.InitData)
	if err != nil {
		if errors.Is(err, service.ErrTelegramAuthFailed) {
			abortWithError(c, http.StatusUnauthorized, "Telegram authentication failed")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during authentication")
		}
		return
	}

	c.JSON(http.StatusOK, TelegramAuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         MapUserToResponse(user),
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	access, err := h.authService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: access, TokenType: "bearer"})
}

// Verify confirms the current token and returns its subject. Reaching this
// handler at all means the middleware accepted the token.
func (h *AuthHandler) Verify(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get claims from token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":       true,
		"user_id":     claims.UserID,
		"telegram_id": claims.TelegramID,
		"username":    claims.Username,
	})
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get claims from token")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load user")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateMe applies a partial profile update to the authenticated user.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get claims from token")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), claims.UserID, service.UserUpdate{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
