package api

import (
	"errors"
	"fmt"
	"net/http"

	"superstrong/workout-api/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProviderHandler exposes the managed-data persistence surface. Provider
// users are resolved from the session token's Telegram identity on every
// request; the UUID namespace stays internal to the provider.
type ProviderHandler struct {
	providerService provider.Service
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(providerService provider.Service) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

// --- Request Structs ---

type ProviderUserPatchRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// resolveProviderUser maps the authenticated Telegram identity to a provider
// user row, creating it on first contact.
func (h *ProviderHandler) resolveProviderUser(c *gin.Context) (*provider.User, bool) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get claims from token")
		return nil, false
	}
	if claims.TelegramID == 0 {
		abortWithError(c, http.StatusForbidden, "Provider access requires a Telegram-linked account")
		return nil, false
	}

	user, err := h.providerService.GetOrCreateUser(c.Request.Context(), claims.TelegramID, claims.Username, "", "")
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Data provider is unavailable")
		return nil, false
	}
	return user, true
}

// uuidParam validates a path parameter as a UUID.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s, expected a UUID", name))
		return "", false
	}
	return raw, true
}

func respondProviderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, provider.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "Data provider is unavailable")
	default:
		abortWithError(c, http.StatusInternalServerError, "Provider request failed")
	}
}

// --- Handler Methods ---

// SyncUser creates or returns the provider user for the caller.
func (h *ProviderHandler) SyncUser(c *gin.Context) {
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByID fetches a provider user by UUID.
func (h *ProviderHandler) GetUserByID(c *gin.Context) {
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return
	}

	user, err := h.providerService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserByID patches a provider user by UUID. Only the caller's own row
// may be patched.
func (h *ProviderHandler) UpdateUserByID(c *gin.Context) {
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return
	}
	caller, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}
	if caller.ID != userID {
		abortWithError(c, http.StatusNotFound, "Record not found")
		return
	}

	var req ProviderUserPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.providerService.UpdateUser(c.Request.Context(), userID, provider.UserPatch{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListSessions lists the caller's provider-side workout sessions.
func (h *ProviderHandler) ListSessions(c *gin.Context) {
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	sessions, err := h.providerService.ListSessions(c.Request.Context(), user.ID)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session with exercises and sets.
func (h *ProviderHandler) GetSession(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionId")
	if !ok {
		return
	}
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	detail, err := h.providerService.GetSession(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SaveSession persists a full session, idempotently per date.
func (h *ProviderHandler) SaveSession(c *gin.Context) {
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	var input provider.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if input.Date == "" {
		abortWithError(c, http.StatusBadRequest, "Session date is required")
		return
	}

	result, err := h.providerService.SaveSession(c.Request.Context(), user.ID, input)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// UpdateSessionExercises replaces a session's exercise list.
func (h *ProviderHandler) UpdateSessionExercises(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionId")
	if !ok {
		return
	}
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	var exercises []provider.ExerciseInput
	if err := c.ShouldBindJSON(&exercises); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.providerService.UpdateSessionExercises(c.Request.Context(), user.ID, sessionID, exercises)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSessionExercise removes one exercise from a session.
func (h *ProviderHandler) DeleteSessionExercise(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionId")
	if !ok {
		return
	}
	exerciseID, ok := uuidParam(c, "exerciseId")
	if !ok {
		return
	}
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	if err := h.providerService.DeleteSessionExercise(c.Request.Context(), user.ID, sessionID, exerciseID); err != nil {
		respondProviderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSession removes a session and everything under it.
func (h *ProviderHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionId")
	if !ok {
		return
	}
	user, ok := h.resolveProviderUser(c)
	if !ok {
		return
	}

	if err := h.providerService.DeleteSession(c.Request.Context(), user.ID, sessionID); err != nil {
		respondProviderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
