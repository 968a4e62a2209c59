package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubAuthService accepts exactly one access token and one refresh token.
type stubAuthService struct {
	userID string
}

func (s *stubAuthService) VerifyToken(token string) (*service.TokenClaims, error) {
	switch token {
	case "good-token":
		return &service.TokenClaims{UserID: s.userID, TelegramID: 42, Username: "ada"}, nil
	case "refresh-token":
		return &service.TokenClaims{UserID: s.userID, TokenType: "refresh"}, nil
	}
	return nil, service.ErrInvalidToken
}

func (s *stubAuthService) AuthenticateTelegram(context.Context, string) (string, string, *domain.User, error) {
	return "", "", nil, service.ErrTelegramAuthFailed
}

func (s *stubAuthService) RefreshAccessToken(string) (string, error) {
	return "", service.ErrInvalidToken
}

func (s *stubAuthService) GetOrCreateUser(context.Context, *domain.TelegramUser) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func (s *stubAuthService) UpdateUser(context.Context, string, service.UserUpdate) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func (s *stubAuthService) GetUserByID(context.Context, string) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func newProtectedRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID().Hex()
	auth := &stubAuthService{userID: userID}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(auth), func(c *gin.Context) {
		id, err := getUserIDFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user_id": id.Hex()})
	})
	return router, userID
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	router, userID := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=good-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestAuthMiddlewareAcceptsBearerHeader(t *testing.T) {
	router, _ := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsRefreshTokens(t *testing.T) {
	router, _ := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=refresh-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
