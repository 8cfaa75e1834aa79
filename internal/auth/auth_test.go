package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	user *models.User
}

func (s *stubStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, store.ErrNotFound
}

func newAuthRouter(t *testing.T, users CredentialStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", Required(users), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequiredRejectsMissingCredentials(t *testing.T) {
	router := newAuthRouter(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}

func TestRequiredRejectsUnknownUser(t *testing.T) {
	router := newAuthRouter(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.SetBasicAuth("ghost@example.com", "whatever")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiredRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("right-password")
	require.NoError(t, err)

	router := newAuthRouter(t, &stubStore{user: &models.User{
		Email:        "alice@example.com",
		PasswordHash: hash,
	}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.SetBasicAuth("alice@example.com", "wrong-password")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiredResolvesUser(t *testing.T) {
	hash, err := HashPassword("right-password")
	require.NoError(t, err)

	user := &models.User{Email: "alice@example.com", PasswordHash: hash, UUID: "u-1"}
	gin.SetMode(gin.TestMode)

	var seen *models.User
	router := gin.New()
	router.GET("/protected", Required(&stubStore{user: user}), func(c *gin.Context) {
		seen = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.SetBasicAuth("alice@example.com", "right-password")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u-1", seen.UUID)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "S3cret"))
}
