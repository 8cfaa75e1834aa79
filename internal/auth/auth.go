package auth

import (
	"context"
	"errors"
	"net/http"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const userContextKey = "auth.user"

// CredentialStore resolves accounts during authentication.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// HashPassword hashes a clear-text password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a clear-text password against a stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Required authenticates the request with HTTP basic credentials and
// stores the resolved user in the request context. Requests without
// valid credentials are rejected before the handler runs.
func Required(users CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			abortUnauthenticated(c)
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abortUnauthenticated(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to resolve credentials",
			})
			return
		}

		if !VerifyPassword(user.PasswordHash, password) {
			abortUnauthenticated(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Required, or nil outside an
// authenticated route.
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="shop-service"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "authentication required",
	})
}
