package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// PrincipalKey is the context key holding the authenticated user.
const PrincipalKey = "principal"

// abortUnauthorized ends the request with the public failure envelope. The
// handlers package owns the envelope types but imports this package, so the
// guard emits the same shape inline.
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": message})
}

// RequireAuth validates the Authorization header and loads the authenticated
// user into the request context.
func RequireAuth(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "You are not logged in, please log in to get access")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization format: expected 'Bearer <token>'")
			return
		}

		token := strings.TrimSpace(parts[1])

		user, err := authService.Authorize(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrMissingToken):
				abortUnauthorized(c, "You are not logged in, please log in to get access")
			case errors.Is(err, usecase.ErrExpiredAccessToken):
				abortUnauthorized(c, "Your token has expired, please log in again")
			case errors.Is(err, usecase.ErrInvalidAccessToken):
				abortUnauthorized(c, "Invalid token, please log in again")
			case errors.Is(err, usecase.ErrUserGone):
				abortUnauthorized(c, "The user belonging to this token no longer exists")
			case errors.Is(err, usecase.ErrPasswordChanged):
				abortUnauthorized(c, "Password was changed recently, please log in again")
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"status": "error", "message": "Authentication failed"})
			}
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(PrincipalKey, user)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = user.ID
		}

		c.Next()
	}
}

// GetAuthenticatedUser retrieves the principal loaded by RequireAuth.
func GetAuthenticatedUser(c *gin.Context) (*domain.User, bool) {
	raw, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*domain.User)
	return user, ok
}

// GetAuthenticatedUserID retrieves the user ID from context.
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	if id, ok := userID.(string); ok {
		return id, true
	}
	return "", false
}
