package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"municore/internal/core/apperror"
	appctx "municore/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		// Check Bearer prefix
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		// Add user to context
		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("user_id", user.UserID)
		c.Set("role", user.Role)

		c.Next()
	}
}

// TenantMatch enforces that the mayoralty addressed in the URL matches
// the authenticated user's mayoralty. Admins may address any mayoralty.
// Must run after Auth on routes carrying the :mayoraltyID parameter.
func TenantMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if user.IsAdmin {
			c.Next()
			return
		}

		param := c.Param("mayoraltyID")
		mayoraltyID, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid mayoralty id").
				WithDetail("mayoralty_id", param))
			c.Abort()
			return
		}

		if mayoraltyID != user.MayoraltyID {
			_ = c.Error(
				apperror.NewForbidden("mayoralty mismatch").
					WithDetail("path_mayoralty_id", mayoraltyID).
					WithDetail("token_mayoralty_id", user.MayoraltyID),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole middleware checks if user has one of the required roles.
// Admins pass regardless of role.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if user.IsAdmin {
			c.Next()
			return
		}

		for _, required := range roles {
			if user.Role == required {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
