package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/repository"
	"github.com/avsuhas/hoa-backend/internal/token"
)

const currentUserKey = "currentUser"

// Auth resolves the caller from a bearer token and enforces account status
// and role requirements before a handler runs.
type Auth struct {
	Tokens *token.Service
	Users  repository.UserRepository
}

// NewAuth creates the guard.
func NewAuth(tokens *token.Service, users repository.UserRepository) *Auth {
	return &Auth{Tokens: tokens, Users: users}
}

// RequireUser verifies the bearer token, loads the user it names, and rejects
// inactive accounts. The user is attached to the gin context for handlers.
func (m *Auth) RequireUser(c *gin.Context) {
	user, ok := m.resolveActiveUser(c)
	if !ok {
		return
	}
	c.Set(currentUserKey, user)
}

// RequireRoles builds on RequireUser and forbids callers whose persisted role
// is outside the allowed set. The token's role claim is never trusted here;
// a demotion applies on the very next request.
func (m *Auth) RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.resolveActiveUser(c)
		if !ok {
			return
		}
		if !user.Role.In(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "error_description": "Insufficient role."})
			return
		}
		c.Set(currentUserKey, user)
	}
}

// CurrentUser returns the authenticated user attached by the guard.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

// resolveActiveUser authenticates the request. The user is read from the
// store on every request, not from the token claims, so role and status
// changes take effect immediately. Aborts and returns false on failure.
func (m *Auth) resolveActiveUser(c *gin.Context) (*domain.User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return nil, false
	}

	claims, err := m.Tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil || claims.Purpose != "" {
		// Purpose-scoped tokens (password setup) are not session credentials.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
		return nil, false
	}

	userID, err := claims.UserID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
		return nil, false
	}

	user, err := m.Users.GetByID(c.Request.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
		return nil, false
	}
	if err != nil {
		zap.L().Error("load current user", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
		return nil, false
	}

	if !user.IsActive {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "inactive_user", "error_description": "Inactive user."})
		return nil, false
	}

	return &user, true
}
