package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avsuhas/hoa-backend/internal/domain"
)

// respondServiceError maps domain errors to the HTTP error envelope. Anything
// unmatched is an unexpected failure: logged in full, surfaced as a generic
// server error so no internals leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken", "error_description": "Email already registered."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "error_description": "Incorrect email or password."})
	case errors.Is(err, domain.ErrInactiveUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "inactive_user", "error_description": "Inactive user."})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
	case errors.Is(err, domain.ErrBadPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_password", "error_description": "Incorrect current password."})
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrRoleNotElevatable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role", "error_description": err.Error()})
	case errors.Is(err, domain.ErrUserActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already_active", "error_description": "User is already active."})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "User not found."})
	default:
		zap.L().Error("unexpected service failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
	}
}
