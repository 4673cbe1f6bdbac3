package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/repository"
	"github.com/avsuhas/hoa-backend/internal/service"
)

// UserHandler exposes the administrative user endpoints.
type UserHandler struct {
	Accounts *service.AccountService
}

// NewUserHandler creates the handler set.
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{Accounts: accounts}
}

// Create provisions a user with an explicit role.
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Email     string  `json:"email" binding:"required,email"`
		Password  *string `json:"password" binding:"omitempty,min=8"`
		FirstName string  `json:"first_name" binding:"required"`
		LastName  string  `json:"last_name" binding:"required"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role" binding:"required"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.Accounts.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  active,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserView(created))
}

// List returns a filtered, paginated user listing.
func (h *UserHandler) List(c *gin.Context) {
	filter := repository.UserFilter{}

	if raw := c.Query("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		filter.Role = &role
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "is_active must be a boolean."})
			return
		}
		filter.IsActive = &active
	}
	filter.Limit = intQuery(c, "limit", 0)
	filter.Offset = intQuery(c, "skip", 0)

	users, err := h.Accounts.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserViews(users))
}

// Get returns a single user.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.Accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserView(user))
}

// Update applies a partial profile update. The password hash has its own
// endpoints and is never writable here.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Email         *string `json:"email" binding:"omitempty,email"`
		FirstName     *string `json:"first_name"`
		LastName      *string `json:"last_name"`
		Phone         *string `json:"phone"`
		Role          *string `json:"role"`
		IsActive      *bool   `json:"is_active"`
		EmailVerified *bool   `json:"email_verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
		return
	}

	in := service.UpdateUserInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		IsActive:      req.IsActive,
		EmailVerified: req.EmailVerified,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		in.Role = &role
	}

	updated, err := h.Accounts.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserView(updated))
}

// Delete removes a user outright.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Accounts.DeleteUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}

// Approve promotes a pending user and issues the set-password email.
func (h *UserHandler) Approve(c *gin.Context) {
	var req struct {
		UserID int64  `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	approved, err := h.Accounts.Approve(c.Request.Context(), req.UserID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserView(approved))
}

// Activate flips the active flag on.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate flips the active flag off.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	updated, err := h.Accounts.SetActive(c.Request.Context(), id, active)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserView(updated))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid user id."})
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
