package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/avsuhas/hoa-backend/internal/config"
	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/http/handler"
	"github.com/avsuhas/hoa-backend/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, guard *middleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/login-form", authHandler.LoginForm)
		auth.POST("/setup-password", authHandler.SetupPassword)
		auth.GET("/me", guard.RequireUser, authHandler.Me)
		auth.POST("/change-password", guard.RequireUser, authHandler.ChangePassword)
	}

	adminRoles := guard.RequireRoles(domain.RoleSuperAdmin, domain.RolePropertyManager)
	listRoles := guard.RequireRoles(domain.RoleSuperAdmin, domain.RolePropertyManager, domain.RoleBoardMember)

	users := r.Group("/users")
	{
		users.POST("/", adminRoles, userHandler.Create)
		users.GET("/", listRoles, userHandler.List)
		users.POST("/approve", guard.RequireRoles(domain.RoleSuperAdmin), userHandler.Approve)
		users.GET("/:id", guard.RequireUser, userHandler.Get)
		users.PUT("/:id", guard.RequireUser, userHandler.Update)
		users.DELETE("/:id", adminRoles, userHandler.Delete)
		users.PUT("/:id/activate", adminRoles, userHandler.Activate)
		users.PUT("/:id/deactivate", adminRoles, userHandler.Deactivate)
	}

	return r
}
