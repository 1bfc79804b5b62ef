package router

import (
	"github.com/crewhub/accounts/internal/handler"
	"github.com/crewhub/accounts/internal/middleware"
	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(rg *gin.RouterGroup, h *handler.AuthHandler, auth *middleware.AuthMiddleware) {
	group := rg.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/logout", auth.RequireAuth(), h.Logout)
	}
}
