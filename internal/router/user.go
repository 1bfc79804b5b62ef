package router

import (
	"github.com/crewhub/accounts/internal/handler"
	"github.com/crewhub/accounts/internal/middleware"
	"github.com/gin-gonic/gin"
)

func registerUserRoutes(rg *gin.RouterGroup, h *handler.UserHandler, auth *middleware.AuthMiddleware) {
	group := rg.Group("/users", auth.RequireAuth())
	{
		group.GET("/me", h.GetProfile)
		group.PUT("/me", h.UpdateProfile)
		group.POST("/me/password", h.ChangePassword)
		group.POST("/me/email", h.ChangeEmail)
		group.GET("/me/events", h.ListEvents)
	}
}
