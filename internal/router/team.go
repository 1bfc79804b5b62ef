package router

import (
	"github.com/crewhub/accounts/internal/handler"
	"github.com/crewhub/accounts/internal/middleware"
	"github.com/gin-gonic/gin"
)

func registerTeamRoutes(rg *gin.RouterGroup, h *handler.TeamHandler, auth *middleware.AuthMiddleware) {
	group := rg.Group("/teams", auth.RequireAuth())
	{
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/members", h.AddMember)
		group.DELETE("/:id/members/:uid", h.RemoveMember)
	}
}
