package router

import (
	"github.com/crewhub/accounts/internal/constants"
	"github.com/crewhub/accounts/internal/handler"
	"github.com/crewhub/accounts/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers collects everything the router wires up
type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Team   *handler.TeamHandler
	Health *handler.HealthHandler
}

// Setup builds the gin engine with the full middleware chain and routes
func Setup(environment string, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.RequestContext())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORS())

	engine.GET("/api/health", h.Health.Check)

	v1 := engine.Group("/api/v1")
	registerAuthRoutes(v1, h.Auth, auth)
	registerUserRoutes(v1, h.User, auth)
	registerTeamRoutes(v1, h.Team, auth)

	return engine
}
