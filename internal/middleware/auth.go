package middleware

import (
	"net/http"
	"strings"

	"github.com/crewhub/accounts/internal/constants"
	"github.com/crewhub/accounts/internal/model"
	"github.com/crewhub/accounts/internal/service"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware authenticates requests with a bearer access token. The
// token service consults the revocation deny-list on every call, so a
// logout is visible immediately.
type AuthMiddleware struct {
	tokens *service.TokenService
	auth   *service.AuthService
}

func NewAuthMiddleware(tokens *service.TokenService, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, auth: auth}
}

// RequireAuth validates the access token, loads the user and stores the
// identity in the request so handlers pass it explicitly into services.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.unauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.unauthorized(c)
			return
		}

		ctx := c.Request.Context()

		userID, err := m.tokens.Validate(ctx, tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			m.unauthorized(c)
			return
		}

		user, err := m.auth.GetUser(ctx, userID)
		if err != nil {
			logger.GetLogger().Warn("Authenticated user not found",
				zap.Uint("user_id", userID),
				zap.Error(err))
			m.unauthorized(c)
			return
		}

		if !user.IsActive {
			logger.GetLogger().Warn("Request rejected, account inactive",
				zap.Uint("user_id", userID))
			m.unauthorized(c)
			return
		}

		c.Set(constants.GinKeyUser, user)
		c.Set(constants.GinKeyUserID, user.ID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, user.ID))

		c.Next()
	}
}

func (m *AuthMiddleware) unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}

// CurrentUser extracts the identity stored by RequireAuth
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(constants.GinKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
