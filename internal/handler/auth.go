package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/crewhub/accounts/internal/constants"
	"github.com/crewhub/accounts/internal/dto"
	apperrors "github.com/crewhub/accounts/internal/errors"
	"github.com/crewhub/accounts/internal/middleware"
	"github.com/crewhub/accounts/internal/service"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"github.com/crewhub/accounts/pkg/validation"
	"github.com/gin-gonic/gin"
)

// AuthHandler exposes registration, login and logout endpoints
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	resp, err := h.auth.Register(ctx, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	resp, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout. The access token authenticates the
// request; the body carries the refresh token to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Logout")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	// An absent body is a missing refresh token, not a malformed request
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgInvalidJSONFormat, nil))
		return
	}

	if err := h.auth.Logout(ctx, user.ID, req.Refresh); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("logged out"))
}

func (h *AuthHandler) respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorWithContext(c.Request.Context(), "Auth request failed").
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}
	c.JSON(status, constants.BuildFieldErrorResponse(
		apperrors.GetErrorMessage(err), apperrors.ToFieldPayload(err)))
}
