package handler

import (
	"net/http"
	"strconv"

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

// UserHandler exposes the authenticated profile endpoints
type UserHandler struct {
	auth *service.AuthService
}

func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	c.JSON(http.StatusOK, service.Profile(user))
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateProfile")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	resp, err := h.auth.UpdateProfile(ctx, user, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChangePassword handles POST /users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ChangePassword")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	if err := h.auth.ChangePassword(ctx, user, &req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("password changed"))
}

// ChangeEmail handles POST /users/me/email
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ChangeEmail")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	if err := h.auth.ChangeEmail(ctx, user, req.Email, req.NewEmail); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("email changed"))
}

// ListEvents handles GET /users/me/events
func (h *UserHandler) ListEvents(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ListEvents")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.auth.RecentEvents(ctx, user.ID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorWithContext(c.Request.Context(), "User request failed").
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}
	c.JSON(status, constants.BuildFieldErrorResponse(
		apperrors.GetErrorMessage(err), apperrors.ToFieldPayload(err)))
}
