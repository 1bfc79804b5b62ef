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

// TeamHandler exposes team and membership endpoints
type TeamHandler struct {
	teams *service.TeamService
}

func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// Create handles POST /teams
func (h *TeamHandler) Create(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "CreateTeam")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	resp, err := h.teams.CreateTeam(ctx, user, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetTeam")

	teamID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.teams.GetTeam(ctx, teamID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "DeleteTeam")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	teamID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.DeleteTeam(ctx, teamID, user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("team deleted"))
}

// AddMember handles POST /teams/:id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "AddMember")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	teamID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildFieldErrorResponse(constants.MsgValidationFailed, validation.FieldErrors(err)))
		return
	}

	resp, err := h.teams.AddMember(ctx, teamID, user, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RemoveMember handles DELETE /teams/:id/members/:uid
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "RemoveMember")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	teamID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := h.pathID(c, "uid")
	if !ok {
		return
	}

	if err := h.teams.RemoveMember(ctx, teamID, user, targetID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("member removed"))
}

func (h *TeamHandler) pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest,
				map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func (h *TeamHandler) respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorWithContext(c.Request.Context(), "Team request failed").
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}
	c.JSON(status, constants.BuildFieldErrorResponse(
		apperrors.GetErrorMessage(err), apperrors.ToFieldPayload(err)))
}
