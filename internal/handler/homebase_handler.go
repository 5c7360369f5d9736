package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Orel-y/U-Schedule/internal/models"
	"github.com/Orel-y/U-Schedule/internal/service"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
	"github.com/Orel-y/U-Schedule/pkg/response"
)

type homebaseService interface {
	Match(ctx context.Context, programID string) (*service.HomebaseResult, error)
	Reset(ctx context.Context, programID string) error
	Assignments(ctx context.Context, programID string) ([]models.HomebaseAssignment, error)
}

// HomebaseHandler exposes homebase room assignment endpoints.
type HomebaseHandler struct {
	service homebaseService
}

// NewHomebaseHandler builds a new handler.
func NewHomebaseHandler(service homebaseService) *HomebaseHandler {
	return &HomebaseHandler{service: service}
}

// Match godoc
// @Summary Run greedy homebase matching for the acting program
// @Tags Homebase
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /homebase/match [post]
func (h *HomebaseHandler) Match(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil || actor.ProgramID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "user has no program affiliation"))
		return
	}
	result, err := h.service.Match(c.Request.Context(), actor.ProgramID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Reset godoc
// @Summary Clear homebase assignments for the acting program
// @Tags Homebase
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /homebase/reset [post]
func (h *HomebaseHandler) Reset(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil || actor.ProgramID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "user has no program affiliation"))
		return
	}
	if err := h.service.Reset(c.Request.Context(), actor.ProgramID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assignments godoc
// @Summary Stored homebase assignments for the acting program
// @Tags Homebase
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /homebase/assignments [get]
func (h *HomebaseHandler) Assignments(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil || actor.ProgramID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "user has no program affiliation"))
		return
	}
	assigned, err := h.service.Assignments(c.Request.Context(), actor.ProgramID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assigned)
}
