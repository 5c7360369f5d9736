package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Orel-y/U-Schedule/internal/models"
	"github.com/Orel-y/U-Schedule/internal/service"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
	"github.com/Orel-y/U-Schedule/pkg/response"
)

type shareService interface {
	Share(ctx context.Context, user *models.User, req service.ShareWithProgramRequest) (*models.ScheduleShareRequest, error)
	Incoming(ctx context.Context, user *models.User) ([]models.ScheduleShareRequest, error)
	Outgoing(ctx context.Context, user *models.User) ([]models.ScheduleShareRequest, error)
	Accept(ctx context.Context, user *models.User, shareID string) (*models.ScheduleShareRequest, error)
	External(ctx context.Context, user *models.User, shareID string) (*service.ExternalView, error)
	ExternalDrop(ctx context.Context, user *models.User, shareID, day, startTime string, payload []byte) (*models.ScheduleShareRequest, error)
	ExternalRemove(ctx context.Context, user *models.User, shareID, assignmentID string) (*models.ScheduleShareRequest, error)
	UpdateAssignments(ctx context.Context, user *models.User, shareID string, update service.ExternalAssignmentsUpdate) (*models.ScheduleShareRequest, error)
	Submit(ctx context.Context, user *models.User, shareID string) (*models.ScheduleShareRequest, error)
	Merged(ctx context.Context, user *models.User, draftID string) ([]models.Assignment, error)
	Drafts(ctx context.Context, user *models.User) ([]models.DraftSchedule, error)
}

// ShareHandler exposes the cross-program share protocol endpoints.
type ShareHandler struct {
	service shareService
	metrics *service.MetricsService
}

// NewShareHandler builds a new handler.
func NewShareHandler(svc shareService, metrics *service.MetricsService) *ShareHandler {
	return &ShareHandler{service: svc, metrics: metrics}
}

// Share godoc
// @Summary Share draft courses with the program that owns them
// @Tags Shares
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ShareWithProgramRequest true "Share payload"
// @Success 201 {object} response.Envelope
// @Router /shares [post]
func (h *ShareHandler) Share(c *gin.Context) {
	var req service.ShareWithProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid share payload"))
		return
	}
	share, err := h.service.Share(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordShareTransition(string(share.Status))
	response.Created(c, share)
}

// Incoming godoc
// @Summary Share requests addressed to the acting program
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /shares/incoming [get]
func (h *ShareHandler) Incoming(c *gin.Context) {
	shares, err := h.service.Incoming(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shares)
}

// Outgoing godoc
// @Summary Share requests the acting program sent
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /shares/outgoing [get]
func (h *ShareHandler) Outgoing(c *gin.Context) {
	shares, err := h.service.Outgoing(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shares)
}

// Accept godoc
// @Summary Accept a pending share request
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/accept [post]
func (h *ShareHandler) Accept(c *gin.Context) {
	share, err := h.service.Accept(c.Request.Context(), actorFromContext(c), c.Param("shareId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordShareTransition(string(share.Status))
	response.JSON(c, http.StatusOK, share)
}

// External godoc
// @Summary Combined scheduling view for an accepted share
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/schedule [get]
func (h *ShareHandler) External(c *gin.Context) {
	view, err := h.service.External(c.Request.Context(), actorFromContext(c), c.Param("shareId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

type externalDropRequest struct {
	Day       string          `json:"day" binding:"required"`
	StartTime string          `json:"start_time" binding:"required"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

// ExternalDrop godoc
// @Summary Schedule a shared course into the combined view
// @Tags Shares
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Param payload body externalDropRequest true "Drop payload"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/schedule/slots [post]
func (h *ShareHandler) ExternalDrop(c *gin.Context) {
	var req externalDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}
	share, err := h.service.ExternalDrop(c.Request.Context(), actorFromContext(c),
		c.Param("shareId"), req.Day, req.StartTime, req.Payload)
	if err != nil {
		h.metrics.RecordRejection(appErrors.FromError(err).Code)
		response.Error(c, err)
		return
	}
	h.metrics.RecordPlacement("external_drop")
	response.JSON(c, http.StatusOK, share)
}

// ExternalRemove godoc
// @Summary Remove one of the target program's placements
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/schedule/assignments/{assignmentId} [delete]
func (h *ShareHandler) ExternalRemove(c *gin.Context) {
	share, err := h.service.ExternalRemove(c.Request.Context(), actorFromContext(c),
		c.Param("shareId"), c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, share)
}

// UpdateAssignments godoc
// @Summary Replace the share's in-progress assignment bundle
// @Tags Shares
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Param payload body service.ExternalAssignmentsUpdate true "Assignment bundle"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/assignments [put]
func (h *ShareHandler) UpdateAssignments(c *gin.Context) {
	var update service.ExternalAssignmentsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignments payload"))
		return
	}
	share, err := h.service.UpdateAssignments(c.Request.Context(), actorFromContext(c), c.Param("shareId"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, share)
}

// Submit godoc
// @Summary Complete a share request
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Param shareId path string true "Share request ID"
// @Success 200 {object} response.Envelope
// @Router /shares/{shareId}/submit [post]
func (h *ShareHandler) Submit(c *gin.Context) {
	share, err := h.service.Submit(c.Request.Context(), actorFromContext(c), c.Param("shareId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordShareTransition(string(share.Status))
	response.JSON(c, http.StatusOK, share)
}

// Drafts godoc
// @Summary List the acting program's draft schedules
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /drafts [get]
func (h *ShareHandler) Drafts(c *gin.Context) {
	drafts, err := h.service.Drafts(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drafts)
}

// Merged godoc
// @Summary Merged assignment view of a draft and its shares
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft schedule ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{draftId}/merged [get]
func (h *ShareHandler) Merged(c *gin.Context) {
	assignments, err := h.service.Merged(c.Request.Context(), actorFromContext(c), c.Param("draftId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}
