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

type scheduleService interface {
	Open(ctx context.Context, user *models.User, req service.OpenSessionRequest) (*service.ScheduleView, error)
	View(ctx context.Context, user *models.User, termID, sectionID string) (*service.ScheduleView, error)
	AssignInstructor(ctx context.Context, user *models.User, termID, sectionID, courseID, instructorID, labAssistantID string) (*models.CourseOffering, error)
	Drop(ctx context.Context, user *models.User, termID, sectionID, day, startTime string, payload []byte) (*models.Assignment, error)
	Remove(ctx context.Context, user *models.User, termID, sectionID, assignmentID string) (*service.ScheduleView, error)
	SaveDraft(ctx context.Context, user *models.User, termID, sectionID string) (*models.DraftSchedule, error)
	Close(user *models.User, termID, sectionID string)
}

type timetableExporter interface {
	Timetable(ctx context.Context, view *service.ScheduleView, sectionName string, format service.ExportFormat) (*service.ExportResult, error)
}

type sectionDirectory interface {
	Section(ctx context.Context, id string) (*models.Section, error)
}

// ScheduleHandler exposes the interactive scheduling endpoints for one
// section's weekly grid.
type ScheduleHandler struct {
	service  scheduleService
	exporter timetableExporter
	sections sectionDirectory
	metrics  *service.MetricsService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(svc scheduleService, exporter timetableExporter, sections sectionDirectory, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter, sections: sections, metrics: metrics}
}

type assignInstructorRequest struct {
	CourseOfferingID string `json:"course_offering_id" binding:"required"`
	InstructorID     string `json:"instructor_id"`
	LabAssistantID   string `json:"lab_assistant_id"`
}

type dropRequest struct {
	Day       string          `json:"day" binding:"required"`
	StartTime string          `json:"start_time" binding:"required"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

// Open godoc
// @Summary Open a scheduling session for a section
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.OpenSessionRequest true "Session selection"
// @Success 200 {object} response.Envelope
// @Router /schedule/sessions [post]
func (h *ScheduleHandler) Open(c *gin.Context) {
	var req service.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	view, err := h.service.Open(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// View godoc
// @Summary Current session state for a section
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{sectionId}/schedule [get]
func (h *ScheduleHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), actorFromContext(c), c.Query("termId"), c.Param("sectionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// AssignInstructor godoc
// @Summary Staff a course offering with an instructor
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Param payload body assignInstructorRequest true "Staffing payload"
// @Success 200 {object} response.Envelope
// @Router /sections/{sectionId}/schedule/instructor [put]
func (h *ScheduleHandler) AssignInstructor(c *gin.Context) {
	var req assignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staffing payload"))
		return
	}
	course, err := h.service.AssignInstructor(c.Request.Context(), actorFromContext(c),
		c.Query("termId"), c.Param("sectionId"), req.CourseOfferingID, req.InstructorID, req.LabAssistantID)
	if err != nil {
		h.metrics.RecordRejection(appErrors.FromError(err).Code)
		response.Error(c, err)
		return
	}
	h.metrics.RecordPlacement("staffing")
	response.JSON(c, http.StatusOK, course)
}

// Drop godoc
// @Summary Apply a drag payload to a grid slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Param payload body dropRequest true "Drop payload"
// @Success 201 {object} response.Envelope
// @Router /sections/{sectionId}/schedule/slots [post]
func (h *ScheduleHandler) Drop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}
	placed, err := h.service.Drop(c.Request.Context(), actorFromContext(c),
		c.Query("termId"), c.Param("sectionId"), req.Day, req.StartTime, req.Payload)
	if err != nil {
		h.metrics.RecordRejection(appErrors.FromError(err).Code)
		response.Error(c, err)
		return
	}
	h.metrics.RecordPlacement("drop")
	response.Created(c, placed)
}

// Remove godoc
// @Summary Remove an assignment from the grid
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param assignmentId path string true "Assignment ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{sectionId}/schedule/assignments/{assignmentId} [delete]
func (h *ScheduleHandler) Remove(c *gin.Context) {
	view, err := h.service.Remove(c.Request.Context(), actorFromContext(c),
		c.Query("termId"), c.Param("sectionId"), c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordPlacement("removal")
	response.JSON(c, http.StatusOK, view)
}

// SaveDraft godoc
// @Summary Persist the session as the section's draft schedule
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 201 {object} response.Envelope
// @Router /sections/{sectionId}/schedule/draft [post]
func (h *ScheduleHandler) SaveDraft(c *gin.Context) {
	draft, err := h.service.SaveDraft(c.Request.Context(), actorFromContext(c), c.Query("termId"), c.Param("sectionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, draft)
}

// CloseSession godoc
// @Summary Discard the section's scheduling session
// @Tags Schedule
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 204
// @Router /sections/{sectionId}/schedule [delete]
func (h *ScheduleHandler) CloseSession(c *gin.Context) {
	h.service.Close(actorFromContext(c), c.Query("termId"), c.Param("sectionId"))
	response.NoContent(c)
}

// Export godoc
// @Summary Export the session timetable as CSV or PDF
// @Tags Schedule
// @Produce octet-stream
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param termId query string true "Term ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /sections/{sectionId}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	actor := actorFromContext(c)
	sectionID := c.Param("sectionId")

	view, err := h.service.View(c.Request.Context(), actor, c.Query("termId"), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sectionName := sectionID
	if h.sections != nil {
		if section, err := h.sections.Section(c.Request.Context(), sectionID); err == nil {
			sectionName = section.Name
		}
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))
	result, err := h.exporter.Timetable(c.Request.Context(), view, sectionName, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
