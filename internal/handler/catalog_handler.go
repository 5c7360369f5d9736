package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
	"github.com/Orel-y/U-Schedule/pkg/response"
)

type catalogService interface {
	Campuses(ctx context.Context) ([]models.Campus, error)
	ProgramsByCampus(ctx context.Context, campusID string) ([]models.AcademicProgram, error)
	Programs(ctx context.Context) ([]models.AcademicProgram, error)
	EntryYears(ctx context.Context, programID string) ([]int, error)
	ResolveBatch(ctx context.Context, entryYear int, programID, programType, admissionType string) (*models.Batch, error)
	AcademicYearOptions(batch *models.Batch, now time.Time) []models.AcademicYearOption
	Sections(ctx context.Context, programID, academicYear string) ([]models.Section, error)
	Instructors(ctx context.Context, programID string) ([]models.Instructor, error)
	LabAssistants(ctx context.Context) ([]models.LabAssistant, error)
}

// CatalogHandler exposes the academic directory used by the scheduling
// filter drill-down: campus, program, batch, academic year, section.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Campuses godoc
// @Summary List campuses
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /catalog/campuses [get]
func (h *CatalogHandler) Campuses(c *gin.Context) {
	campuses, err := h.service.Campuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses)
}

// Programs godoc
// @Summary List academic programs
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param campusId query string false "Restrict to one campus"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs [get]
func (h *CatalogHandler) Programs(c *gin.Context) {
	var (
		programs []models.AcademicProgram
		err      error
	)
	if campusID := c.Query("campusId"); campusID != "" {
		programs, err = h.service.ProgramsByCampus(c.Request.Context(), campusID)
	} else {
		programs, err = h.service.Programs(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs)
}

// EntryYears godoc
// @Summary List batch entry years for a program
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs/{programId}/entry-years [get]
func (h *CatalogHandler) EntryYears(c *gin.Context) {
	years, err := h.service.EntryYears(c.Request.Context(), c.Param("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years)
}

// ResolveBatch godoc
// @Summary Resolve a batch and its academic year options
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param entryYear query int true "Batch entry year"
// @Param programType query string true "Program type (regular, extension)"
// @Param admissionType query string true "Admission type"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs/{programId}/batch [get]
func (h *CatalogHandler) ResolveBatch(c *gin.Context) {
	entryYear, err := strconv.Atoi(c.Query("entryYear"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "entryYear must be a number"))
		return
	}

	batch, err := h.service.ResolveBatch(c.Request.Context(), entryYear, c.Param("programId"),
		c.Query("programType"), c.Query("admissionType"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{
		"batch":                 batch,
		"academic_year_options": h.service.AcademicYearOptions(batch, time.Now()),
	}
	response.JSON(c, http.StatusOK, payload)
}

// Sections godoc
// @Summary List sections for a program and academic year
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Param academicYear query string true "Academic year cell such as year1semester1"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs/{programId}/sections [get]
func (h *CatalogHandler) Sections(c *gin.Context) {
	academicYear := c.Query("academicYear")
	if academicYear == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academicYear is required"))
		return
	}
	sections, err := h.service.Sections(c.Request.Context(), c.Param("programId"), academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

// Instructors godoc
// @Summary List a program's instructors
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs/{programId}/instructors [get]
func (h *CatalogHandler) Instructors(c *gin.Context) {
	instructors, err := h.service.Instructors(c.Request.Context(), c.Param("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors)
}

// LabAssistants godoc
// @Summary List the lab assistant roster
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /catalog/lab-assistants [get]
func (h *CatalogHandler) LabAssistants(c *gin.Context) {
	assistants, err := h.service.LabAssistants(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assistants)
}
