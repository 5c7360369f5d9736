package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
	"github.com/Orel-y/U-Schedule/pkg/export"
)

// ExportFormat selects the rendered timetable file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered timetable file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a section's weekly timetable grid to CSV or PDF.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// Timetable renders the session view as a day-by-time grid. Each cell shows
// the course code, hour type and instructor of the occupying assignment.
func (s *ExportService) Timetable(ctx context.Context, view *ScheduleView, sectionName string, format ExportFormat) (*ExportResult, error) {
	if view == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}

	courseCode := make(map[string]string, len(view.Courses))
	for _, c := range view.Courses {
		courseCode[c.ID] = c.CourseCode
	}

	cells := make(map[models.Slot]string, len(view.Assignments))
	for _, a := range view.Assignments {
		label := courseCode[a.CourseOfferingID]
		if label == "" {
			label = a.CourseOfferingID
		}
		if a.InstructorName != "" {
			label = fmt.Sprintf("%s (%s, %s)", label, a.HourType, a.InstructorName)
		} else {
			label = fmt.Sprintf("%s (%s)", label, a.HourType)
		}
		cells[a.Slot()] = label
	}

	headers := append([]string{"Time"}, view.Days...)
	rows := make([]map[string]string, 0, len(view.TimeSlots))
	for _, slot := range view.TimeSlots {
		row := make(map[string]string, len(headers))
		row["Time"] = fmt.Sprintf("%s - %s", slot, models.NextTimeSlot(slot))
		for _, day := range view.Days {
			row[day] = cells[models.Slot{Day: day, StartTime: slot}]
		}
		rows = append(rows, row)
	}

	dataset := export.Dataset{Headers: headers, Rows: rows}
	safeName := strings.ReplaceAll(strings.ToLower(sectionName), " ", "_")
	if safeName == "" {
		safeName = view.SectionID
	}

	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv timetable")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable_%s.csv", safeName),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		title := fmt.Sprintf("Weekly Timetable - %s", sectionName)
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf timetable")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable_%s.pdf", safeName),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
