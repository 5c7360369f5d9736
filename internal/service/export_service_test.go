package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/models"
)

func exportView() *ScheduleView {
	return &ScheduleView{
		SectionID: "sec-1",
		Days:      models.WeekDays,
		TimeSlots: models.TimeSlots,
		Courses: []models.CourseOffering{
			{ID: "co-1", CourseCode: "SE101"},
		},
		Assignments: []models.Assignment{
			{
				ID:               "a-1",
				CourseOfferingID: "co-1",
				HourType:         models.HourLecture,
				InstructorName:   "Dr. Abebe",
				Day:              "Monday",
				StartTime:        "09:00",
			},
		},
	}
}

func TestExportTimetableCSV(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	result, err := svc.Timetable(context.Background(), exportView(), "Section A", ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, "timetable_section_a.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	body := strings.ReplaceAll(string(result.Data), "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Equal(t, len(models.TimeSlots)+1, len(lines))
	assert.Equal(t, "Time,"+strings.Join(models.WeekDays, ","), lines[0])
	assert.Contains(t, body, "SE101 (lecture, Dr. Abebe)")
	assert.Contains(t, body, "09:00 - 10:00")
}

func TestExportTimetablePDF(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	result, err := svc.Timetable(context.Background(), exportView(), "Section A", ExportPDF)
	require.NoError(t, err)

	assert.Equal(t, "timetable_section_a.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestExportTimetableUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	_, err := svc.Timetable(context.Background(), exportView(), "Section A", ExportFormat("xlsx"))
	assert.Error(t, err)
}
