package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/middleware"
	"github.com/Orel-y/U-Schedule/internal/models"
	"github.com/Orel-y/U-Schedule/internal/service"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type scheduleServiceMock struct {
	view       *service.ScheduleView
	viewErr    error
	course     *models.CourseOffering
	courseErr  error
	assignment *models.Assignment
	dropErr    error
	draft      *models.DraftSchedule

	openCalled   bool
	dropCalled   bool
	lastDay      string
	lastPayload  []byte
	closeCalled  bool
	assignCalled bool
}

func (m *scheduleServiceMock) Open(ctx context.Context, user *models.User, req service.OpenSessionRequest) (*service.ScheduleView, error) {
	m.openCalled = true
	return m.view, m.viewErr
}

func (m *scheduleServiceMock) View(ctx context.Context, user *models.User, termID, sectionID string) (*service.ScheduleView, error) {
	return m.view, m.viewErr
}

func (m *scheduleServiceMock) AssignInstructor(ctx context.Context, user *models.User, termID, sectionID, courseID, instructorID, labAssistantID string) (*models.CourseOffering, error) {
	m.assignCalled = true
	return m.course, m.courseErr
}

func (m *scheduleServiceMock) Drop(ctx context.Context, user *models.User, termID, sectionID, day, startTime string, payload []byte) (*models.Assignment, error) {
	m.dropCalled = true
	m.lastDay = day
	m.lastPayload = payload
	return m.assignment, m.dropErr
}

func (m *scheduleServiceMock) Remove(ctx context.Context, user *models.User, termID, sectionID, assignmentID string) (*service.ScheduleView, error) {
	return m.view, m.viewErr
}

func (m *scheduleServiceMock) SaveDraft(ctx context.Context, user *models.User, termID, sectionID string) (*models.DraftSchedule, error) {
	return m.draft, nil
}

func (m *scheduleServiceMock) Close(user *models.User, termID, sectionID string) {
	m.closeCalled = true
}

func headClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Username: "head", Role: models.RoleHead, ProgramID: "prog-1"}
}

func testContext(t *testing.T, method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, headClaims())
	return c, w
}

func TestScheduleHandlerOpen(t *testing.T) {
	mockSvc := &scheduleServiceMock{view: &service.ScheduleView{SectionID: "sec-1"}}
	h := NewScheduleHandler(mockSvc, nil, nil, nil)

	c, w := testContext(t, http.MethodPost, "/schedule/sessions",
		`{"term_id":"term-1","batch_id":"batch-1","section_id":"sec-1","academic_year":"year1semester1"}`)

	h.Open(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.openCalled)
	assert.Contains(t, w.Body.String(), "sec-1")
}

func TestScheduleHandlerOpenInvalidBody(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil, nil, nil)

	c, w := testContext(t, http.MethodPost, "/schedule/sessions", `{"term_id":`)

	h.Open(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
}

func TestScheduleHandlerDrop(t *testing.T) {
	mockSvc := &scheduleServiceMock{assignment: &models.Assignment{ID: "a-1", Day: "Monday"}}
	h := NewScheduleHandler(mockSvc, nil, nil, nil)

	c, w := testContext(t, http.MethodPost, "/sections/sec-1/schedule/slots?termId=term-1",
		`{"day":"Monday","start_time":"09:00","payload":{"course_id":"co-1","hour_type":"lecture","instructor_id":"t-1"}}`)
	c.Params = gin.Params{{Key: "sectionId", Value: "sec-1"}}

	h.Drop(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.dropCalled)
	assert.Equal(t, "Monday", mockSvc.lastDay)
	assert.Contains(t, string(mockSvc.lastPayload), "co-1")
}

func TestScheduleHandlerDropConflict(t *testing.T) {
	mockSvc := &scheduleServiceMock{dropErr: appErrors.ErrSlotOccupied}
	h := NewScheduleHandler(mockSvc, nil, nil, nil)

	c, w := testContext(t, http.MethodPost, "/sections/sec-1/schedule/slots?termId=term-1",
		`{"day":"Monday","start_time":"09:00","payload":{"course_id":"co-1","hour_type":"lecture","instructor_id":"t-1"}}`)
	c.Params = gin.Params{{Key: "sectionId", Value: "sec-1"}}

	h.Drop(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrSlotOccupied.Code)
}

func TestScheduleHandlerAssignInstructorUnprocessable(t *testing.T) {
	mockSvc := &scheduleServiceMock{courseErr: appErrors.ErrQualification}
	h := NewScheduleHandler(mockSvc, nil, nil, nil)

	c, w := testContext(t, http.MethodPut, "/sections/sec-1/schedule/instructor?termId=term-1",
		`{"course_offering_id":"co-1","instructor_id":"t-1"}`)
	c.Params = gin.Params{{Key: "sectionId", Value: "sec-1"}}

	h.AssignInstructor(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrQualification.Code)
}

func TestScheduleHandlerCloseSession(t *testing.T) {
	mockSvc := &scheduleServiceMock{}
	h := NewScheduleHandler(mockSvc, nil, nil, nil)

	c, w := testContext(t, http.MethodDelete, "/sections/sec-1/schedule?termId=term-1", "")
	c.Params = gin.Params{{Key: "sectionId", Value: "sec-1"}}

	h.CloseSession(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.closeCalled)
}
