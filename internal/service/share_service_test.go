package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type shareRepoStub struct {
	shares map[string]*models.ScheduleShareRequest
	nextID int
}

func newShareRepoStub() *shareRepoStub {
	return &shareRepoStub{shares: make(map[string]*models.ScheduleShareRequest)}
}

func (s *shareRepoStub) Create(ctx context.Context, share *models.ScheduleShareRequest) error {
	if share.ID == "" {
		s.nextID++
		share.ID = "share-stub"
	}
	if share.Status == "" {
		share.Status = models.ShareStatusPending
	}
	cp := *share
	s.shares[share.ID] = &cp
	return nil
}

func (s *shareRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleShareRequest, error) {
	if share, ok := s.shares[id]; ok {
		cp := *share
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *shareRepoStub) ListIncoming(ctx context.Context, targetProgramID string) ([]models.ScheduleShareRequest, error) {
	var out []models.ScheduleShareRequest
	for _, share := range s.shares {
		if share.TargetProgramID == targetProgramID {
			out = append(out, *share)
		}
	}
	return out, nil
}

func (s *shareRepoStub) ListOutgoing(ctx context.Context, sourceProgramID string) ([]models.ScheduleShareRequest, error) {
	var out []models.ScheduleShareRequest
	for _, share := range s.shares {
		if share.SourceProgramID == sourceProgramID {
			out = append(out, *share)
		}
	}
	return out, nil
}

func (s *shareRepoStub) ListByDraft(ctx context.Context, draftScheduleID string) ([]models.ScheduleShareRequest, error) {
	var out []models.ScheduleShareRequest
	for _, share := range s.shares {
		if share.DraftScheduleID == draftScheduleID {
			out = append(out, *share)
		}
	}
	return out, nil
}

func (s *shareRepoStub) Update(ctx context.Context, share *models.ScheduleShareRequest) error {
	cp := *share
	s.shares[share.ID] = &cp
	return nil
}

func (s *shareRepoStub) CountOpenByDraft(ctx context.Context, draftScheduleID string) (int, error) {
	open := 0
	for _, share := range s.shares {
		if share.DraftScheduleID == draftScheduleID && share.Status != models.ShareStatusCompleted {
			open++
		}
	}
	return open, nil
}

type programRepoStub struct {
	programs map[string]*models.AcademicProgram
}

func (s programRepoStub) FindByID(ctx context.Context, id string) (*models.AcademicProgram, error) {
	if p, ok := s.programs[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type saverStub struct {
	draft *models.DraftSchedule
	err   error
}

func (s saverStub) SaveDraft(ctx context.Context, user *models.User, termID, sectionID string) (*models.DraftSchedule, error) {
	return s.draft, s.err
}

func targetSnapshotStub() snapshotStub {
	return snapshotStub{
		instructors: []models.Instructor{{ID: "t-9", Name: "Dr. Hanna", ProgramID: "prog-2", RemainingLoad: 20}},
		qualified:   models.QualificationMap{"MATH101": {"t-9"}},
		assistants:  []models.LabAssistant{{ID: "la-1", Name: "Aschalew"}},
	}
}

func sharedDraft() *models.DraftSchedule {
	return &models.DraftSchedule{
		ID:                 "draft-1",
		TermID:             "term-1",
		BatchID:            "batch-1",
		SectionID:          "sec-1",
		CreatedBy:          "user-1",
		CreatedByProgramID: "prog-1",
		Status:             models.DraftStatusDraft,
		Courses: []models.CourseOffering{
			{ID: "co-1", CourseCode: "SE101", OwningProgramID: "prog-1", LectureHours: 3, RemainingLecture: 3,
				InstructorID: "t-1", InstructorName: "Dr. Abebe", IsAssigned: true},
			{ID: "co-2", CourseCode: "MATH101", OwningProgramID: "prog-2", LectureHours: 2, RemainingLecture: 2},
		},
		Assignments: []models.Assignment{
			{ID: "a-own", SectionID: "sec-1", CourseOfferingID: "co-1", HourType: models.HourLecture,
				InstructorID: "t-1", Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		},
	}
}

func newShareFixture(t *testing.T) (*ShareService, *shareRepoStub, *draftRepoStub) {
	t.Helper()
	shares := newShareRepoStub()
	drafts := newDraftRepoStub()
	require.NoError(t, drafts.Update(context.Background(), sharedDraft()))
	programs := programRepoStub{programs: map[string]*models.AcademicProgram{
		"prog-1": {ID: "prog-1", Name: "Software Engineering", Code: "SE"},
		"prog-2": {ID: "prog-2", Name: "Mathematics", Code: "MATH"},
	}}
	svc := NewShareService(shares, drafts, saverStub{draft: sharedDraft()}, programs, targetSnapshotStub(), nil, nil)
	return svc, shares, drafts
}

func sourceUser() *models.User {
	return &models.User{ID: "user-1", Role: models.RoleHead, ProgramID: "prog-1", ProgramCode: "SE"}
}

func targetUser() *models.User {
	return &models.User{ID: "user-2", Role: models.RoleHead, ProgramID: "prog-2", ProgramCode: "MATH"}
}

func shareRequest() ShareWithProgramRequest {
	return ShareWithProgramRequest{
		TermID:            "term-1",
		SectionID:         "sec-1",
		TargetProgramID:   "prog-2",
		CourseOfferingIDs: []string{"co-2"},
	}
}

func TestShareServiceShare(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusPending, share.Status)
	assert.Equal(t, "Mathematics", share.TargetProgramName)
	require.Len(t, share.Courses, 1)
	assert.Equal(t, "MATH101", share.Courses[0].CourseCode)
	assert.Len(t, share.AllDraftCourses, 2)

	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPendingExternal, draft.Status)
}

func TestShareServiceShareRejectsForeignCourse(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	req := shareRequest()
	req.CourseOfferingIDs = []string{"co-1"}
	_, err := svc.Share(context.Background(), sourceUser(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOwnership.Code, appErrors.FromError(err).Code)
}

func TestShareServiceShareRejectsOwnProgram(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	req := shareRequest()
	req.TargetProgramID = "prog-1"
	_, err := svc.Share(context.Background(), sourceUser(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestShareServiceAccept(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusInProgress, accepted.Status)

	// Accepting twice is a no-op.
	again, err := svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusInProgress, again.Status)
}

func TestShareServiceAcceptWrongProgram(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), sourceUser(), share.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestShareServiceExternalDrop(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	updated, err := svc.ExternalDrop(context.Background(), targetUser(), share.ID, "Tuesday", "10:00",
		[]byte(`{"course_id":"co-2","hour_type":"lecture","instructor_id":"t-9"}`))
	require.NoError(t, err)
	require.Len(t, updated.DraftAssignments, 1)
	assert.Equal(t, "co-2", updated.DraftAssignments[0].CourseOfferingID)

	// Live sync: the source draft mirrors the placement immediately.
	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Len(t, draft.Assignments, 2)
}

func TestShareServiceExternalDropOccupiedBySource(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	// Monday 09:00 is held by the source program's own assignment.
	_, err = svc.ExternalDrop(context.Background(), targetUser(), share.ID, "Monday", "09:00",
		[]byte(`{"course_id":"co-2","hour_type":"lecture","instructor_id":"t-9"}`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotOccupied.Code, appErrors.FromError(err).Code)
}

func TestShareServiceExternalDropOutsideShare(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	_, err = svc.ExternalDrop(context.Background(), targetUser(), share.ID, "Tuesday", "10:00",
		[]byte(`{"course_id":"co-1","hour_type":"lecture","instructor_id":"t-9"}`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOwnership.Code, appErrors.FromError(err).Code)
}

func TestShareServiceExternalRemoveSourceAssignment(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	_, err = svc.ExternalRemove(context.Background(), targetUser(), share.ID, "a-own")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOwnership.Code, appErrors.FromError(err).Code)
}

func TestShareServiceUpdateAssignmentsLastWriteWins(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	first := ExternalAssignmentsUpdate{
		Assignments: []models.Assignment{
			{ID: "a-ext-1", SectionID: "sec-1", CourseOfferingID: "co-2", HourType: models.HourLecture,
				InstructorID: "t-9", Day: "Tuesday", StartTime: "10:00", EndTime: "11:00"},
		},
		AssignedInstructorID:   "t-9",
		AssignedInstructorName: "Dr. Hanna",
	}
	_, err = svc.UpdateAssignments(context.Background(), targetUser(), share.ID, first)
	require.NoError(t, err)

	second := ExternalAssignmentsUpdate{
		Assignments: []models.Assignment{
			{ID: "a-ext-2", SectionID: "sec-1", CourseOfferingID: "co-2", HourType: models.HourLecture,
				InstructorID: "t-9", Day: "Wednesday", StartTime: "11:00", EndTime: "12:00"},
		},
		AssignedInstructorID:   "t-9",
		AssignedInstructorName: "Dr. Hanna",
	}
	updated, err := svc.UpdateAssignments(context.Background(), targetUser(), share.ID, second)
	require.NoError(t, err)
	require.Len(t, updated.DraftAssignments, 1)
	assert.Equal(t, "a-ext-2", updated.DraftAssignments[0].ID)

	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	require.Len(t, draft.Assignments, 2)
}

func TestShareServiceSubmitRevertsDraftStatus(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusCompleted, submitted.Status)

	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
}

func TestShareServiceSubmitWritesInstructorBack(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)

	update := ExternalAssignmentsUpdate{
		Assignments: []models.Assignment{
			{ID: "a-ext-1", SectionID: "sec-1", CourseOfferingID: "co-2", HourType: models.HourLecture,
				InstructorID: "t-9", Day: "Tuesday", StartTime: "10:00", EndTime: "11:00"},
		},
		AssignedInstructorID:   "t-9",
		AssignedInstructorName: "Dr. Hanna",
	}
	_, err = svc.UpdateAssignments(context.Background(), targetUser(), share.ID, update)
	require.NoError(t, err)

	submitted, err := svc.Submit(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	require.Equal(t, models.ShareStatusCompleted, submitted.Status)

	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	var shared, own *models.CourseOffering
	for i := range draft.Courses {
		switch draft.Courses[i].ID {
		case "co-2":
			shared = &draft.Courses[i]
		case "co-1":
			own = &draft.Courses[i]
		}
	}
	require.NotNil(t, shared)
	assert.Equal(t, "t-9", shared.InstructorID)
	assert.Equal(t, "Dr. Hanna", shared.InstructorName)
	assert.True(t, shared.IsAssigned)

	require.NotNil(t, own)
	assert.Equal(t, "t-1", own.InstructorID)
}

func TestShareServiceSubmitResolvesInstructorFromPlacements(t *testing.T) {
	svc, _, drafts := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	_, err = svc.ExternalDrop(context.Background(), targetUser(), share.ID, "Tuesday", "10:00",
		[]byte(`{"course_id":"co-2","hour_type":"lecture","instructor_id":"t-9"}`))
	require.NoError(t, err)

	submitted, err := svc.Submit(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, "t-9", submitted.AssignedInstructorID)

	draft, err := drafts.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	for _, c := range draft.Courses {
		if c.ID == "co-2" {
			assert.Equal(t, "t-9", c.InstructorID)
			assert.True(t, c.IsAssigned)
		}
	}
}

func TestShareServiceSubmitBeforeAccept(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), targetUser(), share.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestShareServiceMergedConcatenates(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	share, err := svc.Share(context.Background(), sourceUser(), shareRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), targetUser(), share.ID)
	require.NoError(t, err)
	_, err = svc.ExternalDrop(context.Background(), targetUser(), share.ID, "Tuesday", "10:00",
		[]byte(`{"course_id":"co-2","hour_type":"lecture","instructor_id":"t-9"}`))
	require.NoError(t, err)

	merged, err := svc.Merged(context.Background(), sourceUser(), "draft-1")
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestShareServiceMergedForeignDraft(t *testing.T) {
	svc, _, _ := newShareFixture(t)

	_, err := svc.Merged(context.Background(), targetUser(), "draft-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
