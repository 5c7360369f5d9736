package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Orel-y/U-Schedule/internal/engine"
	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type shareRequestRepository interface {
	Create(ctx context.Context, share *models.ScheduleShareRequest) error
	FindByID(ctx context.Context, id string) (*models.ScheduleShareRequest, error)
	ListIncoming(ctx context.Context, targetProgramID string) ([]models.ScheduleShareRequest, error)
	ListOutgoing(ctx context.Context, sourceProgramID string) ([]models.ScheduleShareRequest, error)
	ListByDraft(ctx context.Context, draftScheduleID string) ([]models.ScheduleShareRequest, error)
	Update(ctx context.Context, share *models.ScheduleShareRequest) error
	CountOpenByDraft(ctx context.Context, draftScheduleID string) (int, error)
}

type shareDraftRepository interface {
	FindByID(ctx context.Context, id string) (*models.DraftSchedule, error)
	FindBySection(ctx context.Context, termID, sectionID, programID string) (*models.DraftSchedule, error)
	ListByProgram(ctx context.Context, programID string) ([]models.DraftSchedule, error)
	Update(ctx context.Context, draft *models.DraftSchedule) error
}

type shareDraftSaver interface {
	SaveDraft(ctx context.Context, user *models.User, termID, sectionID string) (*models.DraftSchedule, error)
}

type shareProgramDirectory interface {
	FindByID(ctx context.Context, id string) (*models.AcademicProgram, error)
}

type shareSnapshotProvider interface {
	SnapshotForCourses(ctx context.Context, programID string, courses []models.CourseOffering) (*engine.Catalog, *engine.Ledger, error)
}

// ShareWithProgramRequest delegates courses of a draft to another program.
type ShareWithProgramRequest struct {
	TermID            string   `json:"term_id" validate:"required"`
	SectionID         string   `json:"section_id" validate:"required"`
	TargetProgramID   string   `json:"target_program_id" validate:"required"`
	CourseOfferingIDs []string `json:"course_offering_ids" validate:"required,min=1"`
	RequestedDay      string   `json:"requested_day"`
	RequestedTime     string   `json:"requested_time"`
}

// ExternalAssignmentsUpdate is the target program's full replacement of its
// in-progress assignment set. Updates are last-write-wins.
type ExternalAssignmentsUpdate struct {
	Assignments            []models.Assignment `json:"assignments"`
	AssignedInstructorID   string              `json:"assigned_instructor_id"`
	AssignedInstructorName string              `json:"assigned_instructor_name"`
}

// ShareService runs the cross-program delegation protocol. A source program
// shares courses out of its draft; the owning program accepts, schedules
// them in a constrained external view, and submits the result back. The
// share's draft assignment bundle is kept in sync on every edit so the
// source program has live visibility.
type ShareService struct {
	shares    shareRequestRepository
	drafts    shareDraftRepository
	saver     shareDraftSaver
	programs  shareProgramDirectory
	snapshots shareSnapshotProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShareService constructs a ShareService.
func NewShareService(
	shares shareRequestRepository,
	drafts shareDraftRepository,
	saver shareDraftSaver,
	programs shareProgramDirectory,
	snapshots shareSnapshotProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ShareService{
		shares:    shares,
		drafts:    drafts,
		saver:     saver,
		programs:  programs,
		snapshots: snapshots,
		validator: validate,
		logger:    logger,
	}
}

// Share creates a share request for courses of the acting program's draft.
// The current session is saved first so the share carries the latest state;
// the draft moves to pending_external until every share completes.
func (s *ShareService) Share(ctx context.Context, user *models.User, req ShareWithProgramRequest) (*models.ScheduleShareRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid share payload")
	}
	if req.TargetProgramID == user.ProgramID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot share a schedule with your own program")
	}

	draft, err := s.saver.SaveDraft(ctx, user, req.TermID, req.SectionID)
	if err != nil {
		if appErrors.FromError(err).Code != appErrors.ErrNotFound.Code {
			return nil, err
		}
		draft, err = s.drafts.FindBySection(ctx, req.TermID, req.SectionID, user.ProgramID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft schedule for section")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft schedule")
		}
	}

	target, err := s.programs.FindByID(ctx, req.TargetProgramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch target program")
	}

	source, err := s.programs.FindByID(ctx, user.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch source program")
	}

	byID := make(map[string]models.CourseOffering, len(draft.Courses))
	for _, c := range draft.Courses {
		byID[c.ID] = c
	}
	shared := make([]models.CourseOffering, 0, len(req.CourseOfferingIDs))
	for _, id := range req.CourseOfferingIDs {
		course, ok := byID[id]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering is not part of the draft")
		}
		if course.OwningProgramID != req.TargetProgramID {
			return nil, appErrors.Clone(appErrors.ErrOwnership, "course is not owned by the target program")
		}
		shared = append(shared, course)
	}

	share := &models.ScheduleShareRequest{
		DraftScheduleID:   draft.ID,
		SourceProgramID:   user.ProgramID,
		SourceProgramName: source.Name,
		TargetProgramID:   target.ID,
		TargetProgramName: target.Name,
		CourseOfferingIDs: req.CourseOfferingIDs,
		Courses:           shared,
		Status:            models.ShareStatusPending,
		RequestedDay:      req.RequestedDay,
		RequestedTime:     req.RequestedTime,
		DraftAssignments:  []models.Assignment{},
		AllDraftCourses:   draft.Courses,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create share request")
	}

	if draft.Status == models.DraftStatusDraft {
		draft.Status = models.DraftStatusPendingExternal
		if err := s.drafts.Update(ctx, draft); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update draft status")
		}
	}

	s.logger.Info("share request created",
		zap.String("share_id", share.ID),
		zap.String("source_program_id", share.SourceProgramID),
		zap.String("target_program_id", share.TargetProgramID),
		zap.Int("courses", len(shared)))

	return share, nil
}

// Incoming lists share requests addressed to the acting program.
func (s *ShareService) Incoming(ctx context.Context, user *models.User) ([]models.ScheduleShareRequest, error) {
	shares, err := s.shares.ListIncoming(ctx, user.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incoming shares")
	}
	return shares, nil
}

// Outgoing lists share requests the acting program sent.
func (s *ShareService) Outgoing(ctx context.Context, user *models.User) ([]models.ScheduleShareRequest, error) {
	shares, err := s.shares.ListOutgoing(ctx, user.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outgoing shares")
	}
	return shares, nil
}

func (s *ShareService) findForTarget(ctx context.Context, user *models.User, shareID string) (*models.ScheduleShareRequest, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "share request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch share request")
	}
	if share.TargetProgramID != user.ProgramID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "share request is not addressed to your program")
	}
	return share, nil
}

// Accept moves a pending share to in_progress. Share status only moves
// forward; accepting an in_progress share is a no-op and a completed one is
// rejected.
func (s *ShareService) Accept(ctx context.Context, user *models.User, shareID string) (*models.ScheduleShareRequest, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}

	switch share.Status {
	case models.ShareStatusInProgress:
		return share, nil
	case models.ShareStatusCompleted:
		return nil, appErrors.Clone(appErrors.ErrValidation, "share request is already completed")
	}

	share.Status = models.ShareStatusInProgress
	if err := s.shares.Update(ctx, share); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update share request")
	}
	return share, nil
}

// externalEngine builds an engine over the share's course bundle hydrated
// with the combined assignment view: the source draft's assignments plus the
// target's in-progress ones. Occupancy checks therefore see both sides.
func (s *ShareService) externalEngine(ctx context.Context, user *models.User, share *models.ScheduleShareRequest, draft *models.DraftSchedule) (*engine.Engine, error) {
	catalog, ledger, err := s.snapshots.SnapshotForCourses(ctx, user.ProgramID, share.Courses)
	if err != nil {
		return nil, err
	}

	combined := make([]models.Assignment, 0, len(draft.Assignments)+len(share.DraftAssignments))
	combined = append(combined, draft.Assignments...)
	combined = append(combined, share.DraftAssignments...)

	eng := engine.New(draft.SectionID, catalog, ledger)
	eng.Hydrate(combined)
	return eng, nil
}

// splitExternal writes the engine state back onto the share: assignments of
// shared courses become the share's draft bundle, and the course copies keep
// their updated counters and staffing.
func splitExternal(eng *engine.Engine, share *models.ScheduleShareRequest) {
	mine := make([]models.Assignment, 0)
	for _, a := range eng.Assignments() {
		if share.Requests(a.CourseOfferingID) {
			mine = append(mine, a)
		}
	}
	share.DraftAssignments = mine
	share.Courses = eng.Courses()
}

// ExternalView is the constrained scheduling state the target program works
// in: only the shared courses are editable, but every assignment of the
// source draft is visible for occupancy.
type ExternalView struct {
	Share       *models.ScheduleShareRequest `json:"share"`
	Days        []string                     `json:"days"`
	TimeSlots   []string                     `json:"time_slots"`
	Courses     []models.CourseOffering      `json:"courses"`
	Assignments []models.Assignment          `json:"assignments"`
}

// External returns the combined scheduling view for an accepted share.
func (s *ShareService) External(ctx context.Context, user *models.User, shareID string) (*ExternalView, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}
	draft, err := s.loadDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, err
	}

	combined := make([]models.Assignment, 0, len(draft.Assignments)+len(share.DraftAssignments))
	combined = append(combined, draft.Assignments...)
	combined = append(combined, share.DraftAssignments...)

	return &ExternalView{
		Share:       share,
		Days:        models.WeekDays,
		TimeSlots:   models.TimeSlots,
		Courses:     share.Courses,
		Assignments: combined,
	}, nil
}

func (s *ShareService) loadDraft(ctx context.Context, draftID string) (*models.DraftSchedule, error) {
	draft, err := s.drafts.FindByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "draft schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft schedule")
	}
	return draft, nil
}

// ExternalDrop schedules one of the shared courses into the combined view.
// Placements of courses outside the share are rejected with an ownership
// error; slots held by the source draft count as occupied.
func (s *ShareService) ExternalDrop(ctx context.Context, user *models.User, shareID, day, startTime string, payload []byte) (*models.ScheduleShareRequest, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}
	if share.Status != models.ShareStatusInProgress {
		return nil, appErrors.Clone(appErrors.ErrValidation, "share request must be accepted before scheduling")
	}

	intent, err := engine.DecodeDropPayload(payload)
	if err != nil {
		return nil, err
	}

	switch it := intent.(type) {
	case engine.NewPlacement:
		if !share.Requests(it.CourseID) {
			return nil, appErrors.Clone(appErrors.ErrOwnership, "course is not part of this share request")
		}
	case engine.MoveIntent:
		if !shareHolds(share, it.AssignmentID) {
			return nil, appErrors.Clone(appErrors.ErrOwnership, "assignment belongs to the source program")
		}
	}

	draft, err := s.loadDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, err
	}

	eng, err := s.externalEngine(ctx, user, share, draft)
	if err != nil {
		return nil, err
	}
	if _, err := eng.Apply(day, startTime, intent); err != nil {
		return nil, err
	}

	splitExternal(eng, share)
	if err := s.persistExternal(ctx, share, draft); err != nil {
		return nil, err
	}
	return share, nil
}

// ExternalRemove deletes one of the target program's own placements.
func (s *ShareService) ExternalRemove(ctx context.Context, user *models.User, shareID, assignmentID string) (*models.ScheduleShareRequest, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}
	if !shareHolds(share, assignmentID) {
		return nil, appErrors.Clone(appErrors.ErrOwnership, "assignment belongs to the source program")
	}

	draft, err := s.loadDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, err
	}

	eng, err := s.externalEngine(ctx, user, share, draft)
	if err != nil {
		return nil, err
	}
	if err := eng.Remove(assignmentID); err != nil {
		return nil, err
	}

	splitExternal(eng, share)
	if err := s.persistExternal(ctx, share, draft); err != nil {
		return nil, err
	}
	return share, nil
}

// UpdateAssignments replaces the share's in-progress bundle wholesale.
// Concurrent editors resolve last-write-wins.
func (s *ShareService) UpdateAssignments(ctx context.Context, user *models.User, shareID string, update ExternalAssignmentsUpdate) (*models.ScheduleShareRequest, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}
	if share.Status == models.ShareStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "share request is already completed")
	}

	for _, a := range update.Assignments {
		if !share.Requests(a.CourseOfferingID) {
			return nil, appErrors.Clone(appErrors.ErrOwnership, "assignment references a course outside this share")
		}
	}

	share.DraftAssignments = update.Assignments
	share.AssignedInstructorID = update.AssignedInstructorID
	share.AssignedInstructorName = update.AssignedInstructorName

	draft, err := s.loadDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.persistExternal(ctx, share, draft); err != nil {
		return nil, err
	}
	return share, nil
}

// persistExternal saves the share and mirrors its bundle into the source
// draft so both programs read the same state.
func (s *ShareService) persistExternal(ctx context.Context, share *models.ScheduleShareRequest, draft *models.DraftSchedule) error {
	if err := s.shares.Update(ctx, share); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update share request")
	}

	kept := make([]models.Assignment, 0, len(draft.Assignments))
	for _, a := range draft.Assignments {
		if !share.Requests(a.CourseOfferingID) {
			kept = append(kept, a)
		}
	}
	draft.Assignments = append(kept, share.DraftAssignments...)

	byID := make(map[string]models.CourseOffering, len(share.Courses))
	for _, c := range share.Courses {
		byID[c.ID] = c
	}
	for i, c := range draft.Courses {
		if updated, ok := byID[c.ID]; ok {
			draft.Courses[i] = updated
		}
	}

	if err := s.drafts.Update(ctx, draft); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mirror share into draft")
	}
	return nil
}

// Submit completes a share. The final bundle is written back into the
// source draft, and when no open shares remain the draft returns to draft
// status so the source program can finalize.
func (s *ShareService) Submit(ctx context.Context, user *models.User, shareID string) (*models.ScheduleShareRequest, error) {
	share, err := s.findForTarget(ctx, user, shareID)
	if err != nil {
		return nil, err
	}
	if share.Status == models.ShareStatusCompleted {
		return share, nil
	}
	if share.Status != models.ShareStatusInProgress {
		return nil, appErrors.Clone(appErrors.ErrValidation, "share request must be accepted before submission")
	}

	share.Status = models.ShareStatusCompleted

	draft, err := s.loadDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, err
	}
	writeBackInstructor(share, draft)
	if err := s.persistExternal(ctx, share, draft); err != nil {
		return nil, err
	}

	open, err := s.shares.CountOpenByDraft(ctx, share.DraftScheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open shares")
	}
	if open == 0 && draft.Status == models.DraftStatusPendingExternal {
		draft.Status = models.DraftStatusDraft
		if err := s.drafts.Update(ctx, draft); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revert draft status")
		}
	}

	s.logger.Info("share request completed",
		zap.String("share_id", share.ID),
		zap.String("draft_id", share.DraftScheduleID),
		zap.Int("open_shares", open))

	return share, nil
}

// writeBackInstructor stamps the share's resolved instructor onto every
// shared course in both the share bundle and the source draft, marking
// them staffed. When no instructor was recorded through the live sync,
// the placements themselves name one.
func writeBackInstructor(share *models.ScheduleShareRequest, draft *models.DraftSchedule) {
	instructorID := share.AssignedInstructorID
	instructorName := share.AssignedInstructorName
	if instructorID == "" {
		for _, a := range share.DraftAssignments {
			if a.InstructorID != "" {
				instructorID = a.InstructorID
				instructorName = a.InstructorName
				break
			}
		}
	}
	if instructorID == "" {
		return
	}

	share.AssignedInstructorID = instructorID
	share.AssignedInstructorName = instructorName

	for i, c := range share.Courses {
		if share.Requests(c.ID) {
			share.Courses[i].InstructorID = instructorID
			share.Courses[i].InstructorName = instructorName
			share.Courses[i].IsAssigned = true
		}
	}
	for i, c := range draft.Courses {
		if share.Requests(c.ID) {
			draft.Courses[i].InstructorID = instructorID
			draft.Courses[i].InstructorName = instructorName
			draft.Courses[i].IsAssigned = true
		}
	}
}

// Merged returns the source draft's own assignments concatenated with every
// share's bundle. Entries are not deduplicated; the mirror keeps the draft
// authoritative, so duplicates indicate an in-flight edit.
func (s *ShareService) Merged(ctx context.Context, user *models.User, draftID string) ([]models.Assignment, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.CreatedByProgramID != user.ProgramID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "draft belongs to another program")
	}

	shares, err := s.shares.ListByDraft(ctx, draftID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list draft shares")
	}

	sharedCourse := make(map[string]struct{})
	for _, share := range shares {
		for _, id := range share.CourseOfferingIDs {
			sharedCourse[id] = struct{}{}
		}
	}

	merged := make([]models.Assignment, 0, len(draft.Assignments))
	for _, a := range draft.Assignments {
		if _, shared := sharedCourse[a.CourseOfferingID]; !shared {
			merged = append(merged, a)
		}
	}
	for _, share := range shares {
		merged = append(merged, share.DraftAssignments...)
	}
	return merged, nil
}

// Drafts lists the acting program's draft schedules.
func (s *ShareService) Drafts(ctx context.Context, user *models.User) ([]models.DraftSchedule, error) {
	drafts, err := s.drafts.ListByProgram(ctx, user.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list draft schedules")
	}
	return drafts, nil
}

func shareHolds(share *models.ScheduleShareRequest, assignmentID string) bool {
	for _, a := range share.DraftAssignments {
		if a.ID == assignmentID {
			return true
		}
	}
	return false
}
