package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Orel-y/U-Schedule/internal/engine"
	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type scheduleDraftRepository interface {
	Create(ctx context.Context, draft *models.DraftSchedule) error
	FindBySection(ctx context.Context, termID, sectionID, programID string) (*models.DraftSchedule, error)
	Update(ctx context.Context, draft *models.DraftSchedule) error
}

type scheduleSnapshotProvider interface {
	Snapshot(ctx context.Context, programID, academicYear string) (*engine.Catalog, *engine.Ledger, error)
}

// OpenSessionRequest selects the cell a scheduling session works on.
type OpenSessionRequest struct {
	TermID       string `json:"term_id" validate:"required"`
	BatchID      string `json:"batch_id" validate:"required"`
	SectionID    string `json:"section_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

// ScheduleView is the full client-facing state of one session: the course
// palette with remaining counters, the placed assignments in grid order and
// the instructor roster with live loads.
type ScheduleView struct {
	SectionID          string                  `json:"section_id"`
	Days               []string                `json:"days"`
	TimeSlots          []string                `json:"time_slots"`
	Courses            []models.CourseOffering `json:"courses"`
	Assignments        []models.Assignment     `json:"assignments"`
	Instructors        []models.Instructor     `json:"instructors"`
	StaffedInstructors []models.Instructor     `json:"staffed_instructors"`
}

type scheduleSession struct {
	mu           sync.Mutex
	engine       *engine.Engine
	termID       string
	batchID      string
	programID    string
	academicYear string
	draftID      string
}

// ScheduleService owns the live scheduling sessions. One session exists per
// (program, term, section) cell; all operations on a session are serialized
// by its mutex, so concurrent drops on the same slot resolve
// first-writer-wins.
type ScheduleService struct {
	snapshots scheduleSnapshotProvider
	drafts    scheduleDraftRepository
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*scheduleSession
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(snapshots scheduleSnapshotProvider, drafts scheduleDraftRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{
		snapshots: snapshots,
		drafts:    drafts,
		validator: validate,
		logger:    logger,
		sessions:  make(map[string]*scheduleSession),
	}
}

func sessionKey(programID, termID, sectionID string) string {
	return fmt.Sprintf("%s:%s:%s", programID, termID, sectionID)
}

func (s *ScheduleService) session(programID, termID, sectionID string) (*scheduleSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey(programID, termID, sectionID)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active scheduling session for section")
	}
	return sess, nil
}

func (s *ScheduleService) view(sess *scheduleSession) *ScheduleView {
	return &ScheduleView{
		SectionID:          sess.engine.SectionID(),
		Days:               models.WeekDays,
		TimeSlots:          models.TimeSlots,
		Courses:            sess.engine.Courses(),
		Assignments:        sess.engine.Assignments(),
		Instructors:        sess.engine.Instructors(),
		StaffedInstructors: sess.engine.StaffedInstructors(),
	}
}

// Open starts (or resumes) the session for a section. An existing draft for
// the cell is loaded into the engine so saved work carries over; otherwise
// the engine starts from a fresh curriculum snapshot.
func (s *ScheduleService) Open(ctx context.Context, user *models.User, req OpenSessionRequest) (*ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if user == nil || user.ProgramID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "user has no program affiliation")
	}

	key := sessionKey(user.ProgramID, req.TermID, req.SectionID)

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return s.view(sess), nil
	}
	s.mu.Unlock()

	sess := &scheduleSession{
		termID:       req.TermID,
		batchID:      req.BatchID,
		programID:    user.ProgramID,
		academicYear: req.AcademicYear,
	}

	draft, err := s.drafts.FindBySection(ctx, req.TermID, req.SectionID, user.ProgramID)
	switch {
	case err == nil:
		catalog, ledger, snapErr := s.snapshotForDraft(ctx, user.ProgramID, req.AcademicYear, draft)
		if snapErr != nil {
			return nil, snapErr
		}
		sess.engine = engine.New(req.SectionID, catalog, ledger)
		sess.engine.Hydrate(draft.Assignments)
		sess.draftID = draft.ID
	case errors.Is(err, sql.ErrNoRows):
		catalog, ledger, snapErr := s.snapshots.Snapshot(ctx, user.ProgramID, req.AcademicYear)
		if snapErr != nil {
			return nil, snapErr
		}
		sess.engine = engine.New(req.SectionID, catalog, ledger)
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft schedule")
	}

	s.mu.Lock()
	if existing, ok := s.sessions[key]; ok {
		// Lost the race to another opener; use theirs.
		s.mu.Unlock()
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return s.view(existing), nil
	}
	s.sessions[key] = sess
	s.mu.Unlock()

	s.logger.Info("scheduling session opened",
		zap.String("program_id", user.ProgramID),
		zap.String("section_id", req.SectionID),
		zap.String("term_id", req.TermID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// snapshotForDraft rebuilds the engine inputs from a saved draft. The saved
// course bundle keeps its remaining counters and staffing, so only the
// instructor roster comes from the directory.
func (s *ScheduleService) snapshotForDraft(ctx context.Context, programID, academicYear string, draft *models.DraftSchedule) (*engine.Catalog, *engine.Ledger, error) {
	catalog, ledger, err := s.snapshots.Snapshot(ctx, programID, academicYear)
	if err != nil {
		return nil, nil, err
	}
	if len(draft.Courses) == 0 {
		return catalog, ledger, nil
	}

	// Merge the saved counters over the fresh snapshot so courses added to
	// the curriculum after the draft was saved still show up.
	fresh := catalog.Courses()
	saved := make(map[string]models.CourseOffering, len(draft.Courses))
	for _, c := range draft.Courses {
		saved[c.ID] = c
	}
	merged := make([]models.CourseOffering, 0, len(fresh))
	for _, c := range fresh {
		if sc, ok := saved[c.ID]; ok {
			merged = append(merged, sc)
		} else {
			merged = append(merged, c)
		}
	}

	return catalog.Rebase(merged), ledger, nil
}

// View returns the current state of an open session.
func (s *ScheduleService) View(ctx context.Context, user *models.User, termID, sectionID string) (*ScheduleView, error) {
	sess, err := s.session(user.ProgramID, termID, sectionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// AssignInstructor staffs a course offering inside an open session.
func (s *ScheduleService) AssignInstructor(ctx context.Context, user *models.User, termID, sectionID, courseID, instructorID, labAssistantID string) (*models.CourseOffering, error) {
	sess, err := s.session(user.ProgramID, termID, sectionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.AssignInstructor(courseID, instructorID, labAssistantID)
}

// Drop decodes a raw drag payload and applies it to the target slot.
func (s *ScheduleService) Drop(ctx context.Context, user *models.User, termID, sectionID, day, startTime string, payload []byte) (*models.Assignment, error) {
	sess, err := s.session(user.ProgramID, termID, sectionID)
	if err != nil {
		return nil, err
	}

	intent, err := engine.DecodeDropPayload(payload)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.Apply(day, startTime, intent)
}

// Remove deletes an assignment from an open session.
func (s *ScheduleService) Remove(ctx context.Context, user *models.User, termID, sectionID, assignmentID string) (*ScheduleView, error) {
	sess, err := s.session(user.ProgramID, termID, sectionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.engine.Remove(assignmentID); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// SaveDraft persists the session's courses and assignments as the cell's
// draft schedule, creating it on first save.
func (s *ScheduleService) SaveDraft(ctx context.Context, user *models.User, termID, sectionID string) (*models.DraftSchedule, error) {
	sess, err := s.session(user.ProgramID, termID, sectionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.draftID == "" {
		draft := &models.DraftSchedule{
			TermID:             sess.termID,
			BatchID:            sess.batchID,
			SectionID:          sectionID,
			CreatedBy:          user.ID,
			CreatedByProgramID: user.ProgramID,
			Status:             models.DraftStatusDraft,
			Courses:            sess.engine.Courses(),
			Assignments:        sess.engine.Assignments(),
		}
		if err := s.drafts.Create(ctx, draft); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create draft schedule")
		}
		sess.draftID = draft.ID
		return draft, nil
	}

	current, err := s.drafts.FindBySection(ctx, sess.termID, sectionID, user.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft schedule")
	}
	current.Courses = sess.engine.Courses()
	current.Assignments = sess.engine.Assignments()
	if err := s.drafts.Update(ctx, current); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update draft schedule")
	}
	return current, nil
}

// Close discards a session without saving.
func (s *ScheduleService) Close(user *models.User, termID, sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(user.ProgramID, termID, sectionID))
}
