package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// ShareRequestRepository persists cross-program share requests. The course
// and assignment bundles travel as JSONB documents; both programs always
// read and write them whole.
type ShareRequestRepository struct {
	db *sqlx.DB
}

// NewShareRequestRepository constructs a ShareRequestRepository.
func NewShareRequestRepository(db *sqlx.DB) *ShareRequestRepository {
	return &ShareRequestRepository{db: db}
}

type shareRequestRow struct {
	ID                     string         `db:"id"`
	DraftScheduleID        string         `db:"draft_schedule_id"`
	SourceProgramID        string         `db:"source_program_id"`
	SourceProgramName      string         `db:"source_program_name"`
	TargetProgramID        string         `db:"target_program_id"`
	TargetProgramName      string         `db:"target_program_name"`
	CourseOfferingIDs      types.JSONText `db:"course_offering_ids"`
	Courses                types.JSONText `db:"courses"`
	Status                 string         `db:"status"`
	RequestedDay           string         `db:"requested_day"`
	RequestedTime          string         `db:"requested_time"`
	DraftAssignments       types.JSONText `db:"draft_assignments"`
	AllDraftCourses        types.JSONText `db:"all_draft_courses"`
	AssignedInstructorID   string         `db:"assigned_instructor_id"`
	AssignedInstructorName string         `db:"assigned_instructor_name"`
	CreatedAt              time.Time      `db:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"`
}

func shareToRow(share *models.ScheduleShareRequest) (*shareRequestRow, error) {
	ids, err := json.Marshal(share.CourseOfferingIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal share course ids: %w", err)
	}
	courses, err := json.Marshal(share.Courses)
	if err != nil {
		return nil, fmt.Errorf("marshal share courses: %w", err)
	}
	drafts, err := json.Marshal(share.DraftAssignments)
	if err != nil {
		return nil, fmt.Errorf("marshal share draft assignments: %w", err)
	}
	allCourses, err := json.Marshal(share.AllDraftCourses)
	if err != nil {
		return nil, fmt.Errorf("marshal share draft courses: %w", err)
	}
	return &shareRequestRow{
		ID:                     share.ID,
		DraftScheduleID:        share.DraftScheduleID,
		SourceProgramID:        share.SourceProgramID,
		SourceProgramName:      share.SourceProgramName,
		TargetProgramID:        share.TargetProgramID,
		TargetProgramName:      share.TargetProgramName,
		CourseOfferingIDs:      types.JSONText(ids),
		Courses:                types.JSONText(courses),
		Status:                 string(share.Status),
		RequestedDay:           share.RequestedDay,
		RequestedTime:          share.RequestedTime,
		DraftAssignments:       types.JSONText(drafts),
		AllDraftCourses:        types.JSONText(allCourses),
		AssignedInstructorID:   share.AssignedInstructorID,
		AssignedInstructorName: share.AssignedInstructorName,
		CreatedAt:              share.CreatedAt,
		UpdatedAt:              share.UpdatedAt,
	}, nil
}

func (row *shareRequestRow) toModel() (*models.ScheduleShareRequest, error) {
	share := &models.ScheduleShareRequest{
		ID:                     row.ID,
		DraftScheduleID:        row.DraftScheduleID,
		SourceProgramID:        row.SourceProgramID,
		SourceProgramName:      row.SourceProgramName,
		TargetProgramID:        row.TargetProgramID,
		TargetProgramName:      row.TargetProgramName,
		Status:                 models.ShareRequestStatus(row.Status),
		RequestedDay:           row.RequestedDay,
		RequestedTime:          row.RequestedTime,
		AssignedInstructorID:   row.AssignedInstructorID,
		AssignedInstructorName: row.AssignedInstructorName,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
	for _, pair := range []struct {
		raw  types.JSONText
		dest interface{}
		name string
	}{
		{row.CourseOfferingIDs, &share.CourseOfferingIDs, "course ids"},
		{row.Courses, &share.Courses, "courses"},
		{row.DraftAssignments, &share.DraftAssignments, "draft assignments"},
		{row.AllDraftCourses, &share.AllDraftCourses, "draft courses"},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return nil, fmt.Errorf("unmarshal share %s: %w", pair.name, err)
		}
	}
	return share, nil
}

const shareColumns = `id, draft_schedule_id, source_program_id, source_program_name, target_program_id, target_program_name,
	course_offering_ids, courses, status, requested_day, requested_time, draft_assignments, all_draft_courses,
	assigned_instructor_id, assigned_instructor_name, created_at, updated_at`

// Create inserts a share request, assigning an id and timestamps when
// missing.
func (r *ShareRequestRepository) Create(ctx context.Context, share *models.ScheduleShareRequest) error {
	if share == nil {
		return fmt.Errorf("share payload is nil")
	}
	if share.DraftScheduleID == "" || share.TargetProgramID == "" {
		return fmt.Errorf("draft_schedule_id and target_program_id are required")
	}
	if share.ID == "" {
		share.ID = uuid.NewString()
	}
	if share.Status == "" {
		share.Status = models.ShareStatusPending
	}
	now := time.Now().UTC()
	if share.CreatedAt.IsZero() {
		share.CreatedAt = now
	}
	share.UpdatedAt = now

	row, err := shareToRow(share)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO share_requests (id, draft_schedule_id, source_program_id, source_program_name, target_program_id, target_program_name,
	course_offering_ids, courses, status, requested_day, requested_time, draft_assignments, all_draft_courses,
	assigned_instructor_id, assigned_instructor_name, created_at, updated_at)
VALUES (:id, :draft_schedule_id, :source_program_id, :source_program_name, :target_program_id, :target_program_name,
	:course_offering_ids, :courses, :status, :requested_day, :requested_time, :draft_assignments, :all_draft_courses,
	:assigned_instructor_id, :assigned_instructor_name, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, row); err != nil {
		return fmt.Errorf("insert share request: %w", err)
	}
	return nil
}

// FindByID loads a share request by its identifier.
func (r *ShareRequestRepository) FindByID(ctx context.Context, id string) (*models.ScheduleShareRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_requests WHERE id = $1 LIMIT 1`, shareColumns)
	var row shareRequestRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find share request: %w", err)
	}
	return row.toModel()
}

// ListIncoming returns share requests addressed to a program, newest first.
func (r *ShareRequestRepository) ListIncoming(ctx context.Context, targetProgramID string) ([]models.ScheduleShareRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_requests WHERE target_program_id = $1 ORDER BY created_at DESC`, shareColumns)
	return r.list(ctx, query, targetProgramID)
}

// ListOutgoing returns share requests a program sent, newest first.
func (r *ShareRequestRepository) ListOutgoing(ctx context.Context, sourceProgramID string) ([]models.ScheduleShareRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_requests WHERE source_program_id = $1 ORDER BY created_at DESC`, shareColumns)
	return r.list(ctx, query, sourceProgramID)
}

// ListByDraft returns every share request spawned from a draft schedule.
func (r *ShareRequestRepository) ListByDraft(ctx context.Context, draftScheduleID string) ([]models.ScheduleShareRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_requests WHERE draft_schedule_id = $1 ORDER BY created_at ASC`, shareColumns)
	return r.list(ctx, query, draftScheduleID)
}

func (r *ShareRequestRepository) list(ctx context.Context, query string, arg interface{}) ([]models.ScheduleShareRequest, error) {
	var rows []shareRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("list share requests: %w", err)
	}
	shares := make([]models.ScheduleShareRequest, 0, len(rows))
	for i := range rows {
		share, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}
	return shares, nil
}

// Update rewrites a share request's status, bundles and staffing fields.
func (r *ShareRequestRepository) Update(ctx context.Context, share *models.ScheduleShareRequest) error {
	if share == nil || share.ID == "" {
		return fmt.Errorf("share id is required")
	}
	share.UpdatedAt = time.Now().UTC()

	row, err := shareToRow(share)
	if err != nil {
		return err
	}

	const query = `UPDATE share_requests
SET status = :status, courses = :courses, draft_assignments = :draft_assignments, all_draft_courses = :all_draft_courses,
	assigned_instructor_id = :assigned_instructor_id, assigned_instructor_name = :assigned_instructor_name, updated_at = :updated_at
WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, row)
	if err != nil {
		return fmt.Errorf("update share request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("share request rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountOpenByDraft returns how many share requests of a draft are not yet
// completed.
func (r *ShareRequestRepository) CountOpenByDraft(ctx context.Context, draftScheduleID string) (int, error) {
	const query = `SELECT COUNT(*) FROM share_requests WHERE draft_schedule_id = $1 AND status <> $2`
	var open int
	if err := r.db.GetContext(ctx, &open, query, draftScheduleID, models.ShareStatusCompleted); err != nil {
		return 0, fmt.Errorf("count open share requests: %w", err)
	}
	return open, nil
}
