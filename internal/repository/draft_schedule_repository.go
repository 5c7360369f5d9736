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

// DraftScheduleRepository persists draft schedules. Course and assignment
// bundles are stored as JSONB documents since the engine always loads and
// saves them whole.
type DraftScheduleRepository struct {
	db *sqlx.DB
}

// NewDraftScheduleRepository constructs a DraftScheduleRepository.
func NewDraftScheduleRepository(db *sqlx.DB) *DraftScheduleRepository {
	return &DraftScheduleRepository{db: db}
}

type draftScheduleRow struct {
	ID                 string         `db:"id"`
	TermID             string         `db:"term_id"`
	BatchID            string         `db:"batch_id"`
	SectionID          string         `db:"section_id"`
	CreatedBy          string         `db:"created_by"`
	CreatedByProgramID string         `db:"created_by_program_id"`
	Status             string         `db:"status"`
	Courses            types.JSONText `db:"courses"`
	Assignments        types.JSONText `db:"assignments"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func draftToRow(draft *models.DraftSchedule) (*draftScheduleRow, error) {
	courses, err := json.Marshal(draft.Courses)
	if err != nil {
		return nil, fmt.Errorf("marshal draft courses: %w", err)
	}
	assignments, err := json.Marshal(draft.Assignments)
	if err != nil {
		return nil, fmt.Errorf("marshal draft assignments: %w", err)
	}
	return &draftScheduleRow{
		ID:                 draft.ID,
		TermID:             draft.TermID,
		BatchID:            draft.BatchID,
		SectionID:          draft.SectionID,
		CreatedBy:          draft.CreatedBy,
		CreatedByProgramID: draft.CreatedByProgramID,
		Status:             string(draft.Status),
		Courses:            types.JSONText(courses),
		Assignments:        types.JSONText(assignments),
		CreatedAt:          draft.CreatedAt,
		UpdatedAt:          draft.UpdatedAt,
	}, nil
}

func (row *draftScheduleRow) toModel() (*models.DraftSchedule, error) {
	draft := &models.DraftSchedule{
		ID:                 row.ID,
		TermID:             row.TermID,
		BatchID:            row.BatchID,
		SectionID:          row.SectionID,
		CreatedBy:          row.CreatedBy,
		CreatedByProgramID: row.CreatedByProgramID,
		Status:             models.DraftScheduleStatus(row.Status),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if len(row.Courses) > 0 {
		if err := json.Unmarshal(row.Courses, &draft.Courses); err != nil {
			return nil, fmt.Errorf("unmarshal draft courses: %w", err)
		}
	}
	if len(row.Assignments) > 0 {
		if err := json.Unmarshal(row.Assignments, &draft.Assignments); err != nil {
			return nil, fmt.Errorf("unmarshal draft assignments: %w", err)
		}
	}
	return draft, nil
}

const draftColumns = `id, term_id, batch_id, section_id, created_by, created_by_program_id, status, courses, assignments, created_at, updated_at`

// Create inserts a draft schedule, assigning an id and timestamps when
// missing.
func (r *DraftScheduleRepository) Create(ctx context.Context, draft *models.DraftSchedule) error {
	if draft == nil {
		return fmt.Errorf("draft payload is nil")
	}
	if draft.TermID == "" || draft.SectionID == "" {
		return fmt.Errorf("term_id and section_id are required")
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	row, err := draftToRow(draft)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO draft_schedules (id, term_id, batch_id, section_id, created_by, created_by_program_id, status, courses, assignments, created_at, updated_at)
VALUES (:id, :term_id, :batch_id, :section_id, :created_by, :created_by_program_id, :status, :courses, :assignments, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, row); err != nil {
		return fmt.Errorf("insert draft schedule: %w", err)
	}
	return nil
}

// FindByID loads a draft schedule by its identifier.
func (r *DraftScheduleRepository) FindByID(ctx context.Context, id string) (*models.DraftSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM draft_schedules WHERE id = $1 LIMIT 1`, draftColumns)
	var row draftScheduleRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find draft schedule: %w", err)
	}
	return row.toModel()
}

// FindBySection loads the owning program's draft for a (term, section)
// tuple, if one exists.
func (r *DraftScheduleRepository) FindBySection(ctx context.Context, termID, sectionID, programID string) (*models.DraftSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM draft_schedules
WHERE term_id = $1 AND section_id = $2 AND created_by_program_id = $3
ORDER BY updated_at DESC LIMIT 1`, draftColumns)
	var row draftScheduleRow
	if err := r.db.GetContext(ctx, &row, query, termID, sectionID, programID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find draft schedule by section: %w", err)
	}
	return row.toModel()
}

// ListByProgram returns a program's drafts, most recently updated first.
func (r *DraftScheduleRepository) ListByProgram(ctx context.Context, programID string) ([]models.DraftSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM draft_schedules WHERE created_by_program_id = $1 ORDER BY updated_at DESC`, draftColumns)
	var rows []draftScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, programID); err != nil {
		return nil, fmt.Errorf("list draft schedules: %w", err)
	}
	drafts := make([]models.DraftSchedule, 0, len(rows))
	for i := range rows {
		draft, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, nil
}

// Update rewrites a draft's status and bundles.
func (r *DraftScheduleRepository) Update(ctx context.Context, draft *models.DraftSchedule) error {
	if draft == nil || draft.ID == "" {
		return fmt.Errorf("draft id is required")
	}
	draft.UpdatedAt = time.Now().UTC()

	row, err := draftToRow(draft)
	if err != nil {
		return err
	}

	const query = `UPDATE draft_schedules
SET status = :status, courses = :courses, assignments = :assignments, updated_at = :updated_at
WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, row)
	if err != nil {
		return fmt.Errorf("update draft schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("draft schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a draft schedule.
func (r *DraftScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM draft_schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete draft schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("draft schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
