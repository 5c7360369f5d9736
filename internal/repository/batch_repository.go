package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// BatchRepository resolves student intake cohorts.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Resolve finds the single active batch for an (entry year, program,
// program type, admission type) tuple.
func (r *BatchRepository) Resolve(ctx context.Context, entryYear int, programID, programType, admissionType string) (*models.Batch, error) {
	const query = `SELECT id, entry_year, academic_program_id, program_type, admission_type, batch_type, active
FROM batches
WHERE entry_year = $1 AND academic_program_id = $2 AND program_type = $3 AND admission_type = $4 AND active = TRUE
LIMIT 1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, entryYear, programID, programType, admissionType); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("resolve batch: %w", err)
	}
	return &batch, nil
}

// FindByID fetches a batch by identifier.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	const query = `SELECT id, entry_year, academic_program_id, program_type, admission_type, batch_type, active FROM batches WHERE id = $1 LIMIT 1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find batch by id: %w", err)
	}
	return &batch, nil
}

// ListEntryYears returns the distinct active entry years for a program,
// newest first.
func (r *BatchRepository) ListEntryYears(ctx context.Context, programID string) ([]int, error) {
	const query = `SELECT DISTINCT entry_year FROM batches WHERE academic_program_id = $1 AND active = TRUE ORDER BY entry_year DESC`
	var years []int
	if err := r.db.SelectContext(ctx, &years, query, programID); err != nil {
		return nil, fmt.Errorf("list batch entry years: %w", err)
	}
	return years, nil
}
