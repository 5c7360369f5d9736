package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// SectionRepository reads student sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListByProgramYear returns the sections of a program for one academic year
// cell such as "year2semester1".
func (r *SectionRepository) ListByProgramYear(ctx context.Context, programID, academicYear string) ([]models.Section, error) {
	const query = `SELECT id, name, academic_program_id, academic_year, student_count
FROM sections WHERE academic_program_id = $1 AND academic_year = $2 ORDER BY name ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, programID, academicYear); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListByProgram returns every section of a program ordered by student count
// descending, the order homebase matching consumes.
func (r *SectionRepository) ListByProgram(ctx context.Context, programID string) ([]models.Section, error) {
	const query = `SELECT id, name, academic_program_id, academic_year, student_count
FROM sections WHERE academic_program_id = $1 ORDER BY student_count DESC, name ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, programID); err != nil {
		return nil, fmt.Errorf("list sections by program: %w", err)
	}
	return sections, nil
}

// FindByID fetches one section.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	const query = `SELECT id, name, academic_program_id, academic_year, student_count FROM sections WHERE id = $1 LIMIT 1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find section by id: %w", err)
	}
	return &section, nil
}
