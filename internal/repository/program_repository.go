package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// ProgramRepository reads the campus and academic program directory.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// ListCampuses returns every campus ordered by name.
func (r *ProgramRepository) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	const query = `SELECT id, name FROM campuses ORDER BY name ASC`
	var campuses []models.Campus
	if err := r.db.SelectContext(ctx, &campuses, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// ListByCampus returns the academic programs hosted on a campus.
func (r *ProgramRepository) ListByCampus(ctx context.Context, campusID string) ([]models.AcademicProgram, error) {
	const query = `SELECT id, name, code, campus_id FROM academic_programs WHERE campus_id = $1 ORDER BY name ASC`
	var programs []models.AcademicProgram
	if err := r.db.SelectContext(ctx, &programs, query, campusID); err != nil {
		return nil, fmt.Errorf("list programs by campus: %w", err)
	}
	return programs, nil
}

// FindByID fetches one academic program.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.AcademicProgram, error) {
	const query = `SELECT id, name, code, campus_id FROM academic_programs WHERE id = $1 LIMIT 1`
	var program models.AcademicProgram
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find program by id: %w", err)
	}
	return &program, nil
}

// ListAll returns every academic program ordered by name.
func (r *ProgramRepository) ListAll(ctx context.Context) ([]models.AcademicProgram, error) {
	const query = `SELECT id, name, code, campus_id FROM academic_programs ORDER BY name ASC`
	var programs []models.AcademicProgram
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}
