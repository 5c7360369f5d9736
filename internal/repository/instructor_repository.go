package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// InstructorRepository reads instructors, lab assistants and the
// course-qualification table.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// ListByProgram returns a program's instructors with their current
// remaining teaching load.
func (r *InstructorRepository) ListByProgram(ctx context.Context, programID string) ([]models.Instructor, error) {
	const query = `SELECT id, name, program_id, remaining_load FROM instructors WHERE program_id = $1 ORDER BY name ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, programID); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// FindByID fetches one instructor.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	const query = `SELECT id, name, program_id, remaining_load FROM instructors WHERE id = $1 LIMIT 1`
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find instructor by id: %w", err)
	}
	return &instructor, nil
}

// ListQualifications returns the (course code, instructor) pairs for a
// program's instructors.
func (r *InstructorRepository) ListQualifications(ctx context.Context, programID string) ([]models.Qualification, error) {
	const query = `SELECT q.course_code, q.instructor_id
FROM qualifications q
JOIN instructors i ON i.id = q.instructor_id
WHERE i.program_id = $1
ORDER BY q.course_code ASC`
	var quals []models.Qualification
	if err := r.db.SelectContext(ctx, &quals, query, programID); err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	return quals, nil
}

// ListLabAssistants returns every lab assistant ordered by name.
func (r *InstructorRepository) ListLabAssistants(ctx context.Context) ([]models.LabAssistant, error) {
	const query = `SELECT id, name FROM lab_assistants ORDER BY name ASC`
	var assistants []models.LabAssistant
	if err := r.db.SelectContext(ctx, &assistants, query); err != nil {
		return nil, fmt.Errorf("list lab assistants: %w", err)
	}
	return assistants, nil
}
