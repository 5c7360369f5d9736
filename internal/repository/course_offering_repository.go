package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// CourseOfferingRepository reads the course offerings a section must
// schedule in a term.
type CourseOfferingRepository struct {
	db *sqlx.DB
}

// NewCourseOfferingRepository constructs a CourseOfferingRepository.
func NewCourseOfferingRepository(db *sqlx.DB) *CourseOfferingRepository {
	return &CourseOfferingRepository{db: db}
}

const offeringColumns = `co.id, co.course_code, co.course_title, co.credit_hours,
	co.owning_program_id, COALESCE(p.code, '') AS owning_program_code,
	co.lecture_hours, co.lab_hours, co.tutorial_hours, co.field_hours,
	co.lecture_hours AS remaining_lecture, co.lab_hours AS remaining_lab,
	co.tutorial_hours AS remaining_tutorial, co.field_hours AS remaining_field,
	'' AS instructor_id, '' AS instructor_name, '' AS lab_assistant_id, FALSE AS is_assigned`

// ListForCurriculum returns the offerings a program's curriculum prescribes
// for one academic year cell. Remaining-hour counters start at the base
// hours; staffing fields start empty.
func (r *CourseOfferingRepository) ListForCurriculum(ctx context.Context, programID, academicYear string) ([]models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s
FROM course_offerings co
JOIN curriculum_entries ce ON ce.course_offering_id = co.id
LEFT JOIN academic_programs p ON p.id = co.owning_program_id
WHERE ce.academic_program_id = $1 AND ce.academic_year = $2
ORDER BY co.course_code ASC`, offeringColumns)
	var offerings []models.CourseOffering
	if err := r.db.SelectContext(ctx, &offerings, query, programID, academicYear); err != nil {
		return nil, fmt.Errorf("list curriculum offerings: %w", err)
	}
	return offerings, nil
}

// FindByIDs fetches offerings by identifier preserving no particular order.
func (r *CourseOfferingRepository) FindByIDs(ctx context.Context, ids []string) ([]models.CourseOffering, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s
FROM course_offerings co
LEFT JOIN academic_programs p ON p.id = co.owning_program_id
WHERE co.id IN (?)`, offeringColumns)
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, fmt.Errorf("expand offering ids: %w", err)
	}
	query = r.db.Rebind(query)
	var offerings []models.CourseOffering
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("find offerings by ids: %w", err)
	}
	return offerings, nil
}
