package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Orel-y/U-Schedule/internal/models"
)

// RoomRepository reads rooms and persists homebase mappings.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListSchedulable returns non-lab rooms ordered by ascending capacity, the
// order homebase matching consumes.
func (r *RoomRepository) ListSchedulable(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT r.id, r.building_id, b.name AS building_name, r.name, r.capacity, r.floor, r.type
FROM rooms r
JOIN buildings b ON b.id = r.building_id
WHERE r.type <> $1
ORDER BY r.capacity ASC, r.name ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, models.RoomLab); err != nil {
		return nil, fmt.Errorf("list schedulable rooms: %w", err)
	}
	return rooms, nil
}

// ReplaceMappings swaps a program's homebase mappings for a fresh set inside
// one transaction.
func (r *RoomRepository) ReplaceMappings(ctx context.Context, programID string, mappings []models.HomebaseMapping) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin homebase tx: %w", err)
	}
	defer tx.Rollback()

	const deleteQuery = `DELETE FROM homebase_mappings
WHERE section_id IN (SELECT id FROM sections WHERE academic_program_id = $1)`
	if _, err := tx.ExecContext(ctx, deleteQuery, programID); err != nil {
		return fmt.Errorf("clear homebase mappings: %w", err)
	}

	const insertQuery = `INSERT INTO homebase_mappings (id, section_id, room_id, created_at) VALUES ($1, $2, $3, $4)`
	now := time.Now().UTC()
	for _, m := range mappings {
		if _, err := tx.ExecContext(ctx, insertQuery, uuid.NewString(), m.SectionID, m.RoomID, now); err != nil {
			return fmt.Errorf("insert homebase mapping: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit homebase tx: %w", err)
	}
	return nil
}

// ListAssignments returns the display join of a program's homebase mappings.
func (r *RoomRepository) ListAssignments(ctx context.Context, programID string) ([]models.HomebaseAssignment, error) {
	const query = `SELECT hm.id, s.name AS section_name, p.name AS academic_program_name, s.student_count,
	r.name AS room_name, b.name AS building_name, r.floor
FROM homebase_mappings hm
JOIN sections s ON s.id = hm.section_id
JOIN academic_programs p ON p.id = s.academic_program_id
JOIN rooms r ON r.id = hm.room_id
JOIN buildings b ON b.id = r.building_id
WHERE s.academic_program_id = $1
ORDER BY s.name ASC`
	var assignments []models.HomebaseAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, programID); err != nil {
		return nil, fmt.Errorf("list homebase assignments: %w", err)
	}
	return assignments, nil
}
