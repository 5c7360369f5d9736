package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type homebaseSectionRepository interface {
	ListByProgram(ctx context.Context, programID string) ([]models.Section, error)
}

type homebaseRoomRepository interface {
	ListSchedulable(ctx context.Context) ([]models.Room, error)
	ReplaceMappings(ctx context.Context, programID string, mappings []models.HomebaseMapping) error
	ListAssignments(ctx context.Context, programID string) ([]models.HomebaseAssignment, error)
}

// HomebaseResult reports the outcome of a matching run.
type HomebaseResult struct {
	Assigned   []models.HomebaseAssignment `json:"assigned"`
	Unassigned []models.Section            `json:"unassigned"`
}

// HomebaseService assigns each section a permanent room. Matching is
// greedy: sections are taken largest first, and each gets the smallest
// unused non-lab room that still fits, so large cohorts claim large rooms
// before small cohorts can waste them.
type HomebaseService struct {
	sections homebaseSectionRepository
	rooms    homebaseRoomRepository
	logger   *zap.Logger
}

// NewHomebaseService constructs a HomebaseService.
func NewHomebaseService(sections homebaseSectionRepository, rooms homebaseRoomRepository, logger *zap.Logger) *HomebaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomebaseService{sections: sections, rooms: rooms, logger: logger}
}

// Match computes fresh homebase mappings for a program and persists them,
// replacing any previous run.
func (s *HomebaseService) Match(ctx context.Context, programID string) (*HomebaseResult, error) {
	sections, err := s.sections.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	rooms, err := s.rooms.ListSchedulable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	mappings, unassigned := matchHomebase(sections, rooms)

	if err := s.rooms.ReplaceMappings(ctx, programID, mappings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist homebase mappings")
	}

	assigned, err := s.rooms.ListAssignments(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list homebase assignments")
	}

	s.logger.Info("homebase matching completed",
		zap.String("program_id", programID),
		zap.Int("assigned", len(mappings)),
		zap.Int("unassigned", len(unassigned)))

	return &HomebaseResult{Assigned: assigned, Unassigned: unassigned}, nil
}

// Reset removes all stored mappings for a program.
func (s *HomebaseService) Reset(ctx context.Context, programID string) error {
	if err := s.rooms.ReplaceMappings(ctx, programID, nil); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset homebase mappings")
	}
	s.logger.Info("homebase mappings reset", zap.String("program_id", programID))
	return nil
}

// Assignments returns the stored mappings for a program.
func (s *HomebaseService) Assignments(ctx context.Context, programID string) ([]models.HomebaseAssignment, error) {
	assigned, err := s.rooms.ListAssignments(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list homebase assignments")
	}
	return assigned, nil
}

// matchHomebase pairs sections with rooms. Sections are sorted by student
// count descending, rooms by capacity ascending; each section takes the
// first unused room that fits. Sections no room can hold come back
// unassigned.
func matchHomebase(sections []models.Section, rooms []models.Room) ([]models.HomebaseMapping, []models.Section) {
	ordered := make([]models.Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StudentCount > ordered[j].StudentCount
	})

	pool := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Type != models.RoomLab {
			pool = append(pool, r)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Capacity < pool[j].Capacity
	})

	used := make([]bool, len(pool))
	mappings := make([]models.HomebaseMapping, 0, len(ordered))
	var unassigned []models.Section

	for _, section := range ordered {
		placed := false
		for i, room := range pool {
			if used[i] || room.Capacity < section.StudentCount {
				continue
			}
			mappings = append(mappings, models.HomebaseMapping{SectionID: section.ID, RoomID: room.ID})
			used[i] = true
			placed = true
			break
		}
		if !placed {
			unassigned = append(unassigned, section)
		}
	}
	return mappings, unassigned
}
