package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Orel-y/U-Schedule/internal/engine"
	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

type catalogProgramRepository interface {
	ListCampuses(ctx context.Context) ([]models.Campus, error)
	ListByCampus(ctx context.Context, campusID string) ([]models.AcademicProgram, error)
	FindByID(ctx context.Context, id string) (*models.AcademicProgram, error)
	ListAll(ctx context.Context) ([]models.AcademicProgram, error)
}

type catalogBatchRepository interface {
	Resolve(ctx context.Context, entryYear int, programID, programType, admissionType string) (*models.Batch, error)
	ListEntryYears(ctx context.Context, programID string) ([]int, error)
}

type catalogSectionRepository interface {
	ListByProgramYear(ctx context.Context, programID, academicYear string) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

type catalogInstructorRepository interface {
	ListByProgram(ctx context.Context, programID string) ([]models.Instructor, error)
	ListQualifications(ctx context.Context, programID string) ([]models.Qualification, error)
	ListLabAssistants(ctx context.Context) ([]models.LabAssistant, error)
}

type catalogOfferingRepository interface {
	ListForCurriculum(ctx context.Context, programID, academicYear string) ([]models.CourseOffering, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.CourseOffering, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogService serves the academic directory and assembles the immutable
// snapshots scheduling sessions start from. Directory reads are cached in
// Redis when a cache is wired in.
type CatalogService struct {
	programs    catalogProgramRepository
	batches     catalogBatchRepository
	sections    catalogSectionRepository
	instructors catalogInstructorRepository
	offerings   catalogOfferingRepository
	cache       catalogCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewCatalogService constructs a CatalogService. The cache may be nil.
func NewCatalogService(
	programs catalogProgramRepository,
	batches catalogBatchRepository,
	sections catalogSectionRepository,
	instructors catalogInstructorRepository,
	offerings catalogOfferingRepository,
	cache catalogCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{
		programs:    programs,
		batches:     batches,
		sections:    sections,
		instructors: instructors,
		offerings:   offerings,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func (s *CatalogService) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, dest); err == nil {
			return nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := load()
	if err != nil {
		return err
	}
	assign(dest, value)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Campuses lists every campus.
func (s *CatalogService) Campuses(ctx context.Context) ([]models.Campus, error) {
	var campuses []models.Campus
	err := s.cached(ctx, "catalog:campuses", &campuses, func() (interface{}, error) {
		list, err := s.programs.ListCampuses(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
		}
		return list, nil
	})
	return campuses, err
}

// ProgramsByCampus lists the academic programs hosted on a campus.
func (s *CatalogService) ProgramsByCampus(ctx context.Context, campusID string) ([]models.AcademicProgram, error) {
	var programs []models.AcademicProgram
	key := fmt.Sprintf("catalog:programs:%s", campusID)
	err := s.cached(ctx, key, &programs, func() (interface{}, error) {
		list, err := s.programs.ListByCampus(ctx, campusID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
		}
		return list, nil
	})
	return programs, err
}

// Programs lists every academic program, the share workflow's target picker.
func (s *CatalogService) Programs(ctx context.Context) ([]models.AcademicProgram, error) {
	var programs []models.AcademicProgram
	err := s.cached(ctx, "catalog:programs:all", &programs, func() (interface{}, error) {
		list, err := s.programs.ListAll(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
		}
		return list, nil
	})
	return programs, err
}

// Program fetches one academic program.
func (s *CatalogService) Program(ctx context.Context, id string) (*models.AcademicProgram, error) {
	program, err := s.programs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch program")
	}
	return program, nil
}

// EntryYears lists the active batch entry years of a program, newest first.
func (s *CatalogService) EntryYears(ctx context.Context, programID string) ([]int, error) {
	years, err := s.batches.ListEntryYears(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entry years")
	}
	return years, nil
}

// ResolveBatch finds the single active batch for the selection tuple.
func (s *CatalogService) ResolveBatch(ctx context.Context, entryYear int, programID, programType, admissionType string) (*models.Batch, error) {
	batch, err := s.batches.Resolve(ctx, entryYear, programID, programType, admissionType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active batch matches the selection")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve batch")
	}
	return batch, nil
}

// AcademicYearOptions derives the selectable year/semester cells for a batch
// from its entry year. A batch admitted in 2023 seen in 2025 has reached
// year three, so options run year1semester1 through year3semester2.
func (s *CatalogService) AcademicYearOptions(batch *models.Batch, now time.Time) []models.AcademicYearOption {
	if batch == nil {
		return nil
	}
	years := now.Year() - batch.EntryYear + 1
	if years < 1 {
		years = 1
	}
	if years > 5 {
		years = 5
	}
	options := make([]models.AcademicYearOption, 0, years*2)
	for year := 1; year <= years; year++ {
		for semester := 1; semester <= 2; semester++ {
			options = append(options, models.AcademicYearOption{
				Value: fmt.Sprintf("year%dsemester%d", year, semester),
				Label: fmt.Sprintf("Year %d Semester %d", year, semester),
			})
		}
	}
	return options
}

// Sections lists a program's sections for one academic year cell.
func (s *CatalogService) Sections(ctx context.Context, programID, academicYear string) ([]models.Section, error) {
	sections, err := s.sections.ListByProgramYear(ctx, programID, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// Instructors lists a program's instructor roster with remaining loads.
func (s *CatalogService) Instructors(ctx context.Context, programID string) ([]models.Instructor, error) {
	instructors, err := s.instructors.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// LabAssistants lists the shared lab assistant roster.
func (s *CatalogService) LabAssistants(ctx context.Context) ([]models.LabAssistant, error) {
	assistants, err := s.instructors.ListLabAssistants(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lab assistants")
	}
	return assistants, nil
}

// Section fetches one section.
func (s *CatalogService) Section(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch section")
	}
	return section, nil
}

// Snapshot assembles the catalog and load ledger a scheduling session
// starts from: the curriculum's offerings, the program's instructors with
// their qualification table, and the lab assistant roster.
func (s *CatalogService) Snapshot(ctx context.Context, programID, academicYear string) (*engine.Catalog, *engine.Ledger, error) {
	offerings, err := s.offerings.ListForCurriculum(ctx, programID, academicYear)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum offerings")
	}

	instructors, err := s.instructors.ListByProgram(ctx, programID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}

	quals, err := s.instructors.ListQualifications(ctx, programID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load qualifications")
	}
	qualified := make(models.QualificationMap, len(quals))
	for _, q := range quals {
		qualified[q.CourseCode] = append(qualified[q.CourseCode], q.InstructorID)
	}

	assistants, err := s.instructors.ListLabAssistants(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lab assistants")
	}

	return engine.NewCatalog(offerings, qualified, assistants), engine.NewLedger(instructors), nil
}

// SnapshotForCourses assembles a catalog restricted to specific offerings,
// used when a program schedules courses shared to it. The acting program's
// own instructors staff the shared courses.
func (s *CatalogService) SnapshotForCourses(ctx context.Context, programID string, courses []models.CourseOffering) (*engine.Catalog, *engine.Ledger, error) {
	instructors, err := s.instructors.ListByProgram(ctx, programID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}

	quals, err := s.instructors.ListQualifications(ctx, programID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load qualifications")
	}
	qualified := make(models.QualificationMap, len(quals))
	for _, q := range quals {
		qualified[q.CourseCode] = append(qualified[q.CourseCode], q.InstructorID)
	}

	assistants, err := s.instructors.ListLabAssistants(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lab assistants")
	}

	return engine.NewCatalog(courses, qualified, assistants), engine.NewLedger(instructors), nil
}

// assign copies a loaded value into the caller's destination pointer. The
// pairs are fixed by the call sites above.
func assign(dest, value interface{}) {
	switch d := dest.(type) {
	case *[]models.Campus:
		if v, ok := value.([]models.Campus); ok {
			*d = v
		}
	case *[]models.AcademicProgram:
		if v, ok := value.([]models.AcademicProgram); ok {
			*d = v
		}
	}
}
