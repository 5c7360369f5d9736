package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

// Engine validates and applies placement, move and removal operations
// against one section's assignment set, catalog snapshot and load ledger.
// Every rejection leaves all entities unchanged. The engine itself is not
// safe for concurrent use; its owner serializes operations.
type Engine struct {
	sectionID   string
	catalog     *Catalog
	ledger      *Ledger
	assignments map[string]*models.Assignment
	slots       map[models.Slot]string
	staffed     map[string]struct{}
}

// New builds an engine over a fresh catalog snapshot and ledger.
func New(sectionID string, catalog *Catalog, ledger *Ledger) *Engine {
	return &Engine{
		sectionID:   sectionID,
		catalog:     catalog,
		ledger:      ledger,
		assignments: make(map[string]*models.Assignment),
		slots:       make(map[models.Slot]string),
		staffed:     make(map[string]struct{}),
	}
}

// SectionID returns the section this engine schedules for.
func (e *Engine) SectionID() string {
	return e.sectionID
}

// Hydrate re-registers a previously saved assignment set and its staffing
// side effects. The catalog must have been built from the saved course
// bundle so remaining-hour counters already reflect the assignments;
// Hydrate only rebuilds the slot index and debits the ledger for staffed
// courses.
func (e *Engine) Hydrate(assignments []models.Assignment) {
	for _, course := range e.catalog.Courses() {
		if course.IsAssigned && course.InstructorID != "" {
			e.ledger.Debit(course.InstructorID, course.TotalLoad())
			e.staffed[course.InstructorID] = struct{}{}
		}
	}
	for i := range assignments {
		cp := assignments[i]
		e.assignments[cp.ID] = &cp
		e.slots[cp.Slot()] = cp.ID
	}
}

// AssignInstructor attaches an instructor (and optionally a lab assistant)
// to a course offering. Assigning the current holder again is a no-op.
// Attaching an instructor is a precondition for scheduling the course.
func (e *Engine) AssignInstructor(courseID, instructorID, labAssistantID string) (*models.CourseOffering, error) {
	course, ok := e.catalog.Course(courseID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
	}

	if instructorID != "" && !e.catalog.IsQualified(course.CourseCode, instructorID) {
		return nil, appErrors.Clone(appErrors.ErrQualification,
			fmt.Sprintf("instructor is not qualified for %s", course.CourseCode))
	}

	if instructorID == course.InstructorID && course.IsAssigned {
		cp := *course
		return &cp, nil
	}

	load := course.TotalLoad()

	var next *models.Instructor
	if instructorID != "" {
		next, ok = e.ledger.Instructor(instructorID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		if next.RemainingLoad < load {
			return nil, appErrors.Clone(appErrors.ErrCapacity,
				fmt.Sprintf("insufficient load for %s: required %d, available %d", next.Name, load, next.RemainingLoad))
		}
	}

	if course.IsAssigned && course.InstructorID != "" {
		e.ledger.Credit(course.InstructorID, load)
	}
	if next != nil {
		e.ledger.Debit(instructorID, load)
	}

	course.InstructorID = instructorID
	if next != nil {
		course.InstructorName = next.Name
	} else {
		course.InstructorName = ""
	}
	course.LabAssistantID = labAssistantID
	course.IsAssigned = instructorID != ""

	if instructorID != "" {
		e.staffed[instructorID] = struct{}{}
	}

	cp := *course
	return &cp, nil
}

// Apply dispatches a decoded drag intent against the target slot.
func (e *Engine) Apply(day, startTime string, intent Intent) (*models.Assignment, error) {
	switch it := intent.(type) {
	case NewPlacement:
		return e.Place(day, startTime, it)
	case MoveIntent:
		return e.Move(it.AssignmentID, day, startTime)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown scheduling intent")
	}
}

// Place creates a new assignment in the (day, startTime) cell, consuming one
// remaining hour-unit of the matching type.
func (e *Engine) Place(day, startTime string, p NewPlacement) (*models.Assignment, error) {
	if p.InstructorID == "" {
		return nil, appErrors.ErrInstructorRequired
	}
	if p.HourType == models.HourLab && p.LabAssistantID == "" {
		return nil, appErrors.ErrLabAssistantRequired
	}

	slot := models.Slot{Day: day, StartTime: startTime}
	if _, taken := e.slots[slot]; taken {
		return nil, appErrors.ErrSlotOccupied
	}

	course, ok := e.catalog.Course(p.CourseID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
	}
	if course.Remaining(p.HourType) <= 0 {
		return nil, appErrors.Clone(appErrors.ErrHoursExhausted,
			fmt.Sprintf("no more %s hours remaining for %s", p.HourType, course.CourseCode))
	}

	instructorName := course.InstructorName
	if instructorName == "" || course.InstructorID != p.InstructorID {
		if inst, ok := e.ledger.Instructor(p.InstructorID); ok {
			instructorName = inst.Name
		}
	}

	a := &models.Assignment{
		ID:               uuid.NewString(),
		SectionID:        e.sectionID,
		CourseOfferingID: p.CourseID,
		HourType:         p.HourType,
		InstructorID:     p.InstructorID,
		InstructorName:   instructorName,
		LabAssistantID:   p.LabAssistantID,
		Day:              day,
		StartTime:        startTime,
		EndTime:          models.NextTimeSlot(startTime),
	}
	e.assignments[a.ID] = a
	e.slots[slot] = a.ID
	course.ConsumeHour(p.HourType)

	cp := *a
	return &cp, nil
}

// Move relocates an existing assignment. Dropping on the current slot is a
// silent success; hour counters and instructor load are untouched either way.
func (e *Engine) Move(assignmentID, day, startTime string) (*models.Assignment, error) {
	a, ok := e.assignments[assignmentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}

	if a.Day == day && a.StartTime == startTime {
		cp := *a
		return &cp, nil
	}

	slot := models.Slot{Day: day, StartTime: startTime}
	if occupant, taken := e.slots[slot]; taken && occupant != assignmentID {
		return nil, appErrors.ErrSlotOccupied
	}

	delete(e.slots, a.Slot())
	a.Day = day
	a.StartTime = startTime
	a.EndTime = models.NextTimeSlot(startTime)
	e.slots[slot] = a.ID

	cp := *a
	return &cp, nil
}

// Remove deletes an assignment and credits the hour-unit back to its course.
// Removing an unknown id is a no-op.
func (e *Engine) Remove(assignmentID string) error {
	a, ok := e.assignments[assignmentID]
	if !ok {
		return nil
	}

	delete(e.assignments, assignmentID)
	delete(e.slots, a.Slot())

	if course, ok := e.catalog.Course(a.CourseOfferingID); ok {
		course.RestoreHour(a.HourType)
	}
	return nil
}

// Assignments returns a deterministic grid-ordered copy of the assignment set.
func (e *Engine) Assignments() []models.Assignment {
	out := make([]models.Assignment, 0, len(e.assignments))
	for _, a := range e.assignments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return dayIndex(out[i].Day) < dayIndex(out[j].Day)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Courses returns offering copies reflecting current remaining counters.
func (e *Engine) Courses() []models.CourseOffering {
	return e.catalog.Courses()
}

// Instructors returns the current ledger state.
func (e *Engine) Instructors() []models.Instructor {
	return e.ledger.Instructors()
}

// StaffedInstructors returns the instructors staffed to this section.
func (e *Engine) StaffedInstructors() []models.Instructor {
	all := e.ledger.Instructors()
	out := make([]models.Instructor, 0, len(e.staffed))
	for _, inst := range all {
		if _, ok := e.staffed[inst.ID]; ok {
			out = append(out, inst)
		}
	}
	return out
}

func dayIndex(day string) int {
	for i, d := range models.WeekDays {
		if d == day {
			return i
		}
	}
	return len(models.WeekDays)
}
