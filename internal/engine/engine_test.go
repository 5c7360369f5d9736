package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

func testOfferings() []models.CourseOffering {
	return []models.CourseOffering{
		{
			ID: "co-1", CourseCode: "SE101", CourseTitle: "Intro to SE", CreditHours: 3,
			OwningProgramID: "prog-1", OwningProgramCode: "SE",
			LectureHours: 3, LabHours: 2, TutorialHours: 1, FieldHours: 0,
			RemainingLecture: 3, RemainingLab: 2, RemainingTutorial: 1, RemainingField: 0,
		},
		{
			ID: "co-2", CourseCode: "MATH101", CourseTitle: "Calculus I", CreditHours: 4,
			OwningProgramID: "prog-2", OwningProgramCode: "CS",
			LectureHours: 4, TutorialHours: 2,
			RemainingLecture: 4, RemainingTutorial: 2,
		},
	}
}

func testInstructors() []models.Instructor {
	return []models.Instructor{
		{ID: "t-1", Name: "Dr. Abebe", ProgramID: "prog-1", RemainingLoad: 18},
		{ID: "t-2", Name: "Prof. Martha", ProgramID: "prog-1", RemainingLoad: 21},
		{ID: "t-3", Name: "Dr. Solomon", ProgramID: "prog-1", RemainingLoad: 4},
	}
}

func testQualifications() models.QualificationMap {
	return models.QualificationMap{
		"SE101":   {"t-1", "t-2", "t-3"},
		"MATH101": {"t-2"},
	}
}

func newTestEngine() *Engine {
	catalog := NewCatalog(testOfferings(), testQualifications(), []models.LabAssistant{{ID: "la-1", Name: "Aschalew"}})
	ledger := NewLedger(testInstructors())
	return New("sec-1", catalog, ledger)
}

func findInstructor(t *testing.T, e *Engine, id string) models.Instructor {
	t.Helper()
	for _, inst := range e.Instructors() {
		if inst.ID == id {
			return inst
		}
	}
	t.Fatalf("instructor %s not in ledger", id)
	return models.Instructor{}
}

func findCourse(t *testing.T, e *Engine, id string) models.CourseOffering {
	t.Helper()
	for _, c := range e.Courses() {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("course %s not in catalog", id)
	return models.CourseOffering{}
}

func TestAssignInstructorDebitsLoad(t *testing.T) {
	e := newTestEngine()

	course, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)
	assert.True(t, course.IsAssigned)
	assert.Equal(t, "Dr. Abebe", course.InstructorName)

	// SE101 total load is 3+2+1 = 6.
	assert.Equal(t, 12, findInstructor(t, e, "t-1").RemainingLoad)
}

func TestAssignInstructorUnqualified(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-2", "t-1", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrQualification.Code, appErrors.FromError(err).Code)

	// Rejection leaves both sides unchanged.
	assert.Equal(t, 18, findInstructor(t, e, "t-1").RemainingLoad)
	assert.False(t, findCourse(t, e, "co-2").IsAssigned)
}

func TestAssignInstructorInsufficientLoad(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-1", "t-3", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacity.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 4, findInstructor(t, e, "t-3").RemainingLoad)
}

func TestAssignInstructorSameHolderIsNoop(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)
	before := findInstructor(t, e, "t-1").RemainingLoad

	_, err = e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)
	assert.Equal(t, before, findInstructor(t, e, "t-1").RemainingLoad)
}

func TestAssignInstructorReplacementRestoresLoad(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)
	_, err = e.AssignInstructor("co-1", "t-2", "")
	require.NoError(t, err)

	assert.Equal(t, 18, findInstructor(t, e, "t-1").RemainingLoad)
	assert.Equal(t, 15, findInstructor(t, e, "t-2").RemainingLoad)
	assert.Equal(t, "t-2", findCourse(t, e, "co-1").InstructorID)
}

func TestAssignInstructorUnassignKeepsLoadRestored(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)

	course, err := e.AssignInstructor("co-1", "", "")
	require.NoError(t, err)
	assert.False(t, course.IsAssigned)
	assert.Equal(t, 18, findInstructor(t, e, "t-1").RemainingLoad)
}

func TestPlaceAssignment(t *testing.T) {
	e := newTestEngine()
	_, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)

	a, err := e.Place("Monday", "09:00", NewPlacement{
		CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sec-1", a.SectionID)
	assert.NotEmpty(t, a.ID)

	assert.Equal(t, 2, findCourse(t, e, "co-1").RemainingLecture)
	assert.Equal(t, 12, findInstructor(t, e, "t-1").RemainingLoad)
}

func TestPlaceResolvesInstructorNameFromLedger(t *testing.T) {
	e := newTestEngine()

	// No prior staffing on co-2, so the course carries no instructor name.
	a, err := e.Place("Monday", "09:00", NewPlacement{
		CourseID: "co-2", HourType: models.HourLecture, InstructorID: "t-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-2", a.InstructorID)
	assert.Equal(t, "Prof. Martha", a.InstructorName)
}

func TestPlaceRequiresInstructor(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInstructorRequired.Code, appErrors.FromError(err).Code)
	assert.Empty(t, e.Assignments())
}

func TestPlaceLabRequiresLabAssistant(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place("Monday", "09:00", NewPlacement{
		CourseID: "co-1", HourType: models.HourLab, InstructorID: "t-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLabAssistantRequired.Code, appErrors.FromError(err).Code)

	a, err := e.Place("Monday", "09:00", NewPlacement{
		CourseID: "co-1", HourType: models.HourLab, InstructorID: "t-1", LabAssistantID: "la-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "la-1", a.LabAssistantID)
}

func TestPlaceSlotOccupied(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)

	_, err = e.Place("Monday", "09:00", NewPlacement{CourseID: "co-2", HourType: models.HourLecture, InstructorID: "t-2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotOccupied.Code, appErrors.FromError(err).Code)

	// State unchanged for the rejected course.
	assert.Equal(t, 4, findCourse(t, e, "co-2").RemainingLecture)
	assert.Len(t, e.Assignments(), 1)
}

func TestPlaceHoursExhausted(t *testing.T) {
	e := newTestEngine()

	// SE101 carries a single tutorial hour.
	_, err := e.Place("Monday", "08:00", NewPlacement{CourseID: "co-1", HourType: models.HourTutorial, InstructorID: "t-1"})
	require.NoError(t, err)

	_, err = e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourTutorial, InstructorID: "t-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrHoursExhausted.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, findCourse(t, e, "co-1").RemainingTutorial)
}

func TestMoveAssignment(t *testing.T) {
	e := newTestEngine()

	a, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)

	moved, err := e.Move(a.ID, "Tuesday", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", moved.Day)
	assert.Equal(t, "10:00", moved.StartTime)

	// Counters are untouched by a move.
	assert.Equal(t, 2, findCourse(t, e, "co-1").RemainingLecture)

	// The vacated slot is usable again.
	_, err = e.Place("Monday", "09:00", NewPlacement{CourseID: "co-2", HourType: models.HourLecture, InstructorID: "t-2"})
	require.NoError(t, err)
}

func TestMoveToSameSlotIsNoop(t *testing.T) {
	e := newTestEngine()

	a, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)

	moved, err := e.Move(a.ID, "Monday", "09:00")
	require.NoError(t, err)
	assert.Equal(t, a.ID, moved.ID)
	assert.Len(t, e.Assignments(), 1)
}

func TestMoveToOccupiedSlot(t *testing.T) {
	e := newTestEngine()

	a, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)
	_, err = e.Place("Tuesday", "10:00", NewPlacement{CourseID: "co-2", HourType: models.HourLecture, InstructorID: "t-2"})
	require.NoError(t, err)

	_, err = e.Move(a.ID, "Tuesday", "10:00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotOccupied.Code, appErrors.FromError(err).Code)

	// The rejected move left the assignment where it was.
	assignments := e.Assignments()
	require.Len(t, assignments, 2)
	assert.Equal(t, "Monday", assignments[0].Day)
}

func TestMoveUnknownAssignment(t *testing.T) {
	e := newTestEngine()

	_, err := e.Move("missing", "Monday", "09:00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRemoveRestoresHours(t *testing.T) {
	e := newTestEngine()

	a, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, findCourse(t, e, "co-1").RemainingLecture)

	require.NoError(t, e.Remove(a.ID))
	assert.Equal(t, 3, findCourse(t, e, "co-1").RemainingLecture)
	assert.Empty(t, e.Assignments())

	// Round-trip: the slot is free again.
	_, err = e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Remove("missing"))
}

func TestHoursInvariantAcrossOperations(t *testing.T) {
	e := newTestEngine()

	placed := make([]string, 0, 3)
	for _, slot := range []string{"08:00", "09:00", "10:00"} {
		a, err := e.Place("Monday", slot, NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
		require.NoError(t, err)
		placed = append(placed, a.ID)
	}

	course := findCourse(t, e, "co-1")
	assert.Equal(t, 0, course.RemainingLecture)
	assert.Equal(t, course.LectureHours-course.RemainingLecture, len(placed))

	require.NoError(t, e.Remove(placed[1]))
	course = findCourse(t, e, "co-1")
	assert.Equal(t, 1, course.RemainingLecture)
	assert.Len(t, e.Assignments(), 2)
}

func TestSlotExclusivityInvariant(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place("Monday", "09:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)
	a2, err := e.Place("Monday", "10:00", NewPlacement{CourseID: "co-1", HourType: models.HourLecture, InstructorID: "t-1"})
	require.NoError(t, err)
	_, err = e.Move(a2.ID, "Monday", "09:00")
	require.Error(t, err)

	seen := make(map[models.Slot]int)
	for _, a := range e.Assignments() {
		seen[a.Slot()]++
	}
	for slot, n := range seen {
		assert.Equalf(t, 1, n, "slot %v holds %d assignments", slot, n)
	}
}

func TestStaffedInstructors(t *testing.T) {
	e := newTestEngine()

	_, err := e.AssignInstructor("co-1", "t-1", "")
	require.NoError(t, err)
	_, err = e.AssignInstructor("co-2", "t-2", "")
	require.NoError(t, err)

	staffed := e.StaffedInstructors()
	require.Len(t, staffed, 2)
	assert.Equal(t, "t-1", staffed[0].ID)
	assert.Equal(t, "t-2", staffed[1].ID)
}
