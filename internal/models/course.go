package models

// HourType is a category of contact-hour requirement for a course.
type HourType string

const (
	HourLecture  HourType = "lecture"
	HourLab      HourType = "lab"
	HourTutorial HourType = "tutorial"
	HourField    HourType = "field"
)

// Valid reports whether t is one of the known hour types.
func (t HourType) Valid() bool {
	switch t {
	case HourLecture, HourLab, HourTutorial, HourField:
		return true
	}
	return false
}

// CourseOffering is one teachable unit of a curriculum course within a
// section/term. Base hour requirements are fixed at catalog load; remaining
// counters decrease on placement and are restored on removal, never below
// zero and never above base.
type CourseOffering struct {
	ID          string `db:"id" json:"id"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	CreditHours int    `db:"credit_hours" json:"credit_hours"`

	// Which program staffs this course.
	OwningProgramID   string `db:"owning_program_id" json:"owning_program_id"`
	OwningProgramCode string `db:"owning_program_code" json:"owning_program_code,omitempty"`

	LectureHours  int `db:"lecture_hours" json:"lecture_hours"`
	LabHours      int `db:"lab_hours" json:"lab_hours"`
	TutorialHours int `db:"tutorial_hours" json:"tutorial_hours"`
	FieldHours    int `db:"field_hours" json:"field_hours"`

	RemainingLecture  int `db:"remaining_lecture" json:"remaining_lecture"`
	RemainingLab      int `db:"remaining_lab" json:"remaining_lab"`
	RemainingTutorial int `db:"remaining_tutorial" json:"remaining_tutorial"`
	RemainingField    int `db:"remaining_field" json:"remaining_field"`

	InstructorID   string `db:"instructor_id" json:"instructor_id"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
	LabAssistantID string `db:"lab_assistant_id" json:"lab_assistant_id,omitempty"`
	IsAssigned     bool   `db:"is_assigned" json:"is_assigned"`
}

// TotalLoad is the full teaching load the course places on its instructor.
func (c *CourseOffering) TotalLoad() int {
	return c.LectureHours + c.LabHours + c.TutorialHours + c.FieldHours
}

// BaseHours returns the curriculum requirement for the hour type.
func (c *CourseOffering) BaseHours(t HourType) int {
	switch t {
	case HourLecture:
		return c.LectureHours
	case HourLab:
		return c.LabHours
	case HourTutorial:
		return c.TutorialHours
	case HourField:
		return c.FieldHours
	}
	return 0
}

// Remaining returns the unplaced hour-units for the hour type.
func (c *CourseOffering) Remaining(t HourType) int {
	switch t {
	case HourLecture:
		return c.RemainingLecture
	case HourLab:
		return c.RemainingLab
	case HourTutorial:
		return c.RemainingTutorial
	case HourField:
		return c.RemainingField
	}
	return 0
}

// ConsumeHour decrements the remaining counter for the hour type, clamped
// at zero.
func (c *CourseOffering) ConsumeHour(t HourType) {
	switch t {
	case HourLecture:
		if c.RemainingLecture > 0 {
			c.RemainingLecture--
		}
	case HourLab:
		if c.RemainingLab > 0 {
			c.RemainingLab--
		}
	case HourTutorial:
		if c.RemainingTutorial > 0 {
			c.RemainingTutorial--
		}
	case HourField:
		if c.RemainingField > 0 {
			c.RemainingField--
		}
	}
}

// RestoreHour credits one hour-unit back, clamped at the base requirement.
func (c *CourseOffering) RestoreHour(t HourType) {
	switch t {
	case HourLecture:
		if c.RemainingLecture < c.LectureHours {
			c.RemainingLecture++
		}
	case HourLab:
		if c.RemainingLab < c.LabHours {
			c.RemainingLab++
		}
	case HourTutorial:
		if c.RemainingTutorial < c.TutorialHours {
			c.RemainingTutorial++
		}
	case HourField:
		if c.RemainingField < c.FieldHours {
			c.RemainingField++
		}
	}
}
