package models

// Assignment places one hour-unit of one (course, hour type) pair into
// exactly one (day, start time) cell of a section's weekly grid. At most one
// assignment may occupy a given cell.
type Assignment struct {
	ID               string   `db:"id" json:"id"`
	SectionID        string   `db:"section_id" json:"section_id"`
	CourseOfferingID string   `db:"course_offering_id" json:"course_offering_id"`
	HourType         HourType `db:"hour_type" json:"hour_type"`
	InstructorID     string   `db:"instructor_id" json:"instructor_id"`
	InstructorName   string   `db:"instructor_name" json:"instructor_name,omitempty"`
	LabAssistantID   string   `db:"lab_assistant_id" json:"lab_assistant_id,omitempty"`
	Day              string   `db:"day" json:"day"`
	StartTime        string   `db:"start_time" json:"start_time"`
	EndTime          string   `db:"end_time" json:"end_time"`
	RoomID           string   `db:"room_id" json:"room_id,omitempty"`
}

// Slot returns the grid cell occupied by the assignment.
func (a *Assignment) Slot() Slot {
	return Slot{Day: a.Day, StartTime: a.StartTime}
}

// Slot identifies one cell of the weekly day×time grid.
type Slot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
}

// WeekDays is the grid's day axis.
var WeekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// TimeSlots is the grid's time axis.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// NextTimeSlot returns the slot one hour after start, or "18:00" for the
// final slot of the grid.
func NextTimeSlot(start string) string {
	for i, slot := range TimeSlots {
		if slot == start {
			if i+1 < len(TimeSlots) {
				return TimeSlots[i+1]
			}
			return "18:00"
		}
	}
	return ""
}
