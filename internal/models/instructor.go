package models

// Instructor is a staff member with a teaching-load ledger entry.
// RemainingLoad is the unused teaching-hour capacity for the term and is
// never negative.
type Instructor struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	ProgramID     string `db:"program_id" json:"program_id"`
	RemainingLoad int    `db:"remaining_load" json:"remaining_load"`
}

// LabAssistant supports lab hour placements.
type LabAssistant struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Qualification links a course code to an instructor allowed to teach it.
type Qualification struct {
	CourseCode   string `db:"course_code" json:"course_code"`
	InstructorID string `db:"instructor_id" json:"instructor_id"`
}

// QualificationMap keys qualified instructor ids by course code.
type QualificationMap map[string][]string

// IsQualified reports whether the instructor may teach the course.
func (m QualificationMap) IsQualified(courseCode, instructorID string) bool {
	for _, id := range m[courseCode] {
		if id == instructorID {
			return true
		}
	}
	return false
}
