package models

import "time"

// DraftScheduleStatus captures the cross-program lifecycle of a draft.
type DraftScheduleStatus string

const (
	DraftStatusDraft           DraftScheduleStatus = "draft"
	DraftStatusPendingExternal DraftScheduleStatus = "pending_external"
	DraftStatusFinalized       DraftScheduleStatus = "finalized"
)

// ShareRequestStatus is monotonic: pending → in_progress → completed.
type ShareRequestStatus string

const (
	ShareStatusPending    ShareRequestStatus = "pending"
	ShareStatusInProgress ShareRequestStatus = "in_progress"
	ShareStatusCompleted  ShareRequestStatus = "completed"
)

// DraftSchedule is a named, versioned bundle of courses and assignments for
// one (term, batch, section) tuple, owned by the program that created it.
type DraftSchedule struct {
	ID                 string              `json:"id"`
	TermID             string              `json:"term_id"`
	BatchID            string              `json:"batch_id"`
	SectionID          string              `json:"section_id"`
	CreatedBy          string              `json:"created_by"`
	CreatedByProgramID string              `json:"created_by_program_id"`
	Status             DraftScheduleStatus `json:"status"`
	Courses            []CourseOffering    `json:"courses"`
	Assignments        []Assignment        `json:"assignments"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ScheduleShareRequest delegates staffing and scheduling of specific courses
// from a source program to the program that owns them. DraftAssignments
// reflects the target program's latest in-progress edits at all times so the
// source program has live visibility before completion.
type ScheduleShareRequest struct {
	ID                      string             `json:"id"`
	DraftScheduleID         string             `json:"draft_schedule_id"`
	SourceProgramID         string             `json:"source_program_id"`
	SourceProgramName       string             `json:"source_program_name"`
	TargetProgramID         string             `json:"target_program_id"`
	TargetProgramName       string             `json:"target_program_name"`
	CourseOfferingIDs       []string           `json:"course_offering_ids"`
	Courses                 []CourseOffering   `json:"courses"`
	Status                  ShareRequestStatus `json:"status"`
	RequestedDay            string             `json:"requested_day,omitempty"`
	RequestedTime           string             `json:"requested_time,omitempty"`
	DraftAssignments        []Assignment       `json:"draft_assignments"`
	AllDraftCourses         []CourseOffering   `json:"all_draft_courses"`
	AssignedInstructorID    string             `json:"assigned_instructor_id,omitempty"`
	AssignedInstructorName  string             `json:"assigned_instructor_name,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// Requests references a course id when it was part of the share.
func (r *ScheduleShareRequest) Requests(courseID string) bool {
	for _, id := range r.CourseOfferingIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
