package engine

import (
	"encoding/json"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

// Intent is the decoded form of a drag payload: either a new placement or a
// move of an existing assignment. Decoding happens exactly once at the
// engine boundary; downstream code never inspects raw payload fields.
type Intent interface {
	intent()
}

// NewPlacement schedules one hour-unit of a course into an empty slot.
type NewPlacement struct {
	CourseID       string
	HourType       models.HourType
	InstructorID   string
	LabAssistantID string
}

// MoveIntent relocates an existing assignment to another slot.
type MoveIntent struct {
	AssignmentID string
}

func (NewPlacement) intent() {}
func (MoveIntent) intent()   {}

type dropPayload struct {
	CourseID       string          `json:"course_id"`
	AssignmentID   string          `json:"assignment_id"`
	HourType       models.HourType `json:"hour_type"`
	InstructorID   string          `json:"instructor_id"`
	LabAssistantID string          `json:"lab_assistant_id"`
	IsMove         bool            `json:"is_move"`
}

// DecodeDropPayload parses a raw drag payload into a tagged Intent.
func DecodeDropPayload(raw []byte) (Intent, error) {
	var payload dropPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed drop payload")
	}

	if payload.IsMove {
		if payload.AssignmentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "move payload requires an assignment id")
		}
		return MoveIntent{AssignmentID: payload.AssignmentID}, nil
	}

	if payload.CourseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "placement payload requires a course id")
	}
	if !payload.HourType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown hour type")
	}
	return NewPlacement{
		CourseID:       payload.CourseID,
		HourType:       payload.HourType,
		InstructorID:   payload.InstructorID,
		LabAssistantID: payload.LabAssistantID,
	}, nil
}
