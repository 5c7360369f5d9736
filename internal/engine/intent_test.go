package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/models"
	appErrors "github.com/Orel-y/U-Schedule/pkg/errors"
)

func TestDecodeDropPayloadPlacement(t *testing.T) {
	raw := []byte(`{"course_id":"co-1","hour_type":"lab","instructor_id":"t-1","lab_assistant_id":"la-1"}`)

	intent, err := DecodeDropPayload(raw)
	require.NoError(t, err)

	placement, ok := intent.(NewPlacement)
	require.True(t, ok)
	assert.Equal(t, "co-1", placement.CourseID)
	assert.Equal(t, models.HourLab, placement.HourType)
	assert.Equal(t, "t-1", placement.InstructorID)
	assert.Equal(t, "la-1", placement.LabAssistantID)
}

func TestDecodeDropPayloadMove(t *testing.T) {
	raw := []byte(`{"assignment_id":"a-1","is_move":true}`)

	intent, err := DecodeDropPayload(raw)
	require.NoError(t, err)

	move, ok := intent.(MoveIntent)
	require.True(t, ok)
	assert.Equal(t, "a-1", move.AssignmentID)
}

func TestDecodeDropPayloadMoveIgnoresPlacementFields(t *testing.T) {
	raw := []byte(`{"assignment_id":"a-1","is_move":true,"course_id":"co-1","hour_type":"bogus"}`)

	intent, err := DecodeDropPayload(raw)
	require.NoError(t, err)
	_, ok := intent.(MoveIntent)
	assert.True(t, ok)
}

func TestDecodeDropPayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{`},
		{"move without assignment id", `{"is_move":true}`},
		{"placement without course id", `{"hour_type":"lecture"}`},
		{"unknown hour type", `{"course_id":"co-1","hour_type":"seminar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDropPayload([]byte(tt.raw))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestApplyDispatchesByIntent(t *testing.T) {
	e := newTestEngine()

	intent, err := DecodeDropPayload([]byte(`{"course_id":"co-1","hour_type":"lecture","instructor_id":"t-1"}`))
	require.NoError(t, err)
	placed, err := e.Apply("Monday", "09:00", intent)
	require.NoError(t, err)

	intent, err = DecodeDropPayload([]byte(`{"assignment_id":"` + placed.ID + `","is_move":true}`))
	require.NoError(t, err)
	moved, err := e.Apply("Wednesday", "11:00", intent)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, moved.ID)
	assert.Equal(t, "Wednesday", moved.Day)
}
