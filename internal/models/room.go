package models

// RoomType classifies rooms for homebase assignment; labs are excluded from
// the greedy matching.
type RoomType string

const (
	RoomClassroom RoomType = "classroom"
	RoomHall      RoomType = "hall"
	RoomLab       RoomType = "lab"
)

// Room is a physical room available for homebase assignment.
type Room struct {
	ID           string   `db:"id" json:"id"`
	BuildingID   string   `db:"building_id" json:"building_id"`
	BuildingName string   `db:"building_name" json:"building_name"`
	Name         string   `db:"name" json:"name"`
	Capacity     int      `db:"capacity" json:"capacity"`
	Floor        int      `db:"floor" json:"floor"`
	Type         RoomType `db:"type" json:"type"`
}

// HomebaseMapping pairs a section with its assigned room.
type HomebaseMapping struct {
	SectionID string `db:"section_id" json:"section_id"`
	RoomID    string `db:"room_id" json:"room_id"`
}

// HomebaseAssignment is the display join of a homebase mapping.
type HomebaseAssignment struct {
	ID                  string `db:"id" json:"id"`
	SectionName         string `db:"section_name" json:"section_name"`
	AcademicProgramName string `db:"academic_program_name" json:"academic_program_name"`
	StudentCount        int    `db:"student_count" json:"student_count"`
	RoomName            string `db:"room_name" json:"room_name"`
	BuildingName        string `db:"building_name" json:"building_name"`
	Floor               int    `db:"floor" json:"floor"`
}
