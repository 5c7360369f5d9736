package models

// Campus is a physical university campus.
type Campus struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// AcademicProgram owns course offerings and staffs them with its instructors.
type AcademicProgram struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Code     string `db:"code" json:"code"`
	CampusID string `db:"campus_id" json:"campus_id"`
}

// Batch identifies a student intake cohort by its entry year, program type
// and admission type. The triple resolves to exactly one batch id.
type Batch struct {
	ID                string `db:"id" json:"id"`
	EntryYear         int    `db:"entry_year" json:"entry_year"`
	AcademicProgramID string `db:"academic_program_id" json:"academic_program_id"`
	ProgramType       string `db:"program_type" json:"program_type"`
	AdmissionType     string `db:"admission_type" json:"admission_type"`
	BatchType         string `db:"batch_type" json:"batch_type"`
	Active            bool   `db:"active" json:"is_active"`
}

// AcademicYearOption is a selectable year/semester cell such as
// "year1semester1".
type AcademicYearOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Section is a cohort of students taking a fixed set of course offerings
// in a given term.
type Section struct {
	ID                string `db:"id" json:"id"`
	Name              string `db:"name" json:"name"`
	AcademicProgramID string `db:"academic_program_id" json:"academic_program_id"`
	AcademicYear      string `db:"academic_year" json:"academic_year"`
	StudentCount      int    `db:"student_count" json:"student_count"`
}
