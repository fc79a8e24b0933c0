package models

import "github.com/google/uuid"

// AssignmentType selects how teams get attached to project offers created
// for a given year.
type AssignmentType string

const (
	// AssignmentAuto assigns a team immediately when it applies.
	AssignmentAuto AssignmentType = "auto"
	// AssignmentTeacherApproval routes applications through the owning
	// teacher for accept/reject.
	AssignmentTeacherApproval AssignmentType = "teacherApproval"
	// AssignmentAmiability lets the teacher pre-select teams at offer
	// creation; no application workflow afterwards.
	AssignmentAmiability AssignmentType = "amiability"
)

// Valid reports whether t is one of the three known modes.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentAuto, AssignmentTeacherApproval, AssignmentAmiability:
		return true
	}
	return false
}

// YearAssignmentType is the per-year policy record; project offers inherit
// the policy configured for their specialities' year at creation time.
type YearAssignmentType struct {
	ID             uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Year           int            `json:"year" db:"year" gorm:"type:integer;not null;unique"`
	AssignmentType AssignmentType `json:"assignmentType" db:"assignment_type" gorm:"type:text;not null"`
}
