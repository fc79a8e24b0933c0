package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectOffer is a teacher's proposed capstone project. AssignmentType is
// copied from the year's policy at creation time so later policy edits only
// touch offers explicitly repropagated by the admin.
type ProjectOffer struct {
	ID             uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TeacherID      uuid.UUID                   `json:"teacherId" db:"teacher_id" gorm:"type:uuid;not null"`
	Title          string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description    string                      `json:"description" db:"description" gorm:"type:text;not null"`
	Tools          datatypes.JSONSlice[string] `json:"tools,omitempty" db:"tools"`
	Languages      datatypes.JSONSlice[string] `json:"languages,omitempty" db:"languages"`
	MaxTeams       int                         `json:"maxTeams" db:"max_teams" gorm:"type:integer;not null"`
	AssignmentType AssignmentType              `json:"assignmentType" db:"assignment_type" gorm:"type:text;not null"`
	Status         OfferStatus                 `json:"status" db:"status" gorm:"type:text;not null;default:open"`
	Year           int                         `json:"year" db:"year" gorm:"type:integer;not null"`
	FileURL        *string                     `json:"fileUrl,omitempty" db:"file_url" gorm:"type:text"`
	FilePublicID   *string                     `json:"filePublicId,omitempty" db:"file_public_id" gorm:"type:text"`
	CreatedAt      time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Teacher        *Teacher                    `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
	Specialities   []Speciality                `json:"specialities,omitempty" gorm:"many2many:project_offer_specialities"`
	CoSupervisors  []Teacher                   `json:"coSupervisors,omitempty" gorm:"many2many:project_offer_co_supervisors"`
	AssignedTeams  []TeamOffer                 `json:"assignedTeams,omitempty" gorm:"foreignKey:AssignedProjectID;references:ID"`
}
