package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Student is the student profile behind a User account. IsLeader and
// IsInTeam are denormalized mirrors of TeamOffer/TeamMember rows and are
// only ever written in the same transaction as those rows.
type Student struct {
	ID           uuid.UUID                  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID       uuid.UUID                  `json:"userId" db:"user_id" gorm:"type:uuid;not null;unique"`
	SpecialityID uuid.UUID                  `json:"specialityId" db:"speciality_id" gorm:"type:uuid;not null"`
	Year         int                        `json:"year" db:"year" gorm:"type:integer;not null"`
	IsLeader     bool                       `json:"isLeader" db:"is_leader" gorm:"not null;default:false"`
	IsInTeam     bool                       `json:"isInTeam" db:"is_in_team" gorm:"not null;default:false"`
	CustomSkills datatypes.JSONSlice[string] `json:"customSkills,omitempty" db:"custom_skills"`
	User         *User                      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Speciality   *Speciality                `json:"speciality,omitempty" gorm:"foreignKey:SpecialityID;references:ID"`
	Skills       []Skill                    `json:"skills,omitempty" gorm:"many2many:student_skills"`
}
