package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OfferStatus is shared by team offers and project offers.
type OfferStatus string

const (
	OfferOpen   OfferStatus = "open"
	OfferClosed OfferStatus = "closed"
)

const (
	MinTeamMembers = 1
	MaxTeamMembers = 7
)

// TeamOffer is an open team seeking members, created and owned by exactly
// one leader. AssignedProjectID is set once a project offer takes the team.
type TeamOffer struct {
	ID                uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	LeaderID          uuid.UUID                   `json:"leaderId" db:"leader_id" gorm:"type:uuid;not null;unique"`
	Title             string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description       string                      `json:"description" db:"description" gorm:"type:text;not null"`
	MaxMembers        int                         `json:"maxMembers" db:"max_members" gorm:"type:integer;not null"`
	SpecialityID      uuid.UUID                   `json:"specialityId" db:"speciality_id" gorm:"type:uuid;not null"`
	Year              int                         `json:"year" db:"year" gorm:"type:integer;not null"`
	Status            OfferStatus                 `json:"status" db:"status" gorm:"type:text;not null;default:open"`
	AssignedProjectID *uuid.UUID                  `json:"assignedProjectId,omitempty" db:"assigned_project_id" gorm:"type:uuid"`
	SpecificSkills    datatypes.JSONSlice[string] `json:"specificSkills,omitempty" db:"specific_skills"`
	CreatedAt         time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Leader            *Student                    `json:"leader,omitempty" gorm:"foreignKey:LeaderID;references:ID"`
	GeneralSkills     []Skill                     `json:"generalSkills,omitempty" gorm:"many2many:team_offer_skills"`
	Members           []TeamMember                `json:"members,omitempty" gorm:"foreignKey:TeamOfferID;references:ID;constraint:OnDelete:CASCADE"`
}
