package models

import (
	"time"

	"github.com/google/uuid"
)

// SprintStatus tracks a sprint through its lifecycle.
type SprintStatus string

const (
	SprintPlanned    SprintStatus = "planned"
	SprintInProgress SprintStatus = "inProgress"
	SprintCompleted  SprintStatus = "completed"
)

// Sprint is a work iteration scoped to an assigned (project, team) pair.
type Sprint struct {
	ID             uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectOfferID uuid.UUID     `json:"projectOfferId" db:"project_offer_id" gorm:"type:uuid;not null"`
	TeamOfferID    uuid.UUID     `json:"teamOfferId" db:"team_offer_id" gorm:"type:uuid;not null"`
	Title          string        `json:"title" db:"title" gorm:"type:text;not null"`
	Description    string        `json:"description,omitempty" db:"description" gorm:"type:text"`
	StartDate      *time.Time    `json:"startDate,omitempty" db:"start_date" gorm:"type:timestamp"`
	EndDate        *time.Time    `json:"endDate,omitempty" db:"end_date" gorm:"type:timestamp"`
	Status         SprintStatus  `json:"status" db:"status" gorm:"type:text;not null;default:planned"`
	Team           *TeamOffer    `json:"team,omitempty" gorm:"foreignKey:TeamOfferID;references:ID"`
	Project        *ProjectOffer `json:"project,omitempty" gorm:"foreignKey:ProjectOfferID;references:ID"`
	Deliverables   []Deliverable `json:"deliverables,omitempty" gorm:"foreignKey:SprintID;references:ID;constraint:OnDelete:CASCADE"`
	Notes          []Note        `json:"notes,omitempty" gorm:"foreignKey:SprintID;references:ID;constraint:OnDelete:CASCADE"`
}
