package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is shared by team applications and project applications.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
	ApplicationCanceled ApplicationStatus = "canceled"
)

// Valid reports whether s is one of the four known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationCanceled:
		return true
	}
	return false
}

// TeamApplication is a student's request to join a team offer. At most one
// row exists per (student, offer) pair; a canceled row is revived on
// re-apply instead of inserting a duplicate.
type TeamApplication struct {
	ID          uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TeamOfferID uuid.UUID         `json:"teamOfferId" db:"team_offer_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_app_pair"`
	StudentID   uuid.UUID         `json:"studentId" db:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_app_pair"`
	Message     string            `json:"message,omitempty" db:"message" gorm:"type:text"`
	Status      ApplicationStatus `json:"status" db:"status" gorm:"type:text;not null;default:pending"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Student     *Student          `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	TeamOffer   *TeamOffer        `json:"teamOffer,omitempty" gorm:"foreignKey:TeamOfferID;references:ID"`
}
