package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is a confirmed Student↔TeamOffer membership. The unique index
// on StudentID is the hard backstop for the one-team-per-student invariant.
type TeamMember struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TeamOfferID uuid.UUID `json:"teamOfferId" db:"team_offer_id" gorm:"type:uuid;not null"`
	StudentID   uuid.UUID `json:"studentId" db:"student_id" gorm:"type:uuid;not null;unique"`
	JoinedAt    time.Time `json:"joinedAt" db:"joined_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Student     *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
