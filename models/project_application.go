package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectApplication is a team's request to work on a project offer. Only
// created under the teacherApproval policy; auto and amiability assign
// directly without an application row.
type ProjectApplication struct {
	ID             uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectOfferID uuid.UUID         `json:"projectOfferId" db:"project_offer_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_app_pair"`
	TeamOfferID    uuid.UUID         `json:"teamOfferId" db:"team_offer_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_app_pair"`
	Message        string            `json:"message,omitempty" db:"message" gorm:"type:text"`
	Status         ApplicationStatus `json:"status" db:"status" gorm:"type:text;not null;default:pending"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	ProjectOffer   *ProjectOffer     `json:"projectOffer,omitempty" gorm:"foreignKey:ProjectOfferID;references:ID"`
	TeamOffer      *TeamOffer        `json:"teamOffer,omitempty" gorm:"foreignKey:TeamOfferID;references:ID"`
}
