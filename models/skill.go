package models

import "github.com/google/uuid"

// Skill is a general skill maintained by admins. Students attach skills to
// their profile and team offers list them as requirements.
type Skill struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
}
