package models

import "github.com/google/uuid"

// Speciality is an academic track scoped to a year (1..5).
type Speciality struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null"`
	Year int       `json:"year" db:"year" gorm:"type:integer;not null"`
}

const (
	// MinSpecialityYear and MaxSpecialityYear bound the academic years the
	// platform recognizes.
	MinSpecialityYear = 1
	MaxSpecialityYear = 5
)
