package models

import "github.com/google/uuid"

// Teacher is the teacher profile behind a User account.
type Teacher struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID     uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null;unique"`
	Department string    `json:"department,omitempty" db:"department" gorm:"type:text"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
