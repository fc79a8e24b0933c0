package models

import "github.com/google/uuid"

// Role discriminates the three account kinds the platform serves.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User holds the identity surface shared by students, teachers and admins.
// Authentication happens upstream; the backend only reads these rows.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;unique"`
	FirstName string    `json:"firstName" db:"first_name" gorm:"type:text;not null"`
	LastName  string    `json:"lastName" db:"last_name" gorm:"type:text;not null"`
	Role      Role      `json:"role" db:"role" gorm:"type:text;not null"`
}
