package models

import (
	"time"

	"github.com/google/uuid"
)

// Deliverable is a file a student submits against a sprint. FileURL and
// FilePublicID are references returned by the storage adapter.
type Deliverable struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SprintID     uuid.UUID `json:"sprintId" db:"sprint_id" gorm:"type:uuid;not null"`
	StudentID    uuid.UUID `json:"studentId" db:"student_id" gorm:"type:uuid;not null"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string    `json:"description,omitempty" db:"description" gorm:"type:text"`
	FileURL      string    `json:"fileUrl,omitempty" db:"file_url" gorm:"type:text"`
	FilePublicID string    `json:"filePublicId,omitempty" db:"file_public_id" gorm:"type:text"`
	SubmittedAt  time.Time `json:"submittedAt" db:"submitted_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Student      *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
