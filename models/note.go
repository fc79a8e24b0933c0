package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a free-form comment on a sprint, written by any user involved in
// the project. Only the sender may delete it.
type Note struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SprintID     uuid.UUID `json:"sprintId" db:"sprint_id" gorm:"type:uuid;not null"`
	SenderUserID uuid.UUID `json:"senderUserId" db:"sender_user_id" gorm:"type:uuid;not null"`
	Content      string    `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Sender       *User     `json:"sender,omitempty" gorm:"foreignKey:SenderUserID;references:ID"`
}
