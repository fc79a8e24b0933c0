package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamCompositionWindow bounds when students of a speciality may form and
// join teams. A speciality with no window covering "now" is closed.
type TeamCompositionWindow struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SpecialityID uuid.UUID `json:"specialityId" db:"speciality_id" gorm:"type:uuid;not null"`
	StartDate    time.Time `json:"startDate" db:"start_date" gorm:"type:timestamp;not null"`
	EndDate      time.Time `json:"endDate" db:"end_date" gorm:"type:timestamp;not null"`
}

// ProjectSelectionWindow bounds when teams of a speciality may apply to
// project offers.
type ProjectSelectionWindow struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SpecialityID uuid.UUID `json:"specialityId" db:"speciality_id" gorm:"type:uuid;not null"`
	StartDate    time.Time `json:"startDate" db:"start_date" gorm:"type:timestamp;not null"`
	EndDate      time.Time `json:"endDate" db:"end_date" gorm:"type:timestamp;not null"`
}

// Covers reports whether the window is active at t.
func (w TeamCompositionWindow) Covers(t time.Time) bool {
	return !t.Before(w.StartDate) && !t.After(w.EndDate)
}

// Covers reports whether the window is active at t.
func (w ProjectSelectionWindow) Covers(t time.Time) bool {
	return !t.Before(w.StartDate) && !t.After(w.EndDate)
}
