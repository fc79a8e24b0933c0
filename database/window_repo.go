package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// WindowRepo manages both window kinds. The gate queries are what the API
// middleware consults before letting mutating team/project calls through.
type WindowRepo struct {
	db *gorm.DB
}

func NewWindowRepo(db *gorm.DB) *WindowRepo {
	return &WindowRepo{db}
}

// IsCompositionOpen reports whether some team-composition window of the
// speciality covers the given instant.
func (r *WindowRepo) IsCompositionOpen(specialityID uuid.UUID, at time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamCompositionWindow{}).
		Where("speciality_id = ? AND start_date <= ? AND end_date >= ?", specialityID, at, at).
		Count(&count).Error
	if err != nil {
		return false, errs.NewDatabaseError("find", "composition window", err)
	}
	return count > 0, nil
}

// IsSelectionOpen reports whether some project-selection window of the
// speciality covers the given instant.
func (r *WindowRepo) IsSelectionOpen(specialityID uuid.UUID, at time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectSelectionWindow{}).
		Where("speciality_id = ? AND start_date <= ? AND end_date >= ?", specialityID, at, at).
		Count(&count).Error
	if err != nil {
		return false, errs.NewDatabaseError("find", "selection window", err)
	}
	return count > 0, nil
}

func (r *WindowRepo) FindCompositionWindows(specialityID *uuid.UUID) ([]*models.TeamCompositionWindow, error) {
	var windows []*models.TeamCompositionWindow
	q := r.db.Order("start_date")
	if specialityID != nil {
		q = q.Where("speciality_id = ?", *specialityID)
	}
	if err := q.Find(&windows).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "composition windows", err)
	}
	return windows, nil
}

func (r *WindowRepo) FindSelectionWindows(specialityID *uuid.UUID) ([]*models.ProjectSelectionWindow, error) {
	var windows []*models.ProjectSelectionWindow
	q := r.db.Order("start_date")
	if specialityID != nil {
		q = q.Where("speciality_id = ?", *specialityID)
	}
	if err := q.Find(&windows).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "selection windows", err)
	}
	return windows, nil
}

func (r *WindowRepo) CreateCompositionWindow(w *models.TeamCompositionWindow) error {
	if err := r.db.Create(w).Error; err != nil {
		return errs.NewDatabaseError("create", "composition window", err)
	}
	return nil
}

func (r *WindowRepo) CreateSelectionWindow(w *models.ProjectSelectionWindow) error {
	if err := r.db.Create(w).Error; err != nil {
		return errs.NewDatabaseError("create", "selection window", err)
	}
	return nil
}

func (r *WindowRepo) FindCompositionWindowByID(id uuid.UUID) (*models.TeamCompositionWindow, error) {
	var w models.TeamCompositionWindow
	err := r.db.First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "composition window", err)
	}
	return &w, nil
}

func (r *WindowRepo) FindSelectionWindowByID(id uuid.UUID) (*models.ProjectSelectionWindow, error) {
	var w models.ProjectSelectionWindow
	err := r.db.First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "selection window", err)
	}
	return &w, nil
}

func (r *WindowRepo) UpdateCompositionWindow(w *models.TeamCompositionWindow) error {
	if err := r.db.Save(w).Error; err != nil {
		return errs.NewDatabaseError("update", "composition window", err)
	}
	return nil
}

func (r *WindowRepo) UpdateSelectionWindow(w *models.ProjectSelectionWindow) error {
	if err := r.db.Save(w).Error; err != nil {
		return errs.NewDatabaseError("update", "selection window", err)
	}
	return nil
}

func (r *WindowRepo) DeleteCompositionWindow(id uuid.UUID) error {
	if err := r.db.Delete(&models.TeamCompositionWindow{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "composition window", err)
	}
	return nil
}

func (r *WindowRepo) DeleteSelectionWindow(id uuid.UUID) error {
	if err := r.db.Delete(&models.ProjectSelectionWindow{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "selection window", err)
	}
	return nil
}
