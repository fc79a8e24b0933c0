package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type DeliverableRepo struct {
	db *gorm.DB
}

func NewDeliverableRepo(db *gorm.DB) *DeliverableRepo {
	return &DeliverableRepo{db}
}

func (r *DeliverableRepo) FindBySprint(sprintID uuid.UUID) ([]*models.Deliverable, error) {
	var deliverables []*models.Deliverable
	err := r.db.Preload("Student.User").
		Where("sprint_id = ?", sprintID).
		Order("submitted_at DESC").Find(&deliverables).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "deliverables", err)
	}
	return deliverables, nil
}

func (r *DeliverableRepo) FindByID(id uuid.UUID) (*models.Deliverable, error) {
	var deliverable models.Deliverable
	err := r.db.First(&deliverable, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "deliverable", err)
	}
	return &deliverable, nil
}

func (r *DeliverableRepo) Create(deliverable *models.Deliverable) error {
	if err := r.db.Create(deliverable).Error; err != nil {
		return errs.NewDatabaseError("create", "deliverable", err)
	}
	return nil
}

func (r *DeliverableRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Deliverable{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "deliverable", err)
	}
	return nil
}
