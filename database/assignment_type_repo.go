package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type AssignmentTypeRepo struct {
	db *gorm.DB
}

func NewAssignmentTypeRepo(db *gorm.DB) *AssignmentTypeRepo {
	return &AssignmentTypeRepo{db}
}

func (r *AssignmentTypeRepo) FindAll() ([]*models.YearAssignmentType, error) {
	var policies []*models.YearAssignmentType
	if err := r.db.Order("year").Find(&policies).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "assignment types", err)
	}
	return policies, nil
}

func (r *AssignmentTypeRepo) FindByID(id uuid.UUID) (*models.YearAssignmentType, error) {
	var policy models.YearAssignmentType
	err := r.db.First(&policy, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "assignment type", err)
	}
	return &policy, nil
}

func (r *AssignmentTypeRepo) FindByYear(year int) (*models.YearAssignmentType, error) {
	var policy models.YearAssignmentType
	err := r.db.Where("year = ?", year).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "assignment type", err)
	}
	return &policy, nil
}

func (r *AssignmentTypeRepo) Create(t *models.YearAssignmentType) error {
	if err := r.db.Create(t).Error; err != nil {
		return errs.NewDatabaseError("create", "assignment type", err)
	}
	return nil
}

func (r *AssignmentTypeRepo) Update(t *models.YearAssignmentType) error {
	if err := r.db.Save(t).Error; err != nil {
		return errs.NewDatabaseError("update", "assignment type", err)
	}
	return nil
}

func (r *AssignmentTypeRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.YearAssignmentType{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "assignment type", err)
	}
	return nil
}
