package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type SpecialityRepo struct {
	db *gorm.DB
}

func NewSpecialityRepo(db *gorm.DB) *SpecialityRepo {
	return &SpecialityRepo{db}
}

func (r *SpecialityRepo) FindAll() ([]*models.Speciality, error) {
	var specialities []*models.Speciality
	if err := r.db.Order("year, name").Find(&specialities).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "specialities", err)
	}
	return specialities, nil
}

func (r *SpecialityRepo) FindByID(id uuid.UUID) (*models.Speciality, error) {
	var speciality models.Speciality
	err := r.db.First(&speciality, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "speciality", err)
	}
	return &speciality, nil
}

func (r *SpecialityRepo) FindByIDs(ids []uuid.UUID) ([]models.Speciality, error) {
	var specialities []models.Speciality
	if err := r.db.Where("id IN ?", ids).Find(&specialities).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "specialities", err)
	}
	return specialities, nil
}

func (r *SpecialityRepo) IDsByYear(year int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Speciality{}).Where("year = ?", year).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "specialities", err)
	}
	return ids, nil
}

func (r *SpecialityRepo) Create(speciality *models.Speciality) error {
	if err := r.db.Create(speciality).Error; err != nil {
		return errs.NewDatabaseError("create", "speciality", err)
	}
	return nil
}

func (r *SpecialityRepo) Update(speciality *models.Speciality) error {
	if err := r.db.Save(speciality).Error; err != nil {
		return errs.NewDatabaseError("update", "speciality", err)
	}
	return nil
}

func (r *SpecialityRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Speciality{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "speciality", err)
	}
	return nil
}
