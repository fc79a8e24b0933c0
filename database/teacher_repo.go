package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type TeacherRepo struct {
	db *gorm.DB
}

func NewTeacherRepo(db *gorm.DB) *TeacherRepo {
	return &TeacherRepo{db}
}

func (r *TeacherRepo) FindByID(id uuid.UUID) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.Preload("User").First(&teacher, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "teacher", err)
	}
	return &teacher, nil
}

func (r *TeacherRepo) FindByUserID(userID uuid.UUID) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.Preload("User").Where("user_id = ?", userID).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "teacher", err)
	}
	return &teacher, nil
}

func (r *TeacherRepo) FindAll() ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	if err := r.db.Preload("User").Find(&teachers).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "teachers", err)
	}
	return teachers, nil
}
