package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type StudentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) *StudentRepo {
	return &StudentRepo{db}
}

// FindByID returns the student with their account and skills preloaded,
// or nil when no such student exists.
func (r *StudentRepo) FindByID(id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := r.db.Preload("User").Preload("Skills").First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "student", err)
	}
	return &student, nil
}

func (r *StudentRepo) FindByUserID(userID uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := r.db.Preload("User").Preload("Speciality").Preload("Skills").
		Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "student", err)
	}
	return &student, nil
}

func (r *StudentRepo) SetTeamFlags(id uuid.UUID, isLeader, isInTeam bool) error {
	err := r.db.Model(&models.Student{}).Where("id = ?", id).
		Updates(map[string]any{"is_leader": isLeader, "is_in_team": isInTeam}).Error
	if err != nil {
		return errs.NewDatabaseError("update", "student", err)
	}
	return nil
}

func (r *StudentRepo) AppendCustomSkill(id uuid.UUID, skill string) error {
	var student models.Student
	if err := r.db.First(&student, id).Error; err != nil {
		return errs.NewDatabaseError("find", "student", err)
	}
	student.CustomSkills = append(student.CustomSkills, skill)
	if err := r.db.Model(&student).Update("custom_skills", student.CustomSkills).Error; err != nil {
		return errs.NewDatabaseError("update", "student", err)
	}
	return nil
}
