package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type SprintRepo struct {
	db *gorm.DB
}

func NewSprintRepo(db *gorm.DB) *SprintRepo {
	return &SprintRepo{db}
}

func (r *SprintRepo) FindByProjectAndTeam(projectID, teamID uuid.UUID) ([]*models.Sprint, error) {
	var sprints []*models.Sprint
	err := r.db.Preload("Deliverables").Preload("Notes.Sender").
		Where("project_offer_id = ? AND team_offer_id = ?", projectID, teamID).
		Order("start_date").Find(&sprints).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "sprints", err)
	}
	return sprints, nil
}

func (r *SprintRepo) FindByID(id uuid.UUID) (*models.Sprint, error) {
	var sprint models.Sprint
	err := r.db.Preload("Deliverables.Student.User").Preload("Notes.Sender").
		First(&sprint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "sprint", err)
	}
	return &sprint, nil
}

func (r *SprintRepo) Create(sprint *models.Sprint) error {
	if err := r.db.Create(sprint).Error; err != nil {
		return errs.NewDatabaseError("create", "sprint", err)
	}
	return nil
}

func (r *SprintRepo) Update(sprint *models.Sprint) error {
	if err := r.db.Save(sprint).Error; err != nil {
		return errs.NewDatabaseError("update", "sprint", err)
	}
	return nil
}

func (r *SprintRepo) Delete(id uuid.UUID) error {
	if err := r.db.Select(clause.Associations).Delete(&models.Sprint{ID: id}).Error; err != nil {
		return errs.NewDatabaseError("delete", "sprint", err)
	}
	return nil
}
