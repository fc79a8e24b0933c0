package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type ProjectApplicationRepo struct {
	db *gorm.DB
}

func NewProjectApplicationRepo(db *gorm.DB) *ProjectApplicationRepo {
	return &ProjectApplicationRepo{db}
}

func (r *ProjectApplicationRepo) FindByID(id uuid.UUID) (*models.ProjectApplication, error) {
	var app models.ProjectApplication
	err := r.db.First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project application", err)
	}
	return &app, nil
}

func (r *ProjectApplicationRepo) FindByProjectAndTeam(projectID, teamID uuid.UUID) (*models.ProjectApplication, error) {
	var app models.ProjectApplication
	err := r.db.Where("project_offer_id = ? AND team_offer_id = ?", projectID, teamID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project application", err)
	}
	return &app, nil
}

// FindByProject lists the applications the owning teacher reviews.
func (r *ProjectApplicationRepo) FindByProject(projectID uuid.UUID) ([]*models.ProjectApplication, error) {
	var apps []*models.ProjectApplication
	err := r.db.Preload("TeamOffer.Leader.User").Preload("TeamOffer.Members.Student.User").
		Where("project_offer_id = ?", projectID).
		Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project applications", err)
	}
	return apps, nil
}

// FindByTeam lists a team's applications with their target offers.
func (r *ProjectApplicationRepo) FindByTeam(teamID uuid.UUID) ([]*models.ProjectApplication, error) {
	var apps []*models.ProjectApplication
	err := r.db.Preload("ProjectOffer.Teacher.User").
		Where("team_offer_id = ?", teamID).
		Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project applications", err)
	}
	return apps, nil
}

func (r *ProjectApplicationRepo) Create(app *models.ProjectApplication) error {
	if err := r.db.Create(app).Error; err != nil {
		return errs.NewDatabaseError("create", "project application", err)
	}
	return nil
}

func (r *ProjectApplicationRepo) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	err := r.db.Model(&models.ProjectApplication{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project application", err)
	}
	return nil
}

func (r *ProjectApplicationRepo) CancelPendingByTeam(teamID, exceptID uuid.UUID) error {
	err := r.db.Model(&models.ProjectApplication{}).
		Where("team_offer_id = ? AND id <> ? AND status = ?", teamID, exceptID, models.ApplicationPending).
		Update("status", models.ApplicationCanceled).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project applications", err)
	}
	return nil
}

// DeleteByProject removes the project's application rows ahead of the
// offer row itself, keeping the foreign keys satisfied.
func (r *ProjectApplicationRepo) DeleteByProject(projectID uuid.UUID) error {
	err := r.db.Where("project_offer_id = ?", projectID).
		Delete(&models.ProjectApplication{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "project applications", err)
	}
	return nil
}

func (r *ProjectApplicationRepo) CancelPendingByProject(projectID, exceptID uuid.UUID) error {
	err := r.db.Model(&models.ProjectApplication{}).
		Where("project_offer_id = ? AND id <> ? AND status = ?", projectID, exceptID, models.ApplicationPending).
		Update("status", models.ApplicationCanceled).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project applications", err)
	}
	return nil
}
