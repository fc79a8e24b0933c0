package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type TeamApplicationRepo struct {
	db *gorm.DB
}

func NewTeamApplicationRepo(db *gorm.DB) *TeamApplicationRepo {
	return &TeamApplicationRepo{db}
}

func (r *TeamApplicationRepo) FindByID(id uuid.UUID) (*models.TeamApplication, error) {
	var app models.TeamApplication
	err := r.db.First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team application", err)
	}
	return &app, nil
}

func (r *TeamApplicationRepo) FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamApplication, error) {
	var app models.TeamApplication
	err := r.db.Where("team_offer_id = ? AND student_id = ?", offerID, studentID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team application", err)
	}
	return &app, nil
}

func (r *TeamApplicationRepo) FindByStudentAndStatus(studentID uuid.UUID, status models.ApplicationStatus) ([]models.TeamApplication, error) {
	var apps []models.TeamApplication
	err := r.db.Where("student_id = ? AND status = ?", studentID, status).
		Find(&apps).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "team applications", err)
	}
	return apps, nil
}

// FindByStudent lists a student's applications with their target offers,
// newest first.
func (r *TeamApplicationRepo) FindByStudent(studentID uuid.UUID) ([]*models.TeamApplication, error) {
	var apps []*models.TeamApplication
	err := r.db.Preload("TeamOffer.Leader.User").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "team applications", err)
	}
	return apps, nil
}

// FindByOffer lists the applications a leader reviews for their offer.
func (r *TeamApplicationRepo) FindByOffer(offerID uuid.UUID) ([]*models.TeamApplication, error) {
	var apps []*models.TeamApplication
	err := r.db.Preload("Student.User").Preload("Student.Skills").
		Where("team_offer_id = ?", offerID).
		Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "team applications", err)
	}
	return apps, nil
}

func (r *TeamApplicationRepo) Create(app *models.TeamApplication) error {
	if err := r.db.Create(app).Error; err != nil {
		return errs.NewDatabaseError("create", "team application", err)
	}
	return nil
}

func (r *TeamApplicationRepo) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	err := r.db.Model(&models.TeamApplication{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return errs.NewDatabaseError("update", "team application", err)
	}
	return nil
}

func (r *TeamApplicationRepo) CancelPendingByStudent(studentID, exceptID uuid.UUID) error {
	err := r.db.Model(&models.TeamApplication{}).
		Where("student_id = ? AND id <> ? AND status = ?", studentID, exceptID, models.ApplicationPending).
		Update("status", models.ApplicationCanceled).Error
	if err != nil {
		return errs.NewDatabaseError("update", "team applications", err)
	}
	return nil
}

// DeleteByOffer removes the offer's application rows ahead of the offer
// row itself, keeping the foreign keys satisfied.
func (r *TeamApplicationRepo) DeleteByOffer(offerID uuid.UUID) error {
	err := r.db.Where("team_offer_id = ?", offerID).
		Delete(&models.TeamApplication{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "team applications", err)
	}
	return nil
}

func (r *TeamApplicationRepo) CancelPendingByOffer(offerID, exceptID uuid.UUID) error {
	err := r.db.Model(&models.TeamApplication{}).
		Where("team_offer_id = ? AND id <> ? AND status = ?", offerID, exceptID, models.ApplicationPending).
		Update("status", models.ApplicationCanceled).Error
	if err != nil {
		return errs.NewDatabaseError("update", "team applications", err)
	}
	return nil
}
