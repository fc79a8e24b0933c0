package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type TeamOfferRepo struct {
	db *gorm.DB
}

func NewTeamOfferRepo(db *gorm.DB) *TeamOfferRepo {
	return &TeamOfferRepo{db}
}

// FindAllOpen lists the open offers a student can browse, scoped to their
// speciality.
func (r *TeamOfferRepo) FindAllOpen(specialityID uuid.UUID) ([]*models.TeamOffer, error) {
	var offers []*models.TeamOffer
	err := r.db.Preload("GeneralSkills").Preload("Leader.User").
		Where("speciality_id = ? AND status = ?", specialityID, models.OfferOpen).
		Order("created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "team offers", err)
	}
	return offers, nil
}

func (r *TeamOfferRepo) FindByID(id uuid.UUID) (*models.TeamOffer, error) {
	var offer models.TeamOffer
	err := r.db.Preload("GeneralSkills").Preload("Leader.User").
		Preload("Members.Student.User").First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team offer", err)
	}
	return &offer, nil
}

// FindByIDForUpdate takes a row lock so capacity arithmetic holds until
// the enclosing transaction commits.
func (r *TeamOfferRepo) FindByIDForUpdate(id uuid.UUID) (*models.TeamOffer, error) {
	var offer models.TeamOffer
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team offer", err)
	}
	return &offer, nil
}

func (r *TeamOfferRepo) FindByLeader(studentID uuid.UUID) (*models.TeamOffer, error) {
	var offer models.TeamOffer
	err := r.db.Where("leader_id = ?", studentID).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team offer", err)
	}
	return &offer, nil
}

func (r *TeamOfferRepo) Create(offer *models.TeamOffer) error {
	if err := r.db.Create(offer).Error; err != nil {
		return errs.NewDatabaseError("create", "team offer", err)
	}
	return nil
}

func (r *TeamOfferRepo) UpdateStatus(id uuid.UUID, status models.OfferStatus) error {
	err := r.db.Model(&models.TeamOffer{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return errs.NewDatabaseError("update", "team offer", err)
	}
	return nil
}

func (r *TeamOfferRepo) SetAssignedProject(id uuid.UUID, projectID *uuid.UUID) error {
	err := r.db.Model(&models.TeamOffer{}).Where("id = ?", id).
		Update("assigned_project_id", projectID).Error
	if err != nil {
		return errs.NewDatabaseError("update", "team offer", err)
	}
	return nil
}

func (r *TeamOfferRepo) Delete(id uuid.UUID) error {
	if err := r.db.Select(clause.Associations).Delete(&models.TeamOffer{ID: id}).Error; err != nil {
		return errs.NewDatabaseError("delete", "team offer", err)
	}
	return nil
}
