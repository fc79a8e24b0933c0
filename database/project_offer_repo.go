package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type ProjectOfferRepo struct {
	db *gorm.DB
}

func NewProjectOfferRepo(db *gorm.DB) *ProjectOfferRepo {
	return &ProjectOfferRepo{db}
}

func (r *ProjectOfferRepo) FindAll() ([]*models.ProjectOffer, error) {
	var offers []*models.ProjectOffer
	err := r.db.Preload("Teacher.User").Preload("Specialities").
		Order("created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project offers", err)
	}
	return offers, nil
}

// FindOpenForSpeciality lists the offers a team of the given speciality
// can still pursue.
func (r *ProjectOfferRepo) FindOpenForSpeciality(specialityID uuid.UUID) ([]*models.ProjectOffer, error) {
	var offers []*models.ProjectOffer
	err := r.db.Preload("Teacher.User").Preload("Specialities").
		Joins("JOIN project_offer_specialities pos ON pos.project_offer_id = project_offers.id").
		Where("pos.speciality_id = ? AND project_offers.status = ?", specialityID, models.OfferOpen).
		Order("project_offers.created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project offers", err)
	}
	return offers, nil
}

func (r *ProjectOfferRepo) FindByTeacher(teacherID uuid.UUID) ([]*models.ProjectOffer, error) {
	var offers []*models.ProjectOffer
	err := r.db.Preload("Specialities").Preload("AssignedTeams").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project offers", err)
	}
	return offers, nil
}

// FindHistory lists closed offers from before the given cutoff, the
// archive view of past capstone runs.
func (r *ProjectOfferRepo) FindHistory(beforeYear int) ([]*models.ProjectOffer, error) {
	var offers []*models.ProjectOffer
	err := r.db.Preload("Teacher.User").Preload("AssignedTeams").
		Where("status = ? AND EXTRACT(YEAR FROM created_at) < ?", models.OfferClosed, beforeYear).
		Order("created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project offers", err)
	}
	return offers, nil
}

func (r *ProjectOfferRepo) FindByID(id uuid.UUID) (*models.ProjectOffer, error) {
	var offer models.ProjectOffer
	err := r.db.Preload("Teacher.User").Preload("Specialities").
		Preload("CoSupervisors.User").Preload("AssignedTeams").
		First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project offer", err)
	}
	return &offer, nil
}

// FindByIDForUpdate locks the offer row and still carries the speciality
// set the engines check applications against.
func (r *ProjectOfferRepo) FindByIDForUpdate(id uuid.UUID) (*models.ProjectOffer, error) {
	var offer models.ProjectOffer
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "project_offers"}}).
		Preload("Specialities").First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project offer", err)
	}
	return &offer, nil
}

func (r *ProjectOfferRepo) Create(offer *models.ProjectOffer) error {
	if err := r.db.Create(offer).Error; err != nil {
		return errs.NewDatabaseError("create", "project offer", err)
	}
	return nil
}

func (r *ProjectOfferRepo) Update(offer *models.ProjectOffer) error {
	if err := r.db.Save(offer).Error; err != nil {
		return errs.NewDatabaseError("update", "project offer", err)
	}
	return nil
}

func (r *ProjectOfferRepo) UpdateStatus(id uuid.UUID, status models.OfferStatus) error {
	err := r.db.Model(&models.ProjectOffer{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project offer", err)
	}
	return nil
}

func (r *ProjectOfferRepo) CountAssignedTeams(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamOffer{}).
		Where("assigned_project_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, errs.NewDatabaseError("count", "assigned teams", err)
	}
	return count, nil
}

func (r *ProjectOfferRepo) SetAssignmentTypeForYear(year int, t models.AssignmentType) error {
	err := r.db.Model(&models.ProjectOffer{}).
		Where("year = ? AND status = ?", year, models.OfferOpen).
		Update("assignment_type", t).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project offers", err)
	}
	return nil
}

func (r *ProjectOfferRepo) Delete(id uuid.UUID) error {
	if err := r.db.Select(clause.Associations).Delete(&models.ProjectOffer{ID: id}).Error; err != nil {
		return errs.NewDatabaseError("delete", "project offer", err)
	}
	return nil
}
