package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type TeamMemberRepo struct {
	db *gorm.DB
}

func NewTeamMemberRepo(db *gorm.DB) *TeamMemberRepo {
	return &TeamMemberRepo{db}
}

func (r *TeamMemberRepo) CountByOffer(offerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_offer_id = ?", offerID).Count(&count).Error
	if err != nil {
		return 0, errs.NewDatabaseError("count", "team members", err)
	}
	return count, nil
}

func (r *TeamMemberRepo) FindByStudent(studentID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.Where("student_id = ?", studentID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team member", err)
	}
	return &member, nil
}

func (r *TeamMemberRepo) FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.Where("team_offer_id = ? AND student_id = ?", offerID, studentID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "team member", err)
	}
	return &member, nil
}

func (r *TeamMemberRepo) Create(member *models.TeamMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return errs.NewDatabaseError("create", "team member", err)
	}
	return nil
}

func (r *TeamMemberRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.TeamMember{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "team member", err)
	}
	return nil
}
