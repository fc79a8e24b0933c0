package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

func (r *SkillRepo) FindAll() ([]*models.Skill, error) {
	var skills []*models.Skill
	if err := r.db.Order("name").Find(&skills).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "skills", err)
	}
	return skills, nil
}

func (r *SkillRepo) FindByID(id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "skill", err)
	}
	return &skill, nil
}

func (r *SkillRepo) FindByName(name string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.Where("name = ?", name).First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "skill", err)
	}
	return &skill, nil
}

func (r *SkillRepo) FindByNames(names []string) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.Where("name IN ?", names).Find(&skills).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "skills", err)
	}
	return skills, nil
}

func (r *SkillRepo) Create(skill *models.Skill) error {
	if err := r.db.Create(skill).Error; err != nil {
		return errs.NewDatabaseError("create", "skill", err)
	}
	return nil
}

func (r *SkillRepo) Update(skill *models.Skill) error {
	if err := r.db.Save(skill).Error; err != nil {
		return errs.NewDatabaseError("update", "skill", err)
	}
	return nil
}

func (r *SkillRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Skill{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "skill", err)
	}
	return nil
}

// DetachEverywhere clears the skill out of the join tables before the row
// itself goes away.
func (r *SkillRepo) DetachEverywhere(id uuid.UUID) error {
	if err := r.db.Exec("DELETE FROM student_skills WHERE skill_id = ?", id).Error; err != nil {
		return errs.NewDatabaseError("delete", "student skills", err)
	}
	if err := r.db.Exec("DELETE FROM team_offer_skills WHERE skill_id = ?", id).Error; err != nil {
		return errs.NewDatabaseError("delete", "team offer skills", err)
	}
	return nil
}

func (r *SkillRepo) AttachToStudent(studentID, skillID uuid.UUID) error {
	err := r.db.Exec(
		"INSERT INTO student_skills (student_id, skill_id) VALUES (?, ?)",
		studentID, skillID,
	).Error
	if err != nil {
		return errs.NewDatabaseError("create", "student skill", err)
	}
	return nil
}

func (r *SkillRepo) StudentHasSkill(studentID, skillID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Table("student_skills").
		Where("student_id = ? AND skill_id = ?", studentID, skillID).
		Count(&count).Error
	if err != nil {
		return false, errs.NewDatabaseError("find", "student skill", err)
	}
	return count > 0, nil
}
