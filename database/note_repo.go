package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type NoteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db}
}

func (r *NoteRepo) FindBySprint(sprintID uuid.UUID) ([]*models.Note, error) {
	var notes []*models.Note
	err := r.db.Preload("Sender").
		Where("sprint_id = ?", sprintID).
		Order("created_at").Find(&notes).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "notes", err)
	}
	return notes, nil
}

func (r *NoteRepo) FindByID(id uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := r.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "note", err)
	}
	return &note, nil
}

func (r *NoteRepo) Create(note *models.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		return errs.NewDatabaseError("create", "note", err)
	}
	return nil
}

func (r *NoteRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Note{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "note", err)
	}
	return nil
}
