package database

import (
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/engine"
)

// gormStore implements engine.Store over a shared *gorm.DB. InTx hands the
// callback a store bound to the transaction handle, so every repo reached
// through it reads and writes inside that transaction.
type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) engine.Store {
	return &gormStore{db}
}

func (s *gormStore) InTx(fn func(engine.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{tx})
	})
}

func (s *gormStore) Students() engine.StudentStore   { return NewStudentRepo(s.db) }
func (s *gormStore) Teachers() engine.TeacherStore   { return NewTeacherRepo(s.db) }
func (s *gormStore) Skills() engine.SkillStore       { return NewSkillRepo(s.db) }
func (s *gormStore) Specialities() engine.SpecialityStore {
	return NewSpecialityRepo(s.db)
}
func (s *gormStore) AssignmentTypes() engine.AssignmentTypeStore {
	return NewAssignmentTypeRepo(s.db)
}
func (s *gormStore) TeamOffers() engine.TeamOfferStore   { return NewTeamOfferRepo(s.db) }
func (s *gormStore) TeamMembers() engine.TeamMemberStore { return NewTeamMemberRepo(s.db) }
func (s *gormStore) TeamApplications() engine.TeamApplicationStore {
	return NewTeamApplicationRepo(s.db)
}
func (s *gormStore) ProjectOffers() engine.ProjectOfferStore {
	return NewProjectOfferRepo(s.db)
}
func (s *gormStore) ProjectApplications() engine.ProjectApplicationStore {
	return NewProjectApplicationRepo(s.db)
}
