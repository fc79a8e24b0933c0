// Package engine holds the team-formation and project-assignment state
// machines. Every multi-entity mutation runs inside Store.InTx so the
// decision reads and the writes that depend on them commit atomically.
package engine

import (
	"github.com/google/uuid"

	"github.com/pfe-hub/capstone-backend/models"
)

// Store is the persistence surface the engines run against. InTx executes
// fn against a transaction-scoped Store and rolls every write back when fn
// returns an error. Find methods return (nil, nil) when no row matches;
// errors are reserved for the data store misbehaving.
type Store interface {
	InTx(fn func(Store) error) error

	Students() StudentStore
	Teachers() TeacherStore
	Skills() SkillStore
	Specialities() SpecialityStore
	AssignmentTypes() AssignmentTypeStore
	TeamOffers() TeamOfferStore
	TeamMembers() TeamMemberStore
	TeamApplications() TeamApplicationStore
	ProjectOffers() ProjectOfferStore
	ProjectApplications() ProjectApplicationStore
}

type StudentStore interface {
	FindByID(id uuid.UUID) (*models.Student, error)
	// SetTeamFlags writes the denormalized isLeader/isInTeam cache fields.
	// Callers must only invoke it in the transaction that mutates the
	// TeamOffer/TeamMember rows the flags mirror.
	SetTeamFlags(id uuid.UUID, isLeader, isInTeam bool) error
	AppendCustomSkill(id uuid.UUID, skill string) error
}

type TeacherStore interface {
	FindByID(id uuid.UUID) (*models.Teacher, error)
}

type SkillStore interface {
	FindByID(id uuid.UUID) (*models.Skill, error)
	FindByName(name string) (*models.Skill, error)
	FindByNames(names []string) ([]models.Skill, error)
	Create(skill *models.Skill) error
	Update(skill *models.Skill) error
	Delete(id uuid.UUID) error
	// DetachEverywhere removes the skill from team-offer requirement sets
	// and student skill rows ahead of deletion.
	DetachEverywhere(id uuid.UUID) error
	AttachToStudent(studentID, skillID uuid.UUID) error
	StudentHasSkill(studentID, skillID uuid.UUID) (bool, error)
}

type SpecialityStore interface {
	FindByIDs(ids []uuid.UUID) ([]models.Speciality, error)
	IDsByYear(year int) ([]uuid.UUID, error)
}

type AssignmentTypeStore interface {
	FindByID(id uuid.UUID) (*models.YearAssignmentType, error)
	FindByYear(year int) (*models.YearAssignmentType, error)
	Create(t *models.YearAssignmentType) error
	Update(t *models.YearAssignmentType) error
}

type TeamOfferStore interface {
	FindByID(id uuid.UUID) (*models.TeamOffer, error)
	// FindByIDForUpdate locks the offer row for the rest of the enclosing
	// transaction; capacity decisions must go through it.
	FindByIDForUpdate(id uuid.UUID) (*models.TeamOffer, error)
	FindByLeader(studentID uuid.UUID) (*models.TeamOffer, error)
	Create(offer *models.TeamOffer) error
	UpdateStatus(id uuid.UUID, status models.OfferStatus) error
	SetAssignedProject(id uuid.UUID, projectID *uuid.UUID) error
	Delete(id uuid.UUID) error
}

type TeamMemberStore interface {
	CountByOffer(offerID uuid.UUID) (int64, error)
	FindByStudent(studentID uuid.UUID) (*models.TeamMember, error)
	FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamMember, error)
	Create(member *models.TeamMember) error
	Delete(id uuid.UUID) error
}

type TeamApplicationStore interface {
	FindByID(id uuid.UUID) (*models.TeamApplication, error)
	FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamApplication, error)
	FindByStudentAndStatus(studentID uuid.UUID, status models.ApplicationStatus) ([]models.TeamApplication, error)
	Create(app *models.TeamApplication) error
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	// CancelPendingByStudent cancels every pending application of the
	// student except the one identified by exceptID (uuid.Nil for none).
	CancelPendingByStudent(studentID, exceptID uuid.UUID) error
	// CancelPendingByOffer cancels every pending application to the offer
	// except the one identified by exceptID.
	CancelPendingByOffer(offerID, exceptID uuid.UUID) error
	// DeleteByOffer removes every application row of the offer. Must run
	// before the offer row itself is deleted.
	DeleteByOffer(offerID uuid.UUID) error
}

type ProjectOfferStore interface {
	FindByID(id uuid.UUID) (*models.ProjectOffer, error)
	FindByIDForUpdate(id uuid.UUID) (*models.ProjectOffer, error)
	Create(offer *models.ProjectOffer) error
	UpdateStatus(id uuid.UUID, status models.OfferStatus) error
	// CountAssignedTeams counts team offers whose assignedProjectId points
	// at the project.
	CountAssignedTeams(id uuid.UUID) (int64, error)
	// SetAssignmentTypeForYear rewrites the policy on every open offer
	// attached to a speciality of the given year.
	SetAssignmentTypeForYear(year int, t models.AssignmentType) error
	Delete(id uuid.UUID) error
}

type ProjectApplicationStore interface {
	FindByID(id uuid.UUID) (*models.ProjectApplication, error)
	FindByProjectAndTeam(projectID, teamID uuid.UUID) (*models.ProjectApplication, error)
	Create(app *models.ProjectApplication) error
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	// CancelPendingByTeam cancels every pending application of the team
	// except the one identified by exceptID.
	CancelPendingByTeam(teamID, exceptID uuid.UUID) error
	// CancelPendingByProject cancels every pending application to the
	// project except the one identified by exceptID.
	CancelPendingByProject(projectID, exceptID uuid.UUID) error
	// DeleteByProject removes every application row of the project. Must
	// run before the project row itself is deleted.
	DeleteByProject(projectID uuid.UUID) error
}
