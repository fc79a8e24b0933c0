package database

import (
	"gorm.io/gorm"

	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/models"
)

type Database struct {
	db                     *gorm.DB
	userRepo               *UserRepo
	studentRepo            *StudentRepo
	teacherRepo            *TeacherRepo
	skillRepo              *SkillRepo
	specialityRepo         *SpecialityRepo
	assignmentTypeRepo     *AssignmentTypeRepo
	teamOfferRepo          *TeamOfferRepo
	teamMemberRepo         *TeamMemberRepo
	teamApplicationRepo    *TeamApplicationRepo
	projectOfferRepo       *ProjectOfferRepo
	projectApplicationRepo *ProjectApplicationRepo
	windowRepo             *WindowRepo
	sprintRepo             *SprintRepo
	deliverableRepo        *DeliverableRepo
	noteRepo               *NoteRepo
}

// New initializes a Database with each repository sharing the GORM instance
func New(db *gorm.DB) Database {
	return Database{
		db:                     db,
		userRepo:               NewUserRepo(db),
		studentRepo:            NewStudentRepo(db),
		teacherRepo:            NewTeacherRepo(db),
		skillRepo:              NewSkillRepo(db),
		specialityRepo:         NewSpecialityRepo(db),
		assignmentTypeRepo:     NewAssignmentTypeRepo(db),
		teamOfferRepo:          NewTeamOfferRepo(db),
		teamMemberRepo:         NewTeamMemberRepo(db),
		teamApplicationRepo:    NewTeamApplicationRepo(db),
		projectOfferRepo:       NewProjectOfferRepo(db),
		projectApplicationRepo: NewProjectApplicationRepo(db),
		windowRepo:             NewWindowRepo(db),
		sprintRepo:             NewSprintRepo(db),
		deliverableRepo:        NewDeliverableRepo(db),
		noteRepo:               NewNoteRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo { return d.userRepo }

func (d Database) StudentRepo() *StudentRepo { return d.studentRepo }

func (d Database) TeacherRepo() *TeacherRepo { return d.teacherRepo }

func (d Database) SkillRepo() *SkillRepo { return d.skillRepo }

func (d Database) SpecialityRepo() *SpecialityRepo { return d.specialityRepo }

func (d Database) AssignmentTypeRepo() *AssignmentTypeRepo { return d.assignmentTypeRepo }

func (d Database) TeamOfferRepo() *TeamOfferRepo { return d.teamOfferRepo }

func (d Database) TeamMemberRepo() *TeamMemberRepo { return d.teamMemberRepo }

func (d Database) TeamApplicationRepo() *TeamApplicationRepo { return d.teamApplicationRepo }

func (d Database) ProjectOfferRepo() *ProjectOfferRepo { return d.projectOfferRepo }

func (d Database) ProjectApplicationRepo() *ProjectApplicationRepo { return d.projectApplicationRepo }

func (d Database) WindowRepo() *WindowRepo { return d.windowRepo }

func (d Database) SprintRepo() *SprintRepo { return d.sprintRepo }

func (d Database) DeliverableRepo() *DeliverableRepo { return d.deliverableRepo }

func (d Database) NoteRepo() *NoteRepo { return d.noteRepo }

// Store exposes the transactional surface the engines run on.
func (d Database) Store() engine.Store {
	return NewStore(d.db)
}

// AutoMigrate creates or updates every table the backend persists to.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Teacher{},
		&models.Skill{},
		&models.Speciality{},
		&models.YearAssignmentType{},
		&models.TeamOffer{},
		&models.TeamMember{},
		&models.TeamApplication{},
		&models.ProjectOffer{},
		&models.ProjectApplication{},
		&models.TeamCompositionWindow{},
		&models.ProjectSelectionWindow{},
		&models.Sprint{},
		&models.Deliverable{},
		&models.Note{},
	)
}
