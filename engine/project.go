package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// ProjectEngine owns project offers and the team-to-project assignment
// flow. Which flow runs is decided by the offer's assignment type, frozen
// from the year policy at creation time.
type ProjectEngine struct {
	store    Store
	notifier Notifier
	logger   zerolog.Logger
}

func NewProjectEngine(store Store, notifier Notifier) *ProjectEngine {
	return &ProjectEngine{
		store:    store,
		notifier: notifier,
		logger:   log.With().Str("engine", "project").Logger(),
	}
}

// CreateProjectOfferInput carries the validated payload for
// CreateProjectOffer. ChosenTeamIDs is only honored under the amiability
// policy.
type CreateProjectOfferInput struct {
	Title           string
	Description     string
	Tools           []string
	Languages       []string
	MaxTeams        int
	SpecialityIDs   []uuid.UUID
	CoSupervisorIDs []uuid.UUID
	ChosenTeamIDs   []uuid.UUID
	FileURL         *string
	FilePublicID    *string
}

func (in CreateProjectOfferInput) validate() error {
	if l := len(in.Title); l < 3 || l > 100 {
		return errs.NewValidationError("title", "title must be between 3 and 100 characters")
	}
	if l := len(in.Description); l < 10 || l > 1000 {
		return errs.NewValidationError("description", "description must be between 10 and 1000 characters")
	}
	if in.MaxTeams < 1 {
		return errs.NewValidationError("maxTeams", "max teams must be at least 1")
	}
	if len(in.SpecialityIDs) == 0 {
		return errs.NewValidationError("specialityIds", "at least one speciality is required")
	}
	return nil
}

// CreateProjectOffer publishes a project offer. The assignment type comes
// from the year policy of the targeted specialities; all specialities must
// share one year. Under amiability the chosen teams are assigned
// immediately, inside the same transaction.
func (e *ProjectEngine) CreateProjectOffer(teacherID uuid.UUID, in CreateProjectOfferInput) (*models.ProjectOffer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *models.ProjectOffer
	err := e.store.InTx(func(tx Store) error {
		teacher, err := tx.Teachers().FindByID(teacherID)
		if err != nil {
			return err
		}
		if teacher == nil {
			return errs.NewNotFound("teacher")
		}

		specialities, err := tx.Specialities().FindByIDs(in.SpecialityIDs)
		if err != nil {
			return err
		}
		if len(specialities) != len(in.SpecialityIDs) {
			return errs.NewNotFound("speciality")
		}
		year := specialities[0].Year
		for _, s := range specialities[1:] {
			if s.Year != year {
				return errs.NewMixedYearsError()
			}
		}

		policy, err := tx.AssignmentTypes().FindByYear(year)
		if err != nil {
			return err
		}
		if policy == nil {
			return errs.NewPolicyNotSetError(year)
		}

		coSupervisors := make([]models.Teacher, 0, len(in.CoSupervisorIDs))
		for _, id := range in.CoSupervisorIDs {
			co, err := tx.Teachers().FindByID(id)
			if err != nil {
				return err
			}
			if co == nil {
				return errs.NewNotFound("co-supervisor")
			}
			coSupervisors = append(coSupervisors, *co)
		}

		offer := &models.ProjectOffer{
			TeacherID:      teacherID,
			Title:          in.Title,
			Description:    in.Description,
			Tools:          in.Tools,
			Languages:      in.Languages,
			MaxTeams:       in.MaxTeams,
			AssignmentType: policy.AssignmentType,
			Status:         models.OfferOpen,
			Year:           year,
			FileURL:        in.FileURL,
			FilePublicID:   in.FilePublicID,
			Specialities:   specialities,
			CoSupervisors:  coSupervisors,
		}
		if err := tx.ProjectOffers().Create(offer); err != nil {
			return err
		}

		if policy.AssignmentType == models.AssignmentAmiability && len(in.ChosenTeamIDs) > 0 {
			if len(in.ChosenTeamIDs) > in.MaxTeams {
				return errs.NewValidationError("chosenTeamIds", "more chosen teams than max teams")
			}
			allowed := make(map[uuid.UUID]struct{}, len(specialities))
			for _, s := range specialities {
				allowed[s.ID] = struct{}{}
			}
			for _, teamID := range in.ChosenTeamIDs {
				if err := e.assignTeam(tx, offer, teamID, allowed); err != nil {
					return err
				}
			}
			if len(in.ChosenTeamIDs) == in.MaxTeams {
				if err := tx.ProjectOffers().UpdateStatus(offer.ID, models.OfferClosed); err != nil {
					return err
				}
				offer.Status = models.OfferClosed
			}
		}
		created = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// assignTeam attaches one team to the offer inside the caller's
// transaction, guarding speciality fit and double assignment.
func (e *ProjectEngine) assignTeam(tx Store, offer *models.ProjectOffer, teamID uuid.UUID, allowedSpecialities map[uuid.UUID]struct{}) error {
	team, err := tx.TeamOffers().FindByIDForUpdate(teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return errs.NewNotFound("team offer")
	}
	if _, ok := allowedSpecialities[team.SpecialityID]; !ok {
		return errs.NewValidationError("chosenTeamIds", "team "+teamID.String()+" is outside the offer's specialities")
	}
	if team.AssignedProjectID != nil {
		return errs.NewAlreadyAssignedError()
	}
	if err := tx.TeamOffers().SetAssignedProject(teamID, &offer.ID); err != nil {
		return err
	}
	return tx.ProjectApplications().CancelPendingByTeam(teamID, uuid.Nil)
}

// ProjectApplyResult is the outcome of ApplyToProject. Under the auto
// policy the team is assigned directly and no application row exists.
type ProjectApplyResult struct {
	Application      *models.ProjectApplication `json:"application,omitempty"`
	AssignedDirectly bool                       `json:"assignedDirectly"`
}

// ApplyToProject lets a team leader pursue a project offer. The offer's
// assignment type picks the flow: auto assigns on the spot, teacherApproval
// files a pending application, amiability refuses applications outright.
func (e *ProjectEngine) ApplyToProject(leaderStudentID, projectOfferID uuid.UUID, message string) (*ProjectApplyResult, error) {
	var (
		result       ProjectApplyResult
		projectTitle string
		teamTitle    string
		teacherID    uuid.UUID
		notify       bool
	)
	err := e.store.InTx(func(tx Store) error {
		project, err := tx.ProjectOffers().FindByIDForUpdate(projectOfferID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project offer")
		}
		if project.Status != models.OfferOpen {
			return errs.NewOfferClosedError("project")
		}

		team, err := tx.TeamOffers().FindByLeader(leaderStudentID)
		if err != nil {
			return err
		}
		if team == nil {
			return errs.NewForbiddenError("only team leaders can apply to project offers")
		}
		if team.AssignedProjectID != nil {
			return errs.NewAlreadyAssignedError()
		}
		if team.Year != project.Year {
			return errs.NewForbiddenError("this project offer targets a different year")
		}
		if !projectCoversSpeciality(project, team.SpecialityID) {
			return errs.NewForbiddenError("this project offer targets a different speciality")
		}
		projectTitle, teamTitle, teacherID = project.Title, team.Title, project.TeacherID

		assigned, err := tx.ProjectOffers().CountAssignedTeams(project.ID)
		if err != nil {
			return err
		}
		if assigned >= int64(project.MaxTeams) {
			return errs.NewProjectFullError(project.MaxTeams)
		}

		switch project.AssignmentType {
		case models.AssignmentAmiability:
			return errs.NewConflictError("this project offer assigns teams by invitation")

		case models.AssignmentAuto:
			if err := tx.TeamOffers().SetAssignedProject(team.ID, &project.ID); err != nil {
				return err
			}
			if err := tx.ProjectApplications().CancelPendingByTeam(team.ID, uuid.Nil); err != nil {
				return err
			}
			if assigned+1 == int64(project.MaxTeams) {
				if err := tx.ProjectOffers().UpdateStatus(project.ID, models.OfferClosed); err != nil {
					return err
				}
				if err := tx.ProjectApplications().CancelPendingByProject(project.ID, uuid.Nil); err != nil {
					return err
				}
			}
			result.AssignedDirectly = true
			return nil

		default:
			existing, err := tx.ProjectApplications().FindByProjectAndTeam(project.ID, team.ID)
			if err != nil {
				return err
			}
			switch {
			case existing == nil:
				app := &models.ProjectApplication{
					ProjectOfferID: project.ID,
					TeamOfferID:    team.ID,
					Message:        message,
					Status:         models.ApplicationPending,
				}
				if err := tx.ProjectApplications().Create(app); err != nil {
					return err
				}
				result.Application = app
			case existing.Status == models.ApplicationCanceled:
				if err := tx.ProjectApplications().UpdateStatus(existing.ID, models.ApplicationPending); err != nil {
					return err
				}
				existing.Status = models.ApplicationPending
				result.Application = existing
			case existing.Status == models.ApplicationRejected:
				return errs.NewNotReappliableError()
			default:
				return errs.NewAlreadyAppliedError("project offer")
			}
			notify = true
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if notify {
		e.notifyTeacher(teacherID, projectTitle, teamTitle, leaderStudentID)
	}
	return &result, nil
}

// AcceptApplication is the owning teacher's (or an admin's) accept. The
// assignment, the team's competing-application cancelation and the
// capacity-reached close all commit together.
func (e *ProjectEngine) AcceptApplication(actorTeacherID uuid.UUID, admin bool, applicationID uuid.UUID) (*models.ProjectApplication, error) {
	var (
		updated      *models.ProjectApplication
		projectTitle string
		leaderID     uuid.UUID
	)
	err := e.store.InTx(func(tx Store) error {
		app, project, team, err := e.loadApplication(tx, applicationID)
		if err != nil {
			return err
		}
		if !admin && project.TeacherID != actorTeacherID {
			return errs.NewForbiddenError("only the offer's teacher can decide this application")
		}
		if app.Status != models.ApplicationPending {
			return errs.NewBadTransitionError(string(app.Status), string(models.ApplicationAccepted))
		}
		if team.AssignedProjectID != nil {
			return errs.NewAlreadyAssignedError()
		}
		assigned, err := tx.ProjectOffers().CountAssignedTeams(project.ID)
		if err != nil {
			return err
		}
		if assigned >= int64(project.MaxTeams) {
			return errs.NewProjectFullError(project.MaxTeams)
		}

		if err := tx.ProjectApplications().UpdateStatus(app.ID, models.ApplicationAccepted); err != nil {
			return err
		}
		if err := tx.TeamOffers().SetAssignedProject(team.ID, &project.ID); err != nil {
			return err
		}
		if err := tx.ProjectApplications().CancelPendingByTeam(team.ID, app.ID); err != nil {
			return err
		}
		if assigned+1 == int64(project.MaxTeams) {
			if err := tx.ProjectOffers().UpdateStatus(project.ID, models.OfferClosed); err != nil {
				return err
			}
			if err := tx.ProjectApplications().CancelPendingByProject(project.ID, app.ID); err != nil {
				return err
			}
		}
		app.Status = models.ApplicationAccepted
		updated = app
		projectTitle, leaderID = project.Title, team.LeaderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notifyLeaderDecision(leaderID, projectTitle, true)
	return updated, nil
}

// RejectApplication is the owning teacher's (or an admin's) reject.
// Rejected applications stay rejected; the team cannot re-apply.
func (e *ProjectEngine) RejectApplication(actorTeacherID uuid.UUID, admin bool, applicationID uuid.UUID) (*models.ProjectApplication, error) {
	var (
		updated      *models.ProjectApplication
		projectTitle string
		leaderID     uuid.UUID
	)
	err := e.store.InTx(func(tx Store) error {
		app, project, team, err := e.loadApplication(tx, applicationID)
		if err != nil {
			return err
		}
		if !admin && project.TeacherID != actorTeacherID {
			return errs.NewForbiddenError("only the offer's teacher can decide this application")
		}
		if app.Status != models.ApplicationPending {
			return errs.NewBadTransitionError(string(app.Status), string(models.ApplicationRejected))
		}
		if err := tx.ProjectApplications().UpdateStatus(app.ID, models.ApplicationRejected); err != nil {
			return err
		}
		app.Status = models.ApplicationRejected
		updated = app
		projectTitle, leaderID = project.Title, team.LeaderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notifyLeaderDecision(leaderID, projectTitle, false)
	return updated, nil
}

// CancelApplication is the team leader withdrawing a pending application.
// A canceled application can be revived by applying again.
func (e *ProjectEngine) CancelApplication(leaderStudentID, applicationID uuid.UUID) (*models.ProjectApplication, error) {
	var updated *models.ProjectApplication
	err := e.store.InTx(func(tx Store) error {
		app, _, team, err := e.loadApplication(tx, applicationID)
		if err != nil {
			return err
		}
		if team.LeaderID != leaderStudentID {
			return errs.NewForbiddenError("only the team leader can withdraw the application")
		}
		if app.Status != models.ApplicationPending {
			return errs.NewBadTransitionError(string(app.Status), string(models.ApplicationCanceled))
		}
		if err := tx.ProjectApplications().UpdateStatus(app.ID, models.ApplicationCanceled); err != nil {
			return err
		}
		app.Status = models.ApplicationCanceled
		updated = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOffer withdraws a project offer. Only the owning teacher or an
// admin may delete, and never once a team has been assigned. Application
// rows go in the same transaction so the offer row's foreign keys clear.
func (e *ProjectEngine) DeleteOffer(actorTeacherID uuid.UUID, admin bool, projectOfferID uuid.UUID) (*models.ProjectOffer, error) {
	var deleted *models.ProjectOffer
	err := e.store.InTx(func(tx Store) error {
		offer, err := tx.ProjectOffers().FindByIDForUpdate(projectOfferID)
		if err != nil {
			return err
		}
		if offer == nil {
			return errs.NewNotFound("project offer")
		}
		if !admin && offer.TeacherID != actorTeacherID {
			return errs.NewForbiddenError("only the owning teacher can delete the offer")
		}
		assigned, err := tx.ProjectOffers().CountAssignedTeams(projectOfferID)
		if err != nil {
			return err
		}
		if assigned > 0 {
			return errs.NewConflictError("the offer has assigned teams")
		}
		if err := tx.ProjectApplications().DeleteByProject(projectOfferID); err != nil {
			return err
		}
		if err := tx.ProjectOffers().Delete(projectOfferID); err != nil {
			return err
		}
		deleted = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// loadApplication fetches an application plus its locked project and team
// rows, erroring on any missing piece.
func (e *ProjectEngine) loadApplication(tx Store, applicationID uuid.UUID) (*models.ProjectApplication, *models.ProjectOffer, *models.TeamOffer, error) {
	app, err := tx.ProjectApplications().FindByID(applicationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if app == nil {
		return nil, nil, nil, errs.NewNotFound("project application")
	}
	project, err := tx.ProjectOffers().FindByIDForUpdate(app.ProjectOfferID)
	if err != nil {
		return nil, nil, nil, err
	}
	if project == nil {
		return nil, nil, nil, errs.NewNotFound("project offer")
	}
	team, err := tx.TeamOffers().FindByIDForUpdate(app.TeamOfferID)
	if err != nil {
		return nil, nil, nil, err
	}
	if team == nil {
		return nil, nil, nil, errs.NewNotFound("team offer")
	}
	return app, project, team, nil
}

func projectCoversSpeciality(project *models.ProjectOffer, specialityID uuid.UUID) bool {
	for _, s := range project.Specialities {
		if s.ID == specialityID {
			return true
		}
	}
	return false
}

func (e *ProjectEngine) notifyTeacher(teacherID uuid.UUID, projectTitle, teamTitle string, leaderStudentID uuid.UUID) {
	teacher, err := e.store.Teachers().FindByID(teacherID)
	if err != nil || teacher == nil || teacher.User == nil {
		e.logger.Warn().Err(err).Str("teacherId", teacherID.String()).Msg("skipping application-received notification")
		return
	}
	leaderName := ""
	if leader, err := e.store.Students().FindByID(leaderStudentID); err == nil && leader != nil && leader.User != nil {
		leaderName = leader.User.FirstName + " " + leader.User.LastName
	}
	e.notifier.ProjectApplicationReceived(teacher.User.Email, teacher.User.FirstName, projectTitle, teamTitle, leaderName)
}

func (e *ProjectEngine) notifyLeaderDecision(leaderStudentID uuid.UUID, projectTitle string, accepted bool) {
	leader, err := e.store.Students().FindByID(leaderStudentID)
	if err != nil || leader == nil || leader.User == nil {
		e.logger.Warn().Err(err).Str("studentId", leaderStudentID.String()).Msg("skipping application-decided notification")
		return
	}
	e.notifier.ProjectApplicationDecided(leader.User.Email, leader.User.FirstName, projectTitle, accepted)
}
