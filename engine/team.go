package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// teamActor identifies who is driving a team-application transition.
type teamActor int

const (
	actorLeader teamActor = iota
	actorApplicant
)

// teamTransitions is the allowed-transition table for team applications:
// actor × current status → requestable next statuses. Anything absent is
// rejected before any write happens.
var teamTransitions = map[teamActor]map[models.ApplicationStatus][]models.ApplicationStatus{
	actorLeader: {
		models.ApplicationPending: {models.ApplicationAccepted, models.ApplicationRejected},
	},
	actorApplicant: {
		models.ApplicationPending:  {models.ApplicationCanceled, models.ApplicationPending},
		models.ApplicationCanceled: {models.ApplicationPending, models.ApplicationCanceled},
	},
}

func transitionAllowed(actor teamActor, current, requested models.ApplicationStatus) bool {
	for _, s := range teamTransitions[actor][current] {
		if s == requested {
			return true
		}
	}
	return false
}

// TeamEngine owns team offers, memberships and team applications. All of
// its mutations are transactional; notifications go out only after commit.
type TeamEngine struct {
	store    Store
	notifier Notifier
	logger   zerolog.Logger
}

func NewTeamEngine(store Store, notifier Notifier) *TeamEngine {
	return &TeamEngine{
		store:    store,
		notifier: notifier,
		logger:   log.With().Str("engine", "team").Logger(),
	}
}

// CreateTeamOfferInput carries the validated payload for CreateTeamOffer.
type CreateTeamOfferInput struct {
	Title          string
	Description    string
	MaxMembers     int
	GeneralSkills  []string
	SpecificSkills []string
}

func (in CreateTeamOfferInput) validate() error {
	if l := len(in.Title); l < 3 || l > 100 {
		return errs.NewValidationError("title", "title must be between 3 and 100 characters")
	}
	if l := len(in.Description); l < 10 || l > 1000 {
		return errs.NewValidationError("description", "description must be between 10 and 1000 characters")
	}
	if in.MaxMembers < models.MinTeamMembers || in.MaxMembers > models.MaxTeamMembers {
		return errs.NewValidationError("maxMembers", "max members must be between 1 and 7")
	}
	if len(in.GeneralSkills) == 0 {
		return errs.NewValidationError("generalSkills", "at least one general required skill is required")
	}
	return nil
}

// CreateTeamOffer opens a team offer for the leader, enrolls the leader as
// its first member and withdraws the leader's own pending applications.
func (e *TeamEngine) CreateTeamOffer(leaderID uuid.UUID, in CreateTeamOfferInput) (*models.TeamOffer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *models.TeamOffer
	err := e.store.InTx(func(tx Store) error {
		leader, err := tx.Students().FindByID(leaderID)
		if err != nil {
			return err
		}
		if leader == nil {
			return errs.NewNotFound("student")
		}

		existing, err := tx.TeamOffers().FindByLeader(leaderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.NewHasOwnOfferError()
		}

		membership, err := tx.TeamMembers().FindByStudent(leaderID)
		if err != nil {
			return err
		}
		if membership != nil {
			return errs.NewAlreadyInTeamError()
		}

		skills, err := tx.Skills().FindByNames(in.GeneralSkills)
		if err != nil {
			return err
		}
		if len(skills) != len(in.GeneralSkills) {
			return errs.NewUnknownSkillsError(missingSkillNames(in.GeneralSkills, skills))
		}

		offer := &models.TeamOffer{
			LeaderID:       leaderID,
			Title:          in.Title,
			Description:    in.Description,
			MaxMembers:     in.MaxMembers,
			SpecialityID:   leader.SpecialityID,
			Year:           leader.Year,
			Status:         models.OfferOpen,
			SpecificSkills: in.SpecificSkills,
			GeneralSkills:  skills,
		}
		if err := tx.TeamOffers().Create(offer); err != nil {
			return err
		}
		if err := tx.TeamMembers().Create(&models.TeamMember{
			TeamOfferID: offer.ID,
			StudentID:   leaderID,
		}); err != nil {
			return err
		}
		// A solo offer is already at capacity.
		if in.MaxMembers == 1 {
			if err := tx.TeamOffers().UpdateStatus(offer.ID, models.OfferClosed); err != nil {
				return err
			}
			offer.Status = models.OfferClosed
		}
		// A leader cannot simultaneously be an applicant elsewhere.
		if err := tx.TeamApplications().CancelPendingByStudent(leaderID, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Students().SetTeamFlags(leaderID, true, true); err != nil {
			return err
		}
		created = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyToOffer submits (or revives) a student's application to a team
// offer. A leader whose offer has no other members may apply elsewhere;
// doing so dissolves that empty offer first.
func (e *TeamEngine) ApplyToOffer(studentID, teamOfferID uuid.UUID, message string) (*models.TeamApplication, error) {
	var (
		application *models.TeamApplication
		offerTitle  string
		leaderID    uuid.UUID
	)
	err := e.store.InTx(func(tx Store) error {
		offer, err := tx.TeamOffers().FindByIDForUpdate(teamOfferID)
		if err != nil {
			return err
		}
		if offer == nil {
			return errs.NewNotFound("team offer")
		}
		if offer.Status != models.OfferOpen {
			return errs.NewOfferClosedError("team")
		}
		offerTitle, leaderID = offer.Title, offer.LeaderID

		membership, err := tx.TeamMembers().FindByStudent(studentID)
		if err != nil {
			return err
		}
		if membership != nil {
			ownOffer, err := tx.TeamOffers().FindByLeader(studentID)
			if err != nil {
				return err
			}
			if ownOffer == nil || membership.TeamOfferID != ownOffer.ID {
				return errs.NewAlreadyInTeamError()
			}
			count, err := tx.TeamMembers().CountByOffer(ownOffer.ID)
			if err != nil {
				return err
			}
			if count > 1 || ownOffer.AssignedProjectID != nil {
				return errs.NewAlreadyInTeamError()
			}
			// Empty self-led offer: dissolve it and fall through to the
			// application. Application rows referencing the offer must go
			// first or the offer delete trips their foreign keys.
			if err := tx.TeamMembers().Delete(membership.ID); err != nil {
				return err
			}
			if err := tx.TeamApplications().DeleteByOffer(ownOffer.ID); err != nil {
				return err
			}
			if err := tx.TeamOffers().Delete(ownOffer.ID); err != nil {
				return err
			}
			if err := tx.Students().SetTeamFlags(studentID, false, false); err != nil {
				return err
			}
		}

		existing, err := tx.TeamApplications().FindByOfferAndStudent(teamOfferID, studentID)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			application = &models.TeamApplication{
				TeamOfferID: teamOfferID,
				StudentID:   studentID,
				Message:     message,
				Status:      models.ApplicationPending,
			}
			return tx.TeamApplications().Create(application)
		case existing.Status == models.ApplicationCanceled:
			// Re-apply revives the canceled row instead of duplicating it.
			if err := tx.TeamApplications().UpdateStatus(existing.ID, models.ApplicationPending); err != nil {
				return err
			}
			existing.Status = models.ApplicationPending
			application = existing
			return nil
		default:
			return errs.NewAlreadyAppliedError("team offer")
		}
	})
	if err != nil {
		return nil, err
	}

	e.notifyLeader(leaderID, offerTitle, studentID)
	return application, nil
}

// UpdateApplicationStatus drives the team-application state machine. The
// leader accepts or rejects pending applications; the applicant cancels or
// revives their own.
func (e *TeamEngine) UpdateApplicationStatus(actorStudentID, applicationID uuid.UUID, newStatus models.ApplicationStatus) (*models.TeamApplication, error) {
	if !newStatus.Valid() {
		return nil, errs.NewValidationError("status", "unknown status "+string(newStatus))
	}

	var (
		updated    *models.TeamApplication
		decidedBy  teamActor
		offerTitle string
		subjectID  uuid.UUID
	)
	err := e.store.InTx(func(tx Store) error {
		app, err := tx.TeamApplications().FindByID(applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return errs.NewNotFound("team application")
		}
		offer, err := tx.TeamOffers().FindByIDForUpdate(app.TeamOfferID)
		if err != nil {
			return err
		}
		if offer == nil {
			return errs.NewNotFound("team offer")
		}
		offerTitle, subjectID = offer.Title, app.StudentID

		switch {
		case offer.LeaderID == actorStudentID:
			decidedBy = actorLeader
		case app.StudentID == actorStudentID:
			decidedBy = actorApplicant
		default:
			return errs.NewForbiddenError("you are not a party to this application")
		}
		if !transitionAllowed(decidedBy, app.Status, newStatus) {
			return errs.NewBadTransitionError(string(app.Status), string(newStatus))
		}

		switch newStatus {
		case models.ApplicationAccepted:
			if err := e.acceptApplication(tx, app, offer); err != nil {
				return err
			}
		case models.ApplicationRejected, models.ApplicationCanceled:
			if err := tx.TeamApplications().UpdateStatus(app.ID, newStatus); err != nil {
				return err
			}
			if err := e.releaseMembership(tx, offer, app.StudentID); err != nil {
				return err
			}
		default:
			if err := tx.TeamApplications().UpdateStatus(app.ID, newStatus); err != nil {
				return err
			}
		}
		app.Status = newStatus
		updated = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decidedBy == actorLeader {
		e.notifyDecision(subjectID, offerTitle, newStatus == models.ApplicationAccepted)
	}
	return updated, nil
}

// acceptApplication performs the accept cascade inside the caller's
// transaction: membership insert, competing-application cancelation and the
// capacity-reached close.
func (e *TeamEngine) acceptApplication(tx Store, app *models.TeamApplication, offer *models.TeamOffer) error {
	existing, err := tx.TeamMembers().FindByOfferAndStudent(offer.ID, app.StudentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errs.NewAlreadyMemberError()
	}
	elsewhere, err := tx.TeamMembers().FindByStudent(app.StudentID)
	if err != nil {
		return err
	}
	if elsewhere != nil {
		return errs.NewAlreadyInTeamError()
	}
	count, err := tx.TeamMembers().CountByOffer(offer.ID)
	if err != nil {
		return err
	}
	if count >= int64(offer.MaxMembers) {
		return errs.NewTeamFullError(offer.MaxMembers)
	}

	if err := tx.TeamApplications().UpdateStatus(app.ID, models.ApplicationAccepted); err != nil {
		return err
	}
	if err := tx.TeamApplications().CancelPendingByStudent(app.StudentID, app.ID); err != nil {
		return err
	}
	if err := tx.TeamMembers().Create(&models.TeamMember{
		TeamOfferID: offer.ID,
		StudentID:   app.StudentID,
	}); err != nil {
		return err
	}
	if err := tx.Students().SetTeamFlags(app.StudentID, false, true); err != nil {
		return err
	}
	if count+1 == int64(offer.MaxMembers) {
		if err := tx.TeamOffers().UpdateStatus(offer.ID, models.OfferClosed); err != nil {
			return err
		}
		if err := tx.TeamApplications().CancelPendingByOffer(offer.ID, app.ID); err != nil {
			return err
		}
	}
	return nil
}

// releaseMembership undoes a membership when an application moves to
// rejected or canceled: the member row goes away, the offer reopens if it
// was closed by capacity, and the student's canceled applications elsewhere
// become pending again where there is still room.
func (e *TeamEngine) releaseMembership(tx Store, offer *models.TeamOffer, studentID uuid.UUID) error {
	member, err := tx.TeamMembers().FindByOfferAndStudent(offer.ID, studentID)
	if err != nil {
		return err
	}
	if member == nil {
		return nil
	}
	if err := tx.TeamMembers().Delete(member.ID); err != nil {
		return err
	}
	if err := tx.Students().SetTeamFlags(studentID, false, false); err != nil {
		return err
	}
	if offer.Status == models.OfferClosed {
		count, err := tx.TeamMembers().CountByOffer(offer.ID)
		if err != nil {
			return err
		}
		if count < int64(offer.MaxMembers) {
			if err := tx.TeamOffers().UpdateStatus(offer.ID, models.OfferOpen); err != nil {
				return err
			}
		}
	}
	return e.reactivateApplications(tx, studentID)
}

// reactivateApplications gives a student back their eligibility elsewhere:
// every canceled application whose target offer is still open and under
// capacity returns to pending.
func (e *TeamEngine) reactivateApplications(tx Store, studentID uuid.UUID) error {
	canceled, err := tx.TeamApplications().FindByStudentAndStatus(studentID, models.ApplicationCanceled)
	if err != nil {
		return err
	}
	for _, app := range canceled {
		target, err := tx.TeamOffers().FindByID(app.TeamOfferID)
		if err != nil {
			return err
		}
		if target == nil || target.Status != models.OfferOpen {
			continue
		}
		count, err := tx.TeamMembers().CountByOffer(target.ID)
		if err != nil {
			return err
		}
		if count >= int64(target.MaxMembers) {
			continue
		}
		if err := tx.TeamApplications().UpdateStatus(app.ID, models.ApplicationPending); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMember is the leader-initiated removal of a confirmed member.
func (e *TeamEngine) RemoveMember(actorStudentID, teamOfferID, memberStudentID uuid.UUID) error {
	var offerTitle string
	err := e.store.InTx(func(tx Store) error {
		offer, err := tx.TeamOffers().FindByIDForUpdate(teamOfferID)
		if err != nil {
			return err
		}
		if offer == nil {
			return errs.NewNotFound("team offer")
		}
		if offer.LeaderID != actorStudentID {
			return errs.NewForbiddenError("only the team leader can remove members")
		}
		if memberStudentID == offer.LeaderID {
			return errs.NewBadRequestError("the leader cannot remove themself")
		}
		offerTitle = offer.Title

		member, err := tx.TeamMembers().FindByOfferAndStudent(teamOfferID, memberStudentID)
		if err != nil {
			return err
		}
		if member == nil {
			return errs.NewNotFound("team member")
		}

		// Mark the member's application to this offer rejected so the
		// history matches the removal.
		app, err := tx.TeamApplications().FindByOfferAndStudent(teamOfferID, memberStudentID)
		if err != nil {
			return err
		}
		if app != nil && app.Status != models.ApplicationRejected {
			if err := tx.TeamApplications().UpdateStatus(app.ID, models.ApplicationRejected); err != nil {
				return err
			}
		}
		return e.releaseMembership(tx, offer, memberStudentID)
	})
	if err != nil {
		return err
	}

	e.notifyRemoval(memberStudentID, offerTitle)
	return nil
}

// DeleteOffer withdraws the leader's own offer. The offer must have no
// member besides the leader.
func (e *TeamEngine) DeleteOffer(leaderID, teamOfferID uuid.UUID) error {
	return e.store.InTx(func(tx Store) error {
		offer, err := tx.TeamOffers().FindByIDForUpdate(teamOfferID)
		if err != nil {
			return err
		}
		if offer == nil {
			return errs.NewNotFound("team offer")
		}
		if offer.LeaderID != leaderID {
			return errs.NewForbiddenError("only the team leader can withdraw the offer")
		}
		if offer.AssignedProjectID != nil {
			return errs.NewConflictError("the team is assigned to a project")
		}
		count, err := tx.TeamMembers().CountByOffer(teamOfferID)
		if err != nil {
			return err
		}
		if count > 1 {
			return errs.NewHasMembersError()
		}
		member, err := tx.TeamMembers().FindByOfferAndStudent(teamOfferID, leaderID)
		if err != nil {
			return err
		}
		if member != nil {
			if err := tx.TeamMembers().Delete(member.ID); err != nil {
				return err
			}
		}
		if err := tx.TeamApplications().DeleteByOffer(teamOfferID); err != nil {
			return err
		}
		if err := tx.TeamOffers().Delete(teamOfferID); err != nil {
			return err
		}
		return tx.Students().SetTeamFlags(leaderID, false, false)
	})
}

func (e *TeamEngine) notifyLeader(leaderID uuid.UUID, offerTitle string, applicantID uuid.UUID) {
	leader, err := e.store.Students().FindByID(leaderID)
	if err != nil || leader == nil || leader.User == nil {
		e.logger.Warn().Err(err).Str("leaderId", leaderID.String()).Msg("skipping application-received notification")
		return
	}
	applicantName := ""
	if applicant, err := e.store.Students().FindByID(applicantID); err == nil && applicant != nil && applicant.User != nil {
		applicantName = applicant.User.FirstName + " " + applicant.User.LastName
	}
	e.notifier.TeamApplicationReceived(leader.User.Email, leader.User.FirstName, offerTitle, applicantName)
}

func (e *TeamEngine) notifyDecision(studentID uuid.UUID, offerTitle string, accepted bool) {
	student, err := e.store.Students().FindByID(studentID)
	if err != nil || student == nil || student.User == nil {
		e.logger.Warn().Err(err).Str("studentId", studentID.String()).Msg("skipping application-decided notification")
		return
	}
	e.notifier.TeamApplicationDecided(student.User.Email, student.User.FirstName, offerTitle, accepted)
}

func (e *TeamEngine) notifyRemoval(studentID uuid.UUID, offerTitle string) {
	student, err := e.store.Students().FindByID(studentID)
	if err != nil || student == nil || student.User == nil {
		e.logger.Warn().Err(err).Str("studentId", studentID.String()).Msg("skipping member-removed notification")
		return
	}
	e.notifier.TeamMemberRemoved(student.User.Email, student.User.FirstName, offerTitle)
}

func missingSkillNames(requested []string, found []models.Skill) []string {
	known := make(map[string]struct{}, len(found))
	for _, s := range found {
		known[s.Name] = struct{}{}
	}
	var missing []string
	for _, name := range requested {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
