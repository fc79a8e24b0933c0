package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
	"github.com/pfe-hub/capstone-backend/services"
)

type sprintHandler struct {
	responder        Responder
	logger           zerolog.Logger
	sprintRepo       *database.SprintRepo
	deliverableRepo  *database.DeliverableRepo
	noteRepo         *database.NoteRepo
	teamOfferRepo    *database.TeamOfferRepo
	teamMemberRepo   *database.TeamMemberRepo
	projectOfferRepo *database.ProjectOfferRepo
	storage          services.Storage
}

func newSprintHandler(db database.Database, storage services.Storage) sprintHandler {
	logger := log.With().Str("handlerName", "sprintHandler").Logger()
	return sprintHandler{
		responder:        NewResponder(logger),
		logger:           logger,
		sprintRepo:       db.SprintRepo(),
		deliverableRepo:  db.DeliverableRepo(),
		noteRepo:         db.NoteRepo(),
		teamOfferRepo:    db.TeamOfferRepo(),
		teamMemberRepo:   db.TeamMemberRepo(),
		projectOfferRepo: db.ProjectOfferRepo(),
		storage:          storage,
	}
}

// scope is the (project, team) pair a sprint belongs to, with the caller's
// standing inside it already resolved.
type sprintScope struct {
	project  *models.ProjectOffer
	team     *models.TeamOffer
	isMember bool
}

// resolveScope loads the team and its assigned project and checks the caller
// belongs to the pair. Team members, the supervising teachers and admins
// pass; everyone else is rejected.
func (h sprintHandler) resolveScope(actor Actor, teamID uuid.UUID) (*sprintScope, error) {
	team, err := h.teamOfferRepo.FindByID(teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, errs.NewNotFoundError("team not found")
	}
	if team.AssignedProjectID == nil {
		return nil, errs.NewConflictError("the team has no assigned project")
	}
	project, err := h.projectOfferRepo.FindByID(*team.AssignedProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFoundError("assigned project not found")
	}

	scope := &sprintScope{project: project, team: team}
	if actor.IsAdmin() {
		return scope, nil
	}
	if actor.Student != nil {
		member, err := h.teamMemberRepo.FindByOfferAndStudent(team.ID, actor.Student.ID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, errs.NewForbiddenError("you are not a member of this team")
		}
		scope.isMember = true
		return scope, nil
	}
	if actor.Teacher != nil {
		if project.TeacherID == actor.Teacher.ID {
			return scope, nil
		}
		for _, co := range project.CoSupervisors {
			if co.ID == actor.Teacher.ID {
				return scope, nil
			}
		}
	}
	return nil, errs.NewForbiddenError("you are not involved in this project")
}

func (h sprintHandler) scopeFromRequest(r *http.Request) (Actor, *sprintScope, error) {
	actor, err := actorFromCtx(r.Context())
	if err != nil {
		return Actor{}, nil, err
	}
	teamID, err := parseIDParam(r, "teamID")
	if err != nil {
		return Actor{}, nil, err
	}
	scope, err := h.resolveScope(actor, teamID)
	if err != nil {
		return Actor{}, nil, err
	}
	return actor, scope, nil
}

// loadSprint resolves the sprint route param and checks the caller's access
// through the sprint's own (project, team) pair.
func (h sprintHandler) loadSprint(r *http.Request) (Actor, *models.Sprint, *sprintScope, error) {
	actor, err := actorFromCtx(r.Context())
	if err != nil {
		return Actor{}, nil, nil, err
	}
	sprintID, err := parseIDParam(r, "sprintID")
	if err != nil {
		return Actor{}, nil, nil, err
	}
	sprint, err := h.sprintRepo.FindByID(sprintID)
	if err != nil {
		return Actor{}, nil, nil, err
	}
	if sprint == nil {
		return Actor{}, nil, nil, errs.NewNotFoundError("sprint not found")
	}
	scope, err := h.resolveScope(actor, sprint.TeamOfferID)
	if err != nil {
		return Actor{}, nil, nil, err
	}
	return actor, sprint, scope, nil
}

func (h sprintHandler) getSprints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, scope, err := h.scopeFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		sprints, err := h.sprintRepo.FindByProjectAndTeam(scope.project.ID, scope.team.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sprints)
	}
}

func (h sprintHandler) createSprint() http.HandlerFunc {
	type request struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, scope, err := h.scopeFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if len(req.Title) < 3 {
			h.responder.WriteError(w, errs.NewValidationError("title", "must be at least 3 characters"))
			return
		}
		if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
			h.responder.WriteError(w, errs.NewValidationError("endDate", "must be after startDate"))
			return
		}
		sprint := &models.Sprint{
			ProjectOfferID: scope.project.ID,
			TeamOfferID:    scope.team.ID,
			Title:          req.Title,
			Description:    req.Description,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			Status:         models.SprintPlanned,
		}
		if err := h.sprintRepo.Create(sprint); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, sprint)
	}
}

func (h sprintHandler) getSprint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sprint)
	}
}

func (h sprintHandler) updateSprint() http.HandlerFunc {
	type request struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		StartDate   *time.Time           `json:"startDate"`
		EndDate     *time.Time           `json:"endDate"`
		Status      *models.SprintStatus `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if req.Title != nil {
			if len(*req.Title) < 3 {
				h.responder.WriteError(w, errs.NewValidationError("title", "must be at least 3 characters"))
				return
			}
			sprint.Title = *req.Title
		}
		if req.Description != nil {
			sprint.Description = *req.Description
		}
		if req.StartDate != nil {
			sprint.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			sprint.EndDate = req.EndDate
		}
		if req.Status != nil {
			switch *req.Status {
			case models.SprintPlanned, models.SprintInProgress, models.SprintCompleted:
				sprint.Status = *req.Status
			default:
				h.responder.WriteError(w, errs.NewValidationError("status", "unknown sprint status"))
				return
			}
		}
		if err := h.sprintRepo.Update(sprint); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sprint)
	}
}

func (h sprintHandler) deleteSprint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deliverables, err := h.deliverableRepo.FindBySprint(sprint.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.sprintRepo.Delete(sprint.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		// Stored files are cleaned up best-effort after the rows are gone.
		for _, d := range deliverables {
			if d.FilePublicID == "" {
				continue
			}
			if err := h.storage.Delete(d.FilePublicID); err != nil {
				h.logger.Error().Err(err).Str("publicId", d.FilePublicID).Msg("failed to delete deliverable file")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h sprintHandler) getDeliverables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deliverables, err := h.deliverableRepo.FindBySprint(sprint.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, deliverables)
	}
}

// createDeliverable records a submission against a sprint. Only team
// members submit; the file references come from the storage adapter.
func (h sprintHandler) createDeliverable() http.HandlerFunc {
	type request struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		FileURL      string `json:"fileUrl"`
		FilePublicID string `json:"filePublicId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sprint, scope, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !scope.isMember {
			h.responder.WriteError(w, errs.NewForbiddenError("only team members submit deliverables"))
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if len(req.Title) < 3 {
			h.responder.WriteError(w, errs.NewValidationError("title", "must be at least 3 characters"))
			return
		}
		deliverable := &models.Deliverable{
			SprintID:     sprint.ID,
			StudentID:    actor.Student.ID,
			Title:        req.Title,
			Description:  req.Description,
			FileURL:      req.FileURL,
			FilePublicID: req.FilePublicID,
			SubmittedAt:  time.Now(),
		}
		if err := h.deliverableRepo.Create(deliverable); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, deliverable)
	}
}

func (h sprintHandler) deleteDeliverable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deliverableID, err := parseIDParam(r, "deliverableID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deliverable, err := h.deliverableRepo.FindByID(deliverableID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if deliverable == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("deliverable not found"))
			return
		}
		if !actor.IsAdmin() && (actor.Student == nil || actor.Student.ID != deliverable.StudentID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the submitting student can delete the deliverable"))
			return
		}
		if err := h.deliverableRepo.Delete(deliverable.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if deliverable.FilePublicID != "" {
			if err := h.storage.Delete(deliverable.FilePublicID); err != nil {
				h.logger.Error().Err(err).Str("publicId", deliverable.FilePublicID).Msg("failed to delete deliverable file")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h sprintHandler) getNotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		notes, err := h.noteRepo.FindBySprint(sprint.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, notes)
	}
}

func (h sprintHandler) createNote() http.HandlerFunc {
	type request struct {
		Content string `json:"content"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, sprint, _, err := h.loadSprint(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewValidationError("content", "must not be empty"))
			return
		}
		note := &models.Note{
			SprintID:     sprint.ID,
			SenderUserID: actor.User.ID,
			Content:      req.Content,
			CreatedAt:    time.Now(),
		}
		if err := h.noteRepo.Create(note); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, note)
	}
}

func (h sprintHandler) deleteNote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		noteID, err := parseIDParam(r, "noteID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		note, err := h.noteRepo.FindByID(noteID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if note == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("note not found"))
			return
		}
		if !actor.IsAdmin() && note.SenderUserID != actor.User.ID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the sender can delete the note"))
			return
		}
		if err := h.noteRepo.Delete(note.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
