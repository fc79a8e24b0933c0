package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type projectApplicationHandler struct {
	responder              Responder
	logger                 zerolog.Logger
	projects               *engine.ProjectEngine
	projectOfferRepo       *database.ProjectOfferRepo
	projectApplicationRepo *database.ProjectApplicationRepo
	teamOfferRepo          *database.TeamOfferRepo
	teamMemberRepo         *database.TeamMemberRepo
}

func newProjectApplicationHandler(projects *engine.ProjectEngine, db database.Database) projectApplicationHandler {
	logger := log.With().Str("handlerName", "projectApplicationHandler").Logger()
	return projectApplicationHandler{
		responder:              NewResponder(logger),
		logger:                 logger,
		projects:               projects,
		projectOfferRepo:       db.ProjectOfferRepo(),
		projectApplicationRepo: db.ProjectApplicationRepo(),
		teamOfferRepo:          db.TeamOfferRepo(),
		teamMemberRepo:         db.TeamMemberRepo(),
	}
}

// apply files a team's application to a project offer. Only the team
// leader may apply; offers with an automatic policy assign immediately.
func (h projectApplicationHandler) apply() http.HandlerFunc {
	type request struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offerID, err := parseIDParam(r, "offerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		result, err := h.projects.ApplyToProject(student.ID, offerID, req.Message)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if result.AssignedDirectly {
			h.responder.WriteJSON(w, result)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, result)
	}
}

// getForOffer lists the applications filed against one offer. Restricted
// to the owning teacher and admins.
func (h projectApplicationHandler) getForOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacher, admin, err := teacherFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offerID, err := parseIDParam(r, "offerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offer, err := h.projectOfferRepo.FindByID(offerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if offer == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project offer not found"))
			return
		}
		if !admin && (teacher == nil || offer.TeacherID != teacher.ID) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owning teacher sees the applications"))
			return
		}
		apps, err := h.projectApplicationRepo.FindByProject(offerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, apps)
	}
}

// getMine lists the applications of the caller's team.
func (h projectApplicationHandler) getMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		member, err := h.teamMemberRepo.FindByStudent(student.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if member == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("you are not part of a team"))
			return
		}
		apps, err := h.projectApplicationRepo.FindByTeam(member.TeamOfferID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, apps)
	}
}

// getAssignedProject returns the project assigned to the caller's team,
// or 404 when none is assigned yet.
func (h projectApplicationHandler) getAssignedProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		member, err := h.teamMemberRepo.FindByStudent(student.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if member == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("you are not part of a team"))
			return
		}
		team, err := h.teamOfferRepo.FindByID(member.TeamOfferID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if team == nil || team.AssignedProjectID == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("your team has no assigned project"))
			return
		}
		project, err := h.projectOfferRepo.FindByID(*team.AssignedProjectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("your team has no assigned project"))
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

func (h projectApplicationHandler) accept() http.HandlerFunc {
	return h.decide(true)
}

func (h projectApplicationHandler) reject() http.HandlerFunc {
	return h.decide(false)
}

func (h projectApplicationHandler) decide(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacher, admin, err := teacherFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := parseIDParam(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		teacherID := uuid.Nil
		if teacher != nil {
			teacherID = teacher.ID
		}
		var app *models.ProjectApplication
		if accept {
			app, err = h.projects.AcceptApplication(teacherID, admin, applicationID)
		} else {
			app, err = h.projects.RejectApplication(teacherID, admin, applicationID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, app)
	}
}

func (h projectApplicationHandler) cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := parseIDParam(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		app, err := h.projects.CancelApplication(student.ID, applicationID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, app)
	}
}
