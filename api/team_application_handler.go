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

type teamApplicationHandler struct {
	responder           Responder
	logger              zerolog.Logger
	teams               *engine.TeamEngine
	teamOfferRepo       *database.TeamOfferRepo
	teamApplicationRepo *database.TeamApplicationRepo
}

func newTeamApplicationHandler(teams *engine.TeamEngine, db database.Database) teamApplicationHandler {
	logger := log.With().Str("handlerName", "teamApplicationHandler").Logger()
	return teamApplicationHandler{
		responder:           NewResponder(logger),
		logger:              logger,
		teams:               teams,
		teamOfferRepo:       db.TeamOfferRepo(),
		teamApplicationRepo: db.TeamApplicationRepo(),
	}
}

func (h teamApplicationHandler) apply() http.HandlerFunc {
	type request struct {
		TeamOfferID string `json:"teamOfferId"`
		Message     string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		offerID, err := uuid.Parse(req.TeamOfferID)
		if err != nil {
			h.responder.WriteError(w, errs.NewValidationError("teamOfferId", "must be a valid UUID"))
			return
		}
		app, err := h.teams.ApplyToOffer(student.ID, offerID, req.Message)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, app)
	}
}

// getMine lists the caller's applications across offers.
func (h teamApplicationHandler) getMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		apps, err := h.teamApplicationRepo.FindByStudent(student.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, apps)
	}
}

// getForMyOffer lists the applications to the caller's own offer.
func (h teamApplicationHandler) getForMyOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offer, err := h.teamOfferRepo.FindByLeader(student.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if offer == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("you have no team offer"))
			return
		}
		apps, err := h.teamApplicationRepo.FindByOffer(offer.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, apps)
	}
}

// updateStatus drives accept/reject (leader) and cancel/revive (applicant).
func (h teamApplicationHandler) updateStatus() http.HandlerFunc {
	type request struct {
		Status models.ApplicationStatus `json:"status"`
	}
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
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		app, err := h.teams.UpdateApplicationStatus(student.ID, applicationID, req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, app)
	}
}
