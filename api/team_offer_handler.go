package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/errs"
)

type teamOfferHandler struct {
	responder     Responder
	logger        zerolog.Logger
	teams         *engine.TeamEngine
	teamOfferRepo *database.TeamOfferRepo
}

func newTeamOfferHandler(teams *engine.TeamEngine, db database.Database) teamOfferHandler {
	logger := log.With().Str("handlerName", "teamOfferHandler").Logger()
	return teamOfferHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		teams:         teams,
		teamOfferRepo: db.TeamOfferRepo(),
	}
}

// getOpenOffers lists the open offers of the caller's speciality.
func (h teamOfferHandler) getOpenOffers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := studentFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offers, err := h.teamOfferRepo.FindAllOpen(student.SpecialityID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, offers)
	}
}

func (h teamOfferHandler) getOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, err := parseIDParam(r, "offerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		offer, err := h.teamOfferRepo.FindByID(offerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if offer == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("team offer not found"))
			return
		}
		h.responder.WriteJSON(w, offer)
	}
}

// getMyOffer returns the caller's own team offer with members and pending
// applications context.
func (h teamOfferHandler) getMyOffer() http.HandlerFunc {
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
		full, err := h.teamOfferRepo.FindByID(offer.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, full)
	}
}

func (h teamOfferHandler) createOffer() http.HandlerFunc {
	type request struct {
		Title          string   `json:"title"`
		Description    string   `json:"description"`
		MaxMembers     int      `json:"maxMembers"`
		GeneralSkills  []string `json:"generalSkills"`
		SpecificSkills []string `json:"specificSkills"`
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
		offer, err := h.teams.CreateTeamOffer(student.ID, engine.CreateTeamOfferInput{
			Title:          req.Title,
			Description:    req.Description,
			MaxMembers:     req.MaxMembers,
			GeneralSkills:  req.GeneralSkills,
			SpecificSkills: req.SpecificSkills,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, offer)
	}
}

func (h teamOfferHandler) deleteOffer() http.HandlerFunc {
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
		if err := h.teams.DeleteOffer(student.ID, offerID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h teamOfferHandler) removeMember() http.HandlerFunc {
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
		memberID, err := parseIDParam(r, "studentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.teams.RemoveMember(student.ID, offerID, memberID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
