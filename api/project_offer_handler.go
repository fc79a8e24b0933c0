package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/services"
)

type projectOfferHandler struct {
	responder        Responder
	logger           zerolog.Logger
	projects         *engine.ProjectEngine
	projectOfferRepo *database.ProjectOfferRepo
	storage          services.Storage
}

func newProjectOfferHandler(projects *engine.ProjectEngine, db database.Database, storage services.Storage) projectOfferHandler {
	logger := log.With().Str("handlerName", "projectOfferHandler").Logger()
	return projectOfferHandler{
		responder:        NewResponder(logger),
		logger:           logger,
		projects:         projects,
		projectOfferRepo: db.ProjectOfferRepo(),
		storage:          storage,
	}
}

// getOffers lists project offers. Students see the open offers of their
// speciality; teachers and admins see everything.
func (h projectOfferHandler) getOffers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if actor.Student != nil {
			offers, err := h.projectOfferRepo.FindOpenForSpeciality(actor.Student.SpecialityID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, offers)
			return
		}
		offers, err := h.projectOfferRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, offers)
	}
}

// getMyOffers lists the offers owned by the calling teacher.
func (h projectOfferHandler) getMyOffers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacher, _, err := teacherFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if teacher == nil {
			h.responder.WriteError(w, errs.NewForbiddenError("admins have no offers of their own"))
			return
		}
		offers, err := h.projectOfferRepo.FindByTeacher(teacher.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, offers)
	}
}

// getHistory lists closed offers from past years.
func (h projectOfferHandler) getHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		beforeYear := time.Now().Year()
		if raw := r.URL.Query().Get("beforeYear"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewValidationError("beforeYear", "must be a number"))
				return
			}
			beforeYear = parsed
		}
		offers, err := h.projectOfferRepo.FindHistory(beforeYear)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, offers)
	}
}

func (h projectOfferHandler) getOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		h.responder.WriteJSON(w, offer)
	}
}

func (h projectOfferHandler) createOffer() http.HandlerFunc {
	type request struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Tools           []string `json:"tools"`
		Languages       []string `json:"languages"`
		MaxTeams        int      `json:"maxTeams"`
		SpecialityIDs   []string `json:"specialityIds"`
		CoSupervisorIDs []string `json:"coSupervisorIds"`
		ChosenTeamIDs   []string `json:"chosenTeamIds"`
		FileURL         *string  `json:"fileUrl"`
		FilePublicID    *string  `json:"filePublicId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		teacher, _, err := teacherFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if teacher == nil {
			h.responder.WriteError(w, errs.NewForbiddenError("only teachers create project offers"))
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		specialityIDs, err := parseUUIDs(req.SpecialityIDs, "specialityIds")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		coSupervisorIDs, err := parseUUIDs(req.CoSupervisorIDs, "coSupervisorIds")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		chosenTeamIDs, err := parseUUIDs(req.ChosenTeamIDs, "chosenTeamIds")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		offer, err := h.projects.CreateProjectOffer(teacher.ID, engine.CreateProjectOfferInput{
			Title:           req.Title,
			Description:     req.Description,
			Tools:           req.Tools,
			Languages:       req.Languages,
			MaxTeams:        req.MaxTeams,
			SpecialityIDs:   specialityIDs,
			CoSupervisorIDs: coSupervisorIDs,
			ChosenTeamIDs:   chosenTeamIDs,
			FileURL:         req.FileURL,
			FilePublicID:    req.FilePublicID,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, offer)
	}
}

func (h projectOfferHandler) deleteOffer() http.HandlerFunc {
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
		teacherID := uuid.Nil
		if teacher != nil {
			teacherID = teacher.ID
		}
		offer, err := h.projects.DeleteOffer(teacherID, admin, offerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		// The attachment cleanup is best-effort.
		if offer.FilePublicID != nil {
			if err := h.storage.Delete(*offer.FilePublicID); err != nil {
				h.logger.Error().Err(err).Str("publicId", *offer.FilePublicID).Msg("failed to delete offer attachment")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseUUIDs(raw []string, field string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errs.NewValidationError(field, "must contain valid UUIDs")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
