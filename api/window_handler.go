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
)

type windowHandler struct {
	responder      Responder
	logger         zerolog.Logger
	windowRepo     *database.WindowRepo
	specialityRepo *database.SpecialityRepo
}

func newWindowHandler(db database.Database) windowHandler {
	logger := log.With().Str("handlerName", "windowHandler").Logger()
	return windowHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		windowRepo:     db.WindowRepo(),
		specialityRepo: db.SpecialityRepo(),
	}
}

type windowRequest struct {
	SpecialityID string    `json:"specialityId"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

func (req windowRequest) validate() (uuid.UUID, error) {
	specialityID, err := uuid.Parse(req.SpecialityID)
	if err != nil {
		return uuid.Nil, errs.NewValidationError("specialityId", "must be a valid UUID")
	}
	if !req.EndDate.After(req.StartDate) {
		return uuid.Nil, errs.NewValidationError("endDate", "must be after startDate")
	}
	return specialityID, nil
}

// getCompositionWindows lists composition windows. Students only see
// the windows of their own speciality.
func (h windowHandler) getCompositionWindows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialityID, err := h.scopeForCaller(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		windows, err := h.windowRepo.FindCompositionWindows(specialityID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, windows)
	}
}

func (h windowHandler) getSelectionWindows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialityID, err := h.scopeForCaller(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		windows, err := h.windowRepo.FindSelectionWindows(specialityID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, windows)
	}
}

func (h windowHandler) scopeForCaller(r *http.Request) (*uuid.UUID, error) {
	actor, err := actorFromCtx(r.Context())
	if err != nil {
		return nil, err
	}
	if actor.Student != nil {
		id := actor.Student.SpecialityID
		return &id, nil
	}
	if raw := r.URL.Query().Get("specialityId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errs.NewValidationError("specialityId", "must be a valid UUID")
		}
		return &id, nil
	}
	return nil, nil
}

func (h windowHandler) createCompositionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req windowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		specialityID, err := req.validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.checkSpeciality(specialityID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		window := &models.TeamCompositionWindow{
			SpecialityID: specialityID,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
		}
		if err := h.windowRepo.CreateCompositionWindow(window); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, window)
	}
}

func (h windowHandler) createSelectionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req windowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		specialityID, err := req.validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.checkSpeciality(specialityID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		window := &models.ProjectSelectionWindow{
			SpecialityID: specialityID,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
		}
		if err := h.windowRepo.CreateSelectionWindow(window); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, window)
	}
}

func (h windowHandler) updateCompositionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowID, err := parseIDParam(r, "windowID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req windowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		specialityID, err := req.validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		window, err := h.windowRepo.FindCompositionWindowByID(windowID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if window == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("window not found"))
			return
		}
		window.SpecialityID = specialityID
		window.StartDate = req.StartDate
		window.EndDate = req.EndDate
		if err := h.windowRepo.UpdateCompositionWindow(window); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, window)
	}
}

func (h windowHandler) updateSelectionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowID, err := parseIDParam(r, "windowID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req windowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		specialityID, err := req.validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		window, err := h.windowRepo.FindSelectionWindowByID(windowID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if window == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("window not found"))
			return
		}
		window.SpecialityID = specialityID
		window.StartDate = req.StartDate
		window.EndDate = req.EndDate
		if err := h.windowRepo.UpdateSelectionWindow(window); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, window)
	}
}

func (h windowHandler) deleteCompositionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowID, err := parseIDParam(r, "windowID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.windowRepo.DeleteCompositionWindow(windowID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h windowHandler) deleteSelectionWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowID, err := parseIDParam(r, "windowID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.windowRepo.DeleteSelectionWindow(windowID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h windowHandler) checkSpeciality(id uuid.UUID) error {
	speciality, err := h.specialityRepo.FindByID(id)
	if err != nil {
		return err
	}
	if speciality == nil {
		return errs.NewNotFoundError("speciality not found")
	}
	return nil
}
