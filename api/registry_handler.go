package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// registryHandler serves the reference data: skill catalog, specialities
// and per-year assignment policies.
type registryHandler struct {
	responder          Responder
	logger             zerolog.Logger
	registry           *engine.RegistryEngine
	skillRepo          *database.SkillRepo
	studentRepo        *database.StudentRepo
	specialityRepo     *database.SpecialityRepo
	assignmentTypeRepo *database.AssignmentTypeRepo
}

func newRegistryHandler(registry *engine.RegistryEngine, db database.Database) registryHandler {
	logger := log.With().Str("handlerName", "registryHandler").Logger()
	return registryHandler{
		responder:          NewResponder(logger),
		logger:             logger,
		registry:           registry,
		skillRepo:          db.SkillRepo(),
		studentRepo:        db.StudentRepo(),
		specialityRepo:     db.SpecialityRepo(),
		assignmentTypeRepo: db.AssignmentTypeRepo(),
	}
}

func (h registryHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skillRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, skills)
	}
}

func (h registryHandler) createSkill() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		skill, err := h.registry.CreateSkill(req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, skill)
	}
}

func (h registryHandler) updateSkill() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		skill, err := h.registry.UpdateSkill(skillID, req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, skill)
	}
}

func (h registryHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := parseIDParam(r, "skillID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.registry.DeleteSkill(skillID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h registryHandler) addMySkills() http.HandlerFunc {
	type request struct {
		Skills []string `json:"skills"`
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
		if err := h.registry.AddStudentSkills(student.ID, req.Skills); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		refreshed, err := h.studentRepo.FindByID(student.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, refreshed)
	}
}

func (h registryHandler) getAllSpecialities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialities, err := h.specialityRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, specialities)
	}
}

func (h registryHandler) createSpeciality() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "speciality name is required"))
			return
		}
		if req.Year < models.MinSpecialityYear || req.Year > models.MaxSpecialityYear {
			h.responder.WriteError(w, errs.NewValidationError("year", "year must be between 1 and 5"))
			return
		}
		speciality := &models.Speciality{Name: req.Name, Year: req.Year}
		if err := h.specialityRepo.Create(speciality); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, speciality)
	}
}

func (h registryHandler) updateSpeciality() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		specialityID, err := parseIDParam(r, "specialityID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		speciality, err := h.specialityRepo.FindByID(specialityID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if speciality == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("speciality not found"))
			return
		}
		if req.Name != "" {
			speciality.Name = req.Name
		}
		if req.Year != 0 {
			if req.Year < models.MinSpecialityYear || req.Year > models.MaxSpecialityYear {
				h.responder.WriteError(w, errs.NewValidationError("year", "year must be between 1 and 5"))
				return
			}
			speciality.Year = req.Year
		}
		if err := h.specialityRepo.Update(speciality); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, speciality)
	}
}

func (h registryHandler) deleteSpeciality() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialityID, err := parseIDParam(r, "specialityID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.specialityRepo.Delete(specialityID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h registryHandler) getAllAssignmentTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policies, err := h.assignmentTypeRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, policies)
	}
}

func (h registryHandler) setAssignmentType() http.HandlerFunc {
	type request struct {
		Year           int                   `json:"year"`
		AssignmentType models.AssignmentType `json:"assignmentType"`
		Propagate      bool                  `json:"propagate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		policy, err := h.registry.SetYearPolicy(req.Year, req.AssignmentType, req.Propagate)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, policy)
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}
