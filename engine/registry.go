package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// RegistryEngine manages the reference data the offer engines build on:
// the skill catalog, student skill sets and the per-year assignment
// policies.
type RegistryEngine struct {
	store  Store
	logger zerolog.Logger
}

func NewRegistryEngine(store Store) *RegistryEngine {
	return &RegistryEngine{
		store:  store,
		logger: log.With().Str("engine", "registry").Logger(),
	}
}

func normalizeSkillName(name string) string {
	return strings.TrimSpace(name)
}

// CreateSkill adds a skill to the catalog. Names are unique.
func (e *RegistryEngine) CreateSkill(name string) (*models.Skill, error) {
	name = normalizeSkillName(name)
	if name == "" {
		return nil, errs.NewValidationError("name", "skill name is required")
	}

	var created *models.Skill
	err := e.store.InTx(func(tx Store) error {
		existing, err := tx.Skills().FindByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.NewAlreadyExists("skill")
		}
		created = &models.Skill{Name: name}
		return tx.Skills().Create(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateSkill renames a skill; every student and team offer referencing it
// sees the new name.
func (e *RegistryEngine) UpdateSkill(id uuid.UUID, name string) (*models.Skill, error) {
	name = normalizeSkillName(name)
	if name == "" {
		return nil, errs.NewValidationError("name", "skill name is required")
	}

	var updated *models.Skill
	err := e.store.InTx(func(tx Store) error {
		skill, err := tx.Skills().FindByID(id)
		if err != nil {
			return err
		}
		if skill == nil {
			return errs.NewNotFound("skill")
		}
		other, err := tx.Skills().FindByName(name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return errs.NewAlreadyExists("skill")
		}
		skill.Name = name
		if err := tx.Skills().Update(skill); err != nil {
			return err
		}
		updated = skill
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSkill removes a skill from the catalog and detaches it from every
// student and team offer in the same transaction.
func (e *RegistryEngine) DeleteSkill(id uuid.UUID) error {
	return e.store.InTx(func(tx Store) error {
		skill, err := tx.Skills().FindByID(id)
		if err != nil {
			return err
		}
		if skill == nil {
			return errs.NewNotFound("skill")
		}
		if err := tx.Skills().DetachEverywhere(id); err != nil {
			return err
		}
		return tx.Skills().Delete(id)
	})
}

// AddStudentSkills attaches catalog skills to a student. Names already in
// the catalog attach directly; unknown names land in the student's custom
// skill list for an admin to promote later. Duplicates are ignored.
func (e *RegistryEngine) AddStudentSkills(studentID uuid.UUID, names []string) error {
	seen := make(map[string]struct{}, len(names))
	cleaned := make([]string, 0, len(names))
	for _, raw := range names {
		name := normalizeSkillName(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return errs.NewValidationError("skills", "at least one skill name is required")
	}

	return e.store.InTx(func(tx Store) error {
		student, err := tx.Students().FindByID(studentID)
		if err != nil {
			return err
		}
		if student == nil {
			return errs.NewNotFound("student")
		}
		for _, name := range cleaned {
			skill, err := tx.Skills().FindByName(name)
			if err != nil {
				return err
			}
			if skill == nil {
				if containsFold(student.CustomSkills, name) {
					continue
				}
				if err := tx.Students().AppendCustomSkill(studentID, name); err != nil {
					return err
				}
				continue
			}
			has, err := tx.Skills().StudentHasSkill(studentID, skill.ID)
			if err != nil {
				return err
			}
			if has {
				continue
			}
			if err := tx.Skills().AttachToStudent(studentID, skill.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// SetYearPolicy creates or replaces the assignment policy for a year.
// Propagate additionally rewrites the assignment type on the year's open
// project offers; without it existing offers keep the policy they were
// created under.
func (e *RegistryEngine) SetYearPolicy(year int, t models.AssignmentType, propagate bool) (*models.YearAssignmentType, error) {
	if year < models.MinSpecialityYear || year > models.MaxSpecialityYear {
		return nil, errs.NewValidationError("year", "year must be between 1 and 5")
	}
	if !t.Valid() {
		return nil, errs.NewValidationError("assignmentType", "unknown assignment type "+string(t))
	}

	var policy *models.YearAssignmentType
	err := e.store.InTx(func(tx Store) error {
		existing, err := tx.AssignmentTypes().FindByYear(year)
		if err != nil {
			return err
		}
		if existing == nil {
			policy = &models.YearAssignmentType{Year: year, AssignmentType: t}
			if err := tx.AssignmentTypes().Create(policy); err != nil {
				return err
			}
		} else {
			existing.AssignmentType = t
			if err := tx.AssignmentTypes().Update(existing); err != nil {
				return err
			}
			policy = existing
		}
		if propagate {
			return tx.ProjectOffers().SetAssignmentTypeForYear(year, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}
