package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

func TestSkillCatalog_CRUD(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)

	skill, err := e.CreateSkill("  Go  ")
	require.NoError(t, err)
	assert.Equal(t, "Go", skill.Name)

	_, err = e.CreateSkill("Go")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = e.CreateSkill("   ")
	assert.ErrorIs(t, err, errs.ErrValidation)

	renamed, err := e.UpdateSkill(skill.ID, "Golang")
	require.NoError(t, err)
	assert.Equal(t, "Golang", renamed.Name)

	other, err := e.CreateSkill("Rust")
	require.NoError(t, err)
	_, err = e.UpdateSkill(other.ID, "Golang")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestDeleteSkill_DetachesEverywhere(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)
	sp := seedSpeciality(store, 5)
	student := seedStudent(store, sp.ID, 5, "s@uni.edu")
	skill := seedSkill(store, "Go")
	student.Skills = []models.Skill{*skill}
	offer := &models.TeamOffer{LeaderID: student.ID, GeneralSkills: []models.Skill{*skill}}
	require.NoError(t, store.TeamOffers().Create(offer))

	require.NoError(t, e.DeleteSkill(skill.ID))

	assert.Empty(t, student.Skills)
	assert.Empty(t, store.teamOffers[offer.ID].GeneralSkills)
	gone, err := store.Skills().FindByID(skill.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, e.DeleteSkill(skill.ID), errs.ErrNotFound)
}

func TestAddStudentSkills_SplitsKnownAndCustom(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)
	sp := seedSpeciality(store, 5)
	student := seedStudent(store, sp.ID, 5, "s@uni.edu")
	seedSkill(store, "Go")

	require.NoError(t, e.AddStudentSkills(student.ID, []string{"Go", "go", "Zig", " Zig "}))

	require.Len(t, student.Skills, 1)
	assert.Equal(t, "Go", student.Skills[0].Name)
	assert.Equal(t, []string{"Zig"}, []string(student.CustomSkills))

	// Re-adding is a no-op, not an error.
	require.NoError(t, e.AddStudentSkills(student.ID, []string{"Go", "Zig"}))
	assert.Len(t, student.Skills, 1)
	assert.Len(t, student.CustomSkills, 1)
}

func TestAddStudentSkills_RequiresInput(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)

	err := e.AddStudentSkills(seedStudent(store, seedSpeciality(store, 5).ID, 5, "s@uni.edu").ID, []string{"  ", ""})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSetYearPolicy(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)

	policy, err := e.SetYearPolicy(5, models.AssignmentAuto, false)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentAuto, policy.AssignmentType)

	// Updating replaces, never duplicates.
	updated, err := e.SetYearPolicy(5, models.AssignmentTeacherApproval, false)
	require.NoError(t, err)
	assert.Equal(t, policy.ID, updated.ID)
	assert.Len(t, store.policies, 1)

	_, err = e.SetYearPolicy(0, models.AssignmentAuto, false)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = e.SetYearPolicy(5, "lottery", false)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSetYearPolicy_Propagates(t *testing.T) {
	store := newFakeStore()
	e := NewRegistryEngine(store)

	open := &models.ProjectOffer{Year: 5, Status: models.OfferOpen, AssignmentType: models.AssignmentAuto}
	closed := &models.ProjectOffer{Year: 5, Status: models.OfferClosed, AssignmentType: models.AssignmentAuto}
	otherYear := &models.ProjectOffer{Year: 4, Status: models.OfferOpen, AssignmentType: models.AssignmentAuto}
	require.NoError(t, store.ProjectOffers().Create(open))
	require.NoError(t, store.ProjectOffers().Create(closed))
	require.NoError(t, store.ProjectOffers().Create(otherYear))

	_, err := e.SetYearPolicy(5, models.AssignmentTeacherApproval, true)
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentTeacherApproval, open.AssignmentType)
	assert.Equal(t, models.AssignmentAuto, closed.AssignmentType)
	assert.Equal(t, models.AssignmentAuto, otherYear.AssignmentType)

	// Without propagation existing offers keep their frozen policy.
	_, err = e.SetYearPolicy(5, models.AssignmentAmiability, false)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentTeacherApproval, open.AssignmentType)
}
