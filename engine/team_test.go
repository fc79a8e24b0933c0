package engine

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

func newTeamEnv(t *testing.T) (*fakeStore, *recordingNotifier, *TeamEngine) {
	t.Helper()
	store := newFakeStore()
	seedSkill(store, "Go")
	notifier := &recordingNotifier{}
	return store, notifier, NewTeamEngine(store, notifier)
}

func mustCreateOffer(t *testing.T, e *TeamEngine, leaderID uuid.UUID, maxMembers int) *models.TeamOffer {
	t.Helper()
	offer, err := e.CreateTeamOffer(leaderID, CreateTeamOfferInput{
		Title:         "Distributed build cache",
		Description:   "A content-addressed build cache for the campus CI fleet.",
		MaxMembers:    maxMembers,
		GeneralSkills: []string{"Go"},
	})
	require.NoError(t, err)
	return offer
}

func TestCreateTeamOffer_EnrollsLeader(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")

	offer := mustCreateOffer(t, e, leader.ID, 4)

	assert.Equal(t, models.OfferOpen, offer.Status)
	assert.Equal(t, sp.ID, offer.SpecialityID)
	assert.Equal(t, 5, offer.Year)

	member, err := store.TeamMembers().FindByOfferAndStudent(offer.ID, leader.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.True(t, leader.IsLeader)
	assert.True(t, leader.IsInTeam)
}

func TestCreateTeamOffer_CancelsLeaderPendingApplications(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	other := seedStudent(store, sp.ID, 5, "other@uni.edu")
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")

	otherOffer := mustCreateOffer(t, e, other.ID, 4)
	app, err := e.ApplyToOffer(leader.ID, otherOffer.ID, "count me in")
	require.NoError(t, err)

	mustCreateOffer(t, e, leader.ID, 3)

	assert.Equal(t, models.ApplicationCanceled, store.teamApps[app.ID].Status)
}

func TestCreateTeamOffer_RejectsSecondOffer(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	mustCreateOffer(t, e, leader.ID, 4)

	_, err := e.CreateTeamOffer(leader.ID, CreateTeamOfferInput{
		Title:         "Second offer",
		Description:   "One team offer per leader is the rule.",
		MaxMembers:    3,
		GeneralSkills: []string{"Go"},
	})
	assert.ErrorIs(t, err, errs.ErrHasOwnOffer)
}

func TestCreateTeamOffer_UnknownSkill(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")

	_, err := e.CreateTeamOffer(leader.ID, CreateTeamOfferInput{
		Title:         "Distributed build cache",
		Description:   "A content-addressed build cache for the campus CI fleet.",
		MaxMembers:    4,
		GeneralSkills: []string{"Go", "COBOL"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.True(t, strings.Contains(err.Error(), "COBOL"))
}

func TestCreateTeamOffer_ValidatesBounds(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")

	cases := []CreateTeamOfferInput{
		{Title: "ab", Description: "long enough description here", MaxMembers: 4, GeneralSkills: []string{"Go"}},
		{Title: "Valid title", Description: "too short", MaxMembers: 4, GeneralSkills: []string{"Go"}},
		{Title: "Valid title", Description: "long enough description here", MaxMembers: 0, GeneralSkills: []string{"Go"}},
		{Title: "Valid title", Description: "long enough description here", MaxMembers: 8, GeneralSkills: []string{"Go"}},
		{Title: "Valid title", Description: "long enough description here", MaxMembers: 4},
	}
	for _, in := range cases {
		_, err := e.CreateTeamOffer(leader.ID, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
	}
}

func TestApplyToOffer_CreatesPendingAndNotifiesLeader(t *testing.T) {
	store, notifier, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	app, err := e.ApplyToOffer(applicant.ID, offer.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, []string{"leader@uni.edu"}, notifier.received)
}

func TestApplyToOffer_ClosedOffer(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)
	require.NoError(t, store.TeamOffers().UpdateStatus(offer.ID, models.OfferClosed))

	_, err := e.ApplyToOffer(applicant.ID, offer.ID, "hello")
	assert.ErrorIs(t, err, errs.ErrOfferClosed)
}

func TestApplyToOffer_DuplicateRejected(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	_, err := e.ApplyToOffer(applicant.ID, offer.ID, "hello")
	require.NoError(t, err)
	_, err = e.ApplyToOffer(applicant.ID, offer.ID, "hello again")
	assert.ErrorIs(t, err, errs.ErrAlreadyApplied)
}

func TestApplyToOffer_RevivesCanceledApplication(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	app, err := e.ApplyToOffer(applicant.ID, offer.ID, "hello")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(applicant.ID, app.ID, models.ApplicationCanceled)
	require.NoError(t, err)

	revived, err := e.ApplyToOffer(applicant.ID, offer.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, app.ID, revived.ID)
	assert.Equal(t, models.ApplicationPending, revived.Status)
}

func TestApplyToOffer_DissolvesEmptySelfLedOffer(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 4)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	// Leader B has no members besides themself; applying to A dissolves
	// offer B.
	app, err := e.ApplyToOffer(leaderB.ID, offerA.ID, "joining you instead")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)

	gone, err := store.TeamOffers().FindByID(offerB.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.False(t, leaderB.IsLeader)
	assert.False(t, leaderB.IsInTeam)
}

func TestApplyToOffer_DissolutionDeletesReceivedApplications(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "c@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 4)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	// The dissolving offer has a live application against it. Dissolution
	// must take the row with it, not leave it pointing at a deleted offer.
	app, err := e.ApplyToOffer(applicant.ID, offerB.ID, "hi")
	require.NoError(t, err)

	_, err = e.ApplyToOffer(leaderB.ID, offerA.ID, "joining you instead")
	require.NoError(t, err)

	gone, err := store.TeamOffers().FindByID(offerB.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	assert.NotContains(t, store.teamApps, app.ID)
	for _, a := range store.teamApps {
		assert.NotEqual(t, offerB.ID, a.TeamOfferID)
	}
}

func TestApplyToOffer_AssignedSoloTeamDoesNotDissolve(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 4)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	projectID := uuid.New()
	store.teamOffers[offerB.ID].AssignedProjectID = &projectID

	_, err := e.ApplyToOffer(leaderB.ID, offerA.ID, "jumping ship")
	assert.ErrorIs(t, err, errs.ErrAlreadyInTeam)

	still, err := store.TeamOffers().FindByID(offerB.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestApplyToOffer_MemberElsewhereRejected(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	member := seedStudent(store, sp.ID, 5, "m@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 4)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	app, err := e.ApplyToOffer(member.ID, offerA.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leaderA.ID, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	_, err = e.ApplyToOffer(member.ID, offerB.ID, "hi")
	assert.ErrorIs(t, err, errs.ErrAlreadyInTeam)
}

func TestAcceptApplication_AddsMemberAndCancelsCompeting(t *testing.T) {
	store, notifier, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 4)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	appA, err := e.ApplyToOffer(applicant.ID, offerA.ID, "hi A")
	require.NoError(t, err)
	appB, err := e.ApplyToOffer(applicant.ID, offerB.ID, "hi B")
	require.NoError(t, err)

	accepted, err := e.UpdateApplicationStatus(leaderA.ID, appA.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.Status)

	member, err := store.TeamMembers().FindByOfferAndStudent(offerA.ID, applicant.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.True(t, applicant.IsInTeam)
	assert.False(t, applicant.IsLeader)

	// The applicant's other pending application went away with the accept.
	assert.Equal(t, models.ApplicationCanceled, store.teamApps[appB.ID].Status)
	assert.Equal(t, []bool{true}, notifier.decisions)
}

func TestAcceptApplication_CapacityCloseCascade(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	first := seedStudent(store, sp.ID, 5, "first@uni.edu")
	second := seedStudent(store, sp.ID, 5, "second@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 2)

	appFirst, err := e.ApplyToOffer(first.ID, offer.ID, "hi")
	require.NoError(t, err)
	appSecond, err := e.ApplyToOffer(second.ID, offer.ID, "hi")
	require.NoError(t, err)

	_, err = e.UpdateApplicationStatus(leader.ID, appFirst.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	assert.Equal(t, models.OfferClosed, store.teamOffers[offer.ID].Status)
	assert.Equal(t, models.ApplicationCanceled, store.teamApps[appSecond.ID].Status)

	// The closed offer no longer takes accepts.
	_, err = e.UpdateApplicationStatus(leader.ID, appSecond.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, errs.ErrBadTransition)
}

func TestAcceptApplication_TeamFull(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 1)

	// A solo offer is born at capacity.
	require.Equal(t, models.OfferClosed, store.teamOffers[offer.ID].Status)

	// Even if the offer were reopened, the capacity guard holds.
	store.teamOffers[offer.ID].Status = models.OfferOpen
	app, err := e.ApplyToOffer(applicant.ID, offer.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, errs.ErrTeamFull)
}

func TestUpdateApplicationStatus_TransitionGuards(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	applicant := seedStudent(store, sp.ID, 5, "applicant@uni.edu")
	outsider := seedStudent(store, sp.ID, 5, "outsider@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	app, err := e.ApplyToOffer(applicant.ID, offer.ID, "hi")
	require.NoError(t, err)

	// The applicant may not decide their own application.
	_, err = e.UpdateApplicationStatus(applicant.ID, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, errs.ErrBadTransition)

	// Strangers get forbidden, not a transition error.
	_, err = e.UpdateApplicationStatus(outsider.ID, app.ID, models.ApplicationRejected)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	// The leader may not cancel on the applicant's behalf.
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationCanceled)
	assert.ErrorIs(t, err, errs.ErrBadTransition)

	// Once rejected the application is terminal for both sides.
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationRejected)
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(applicant.ID, app.ID, models.ApplicationPending)
	assert.ErrorIs(t, err, errs.ErrBadTransition)
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, errs.ErrBadTransition)
}

func TestRemoveMember_ReopensAndReactivates(t *testing.T) {
	store, notifier, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leaderA := seedStudent(store, sp.ID, 5, "a@uni.edu")
	leaderB := seedStudent(store, sp.ID, 5, "b@uni.edu")
	member := seedStudent(store, sp.ID, 5, "member@uni.edu")
	offerA := mustCreateOffer(t, e, leaderA.ID, 2)
	offerB := mustCreateOffer(t, e, leaderB.ID, 4)

	appB, err := e.ApplyToOffer(member.ID, offerB.ID, "plan B")
	require.NoError(t, err)
	appA, err := e.ApplyToOffer(member.ID, offerA.ID, "plan A")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leaderA.ID, appA.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	// Capacity 2 was reached: offer A closed, the plan-B application got
	// canceled by the accept cascade.
	require.Equal(t, models.OfferClosed, store.teamOffers[offerA.ID].Status)
	require.Equal(t, models.ApplicationCanceled, store.teamApps[appB.ID].Status)

	require.NoError(t, e.RemoveMember(leaderA.ID, offerA.ID, member.ID))

	assert.Equal(t, models.OfferOpen, store.teamOffers[offerA.ID].Status)
	assert.Equal(t, models.ApplicationRejected, store.teamApps[appA.ID].Status)
	assert.Equal(t, models.ApplicationPending, store.teamApps[appB.ID].Status)
	assert.False(t, member.IsInTeam)

	gone, err := store.TeamMembers().FindByOfferAndStudent(offerA.ID, member.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, []string{"member@uni.edu"}, notifier.removed)
}

func TestRemoveMember_Guards(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	outsider := seedStudent(store, sp.ID, 5, "outsider@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	err := e.RemoveMember(outsider.ID, offer.ID, leader.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	err = e.RemoveMember(leader.ID, offer.ID, leader.ID)
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	err = e.RemoveMember(leader.ID, offer.ID, outsider.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAcceptedApplication_IsTerminal(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	member := seedStudent(store, sp.ID, 5, "member@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	app, err := e.ApplyToOffer(member.ID, offer.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	// Accepted is terminal for both sides; membership changes go through
	// RemoveMember.
	_, err = e.UpdateApplicationStatus(member.ID, app.ID, models.ApplicationCanceled)
	assert.ErrorIs(t, err, errs.ErrBadTransition)
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationRejected)
	assert.ErrorIs(t, err, errs.ErrBadTransition)
}

func TestDeleteOffer(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	member := seedStudent(store, sp.ID, 5, "member@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	app, err := e.ApplyToOffer(member.ID, offer.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leader.ID, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	err = e.DeleteOffer(leader.ID, offer.ID)
	assert.ErrorIs(t, err, errs.ErrHasMembers)

	require.NoError(t, e.RemoveMember(leader.ID, offer.ID, member.ID))
	require.NoError(t, e.DeleteOffer(leader.ID, offer.ID))

	gone, err := store.TeamOffers().FindByID(offer.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.False(t, leader.IsLeader)
	assert.False(t, leader.IsInTeam)
}

func TestDeleteOffer_RemovesHistoricalApplications(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	rejected := seedStudent(store, sp.ID, 5, "rejected@uni.edu")
	waverer := seedStudent(store, sp.ID, 5, "waverer@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 4)

	appR, err := e.ApplyToOffer(rejected.ID, offer.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(leader.ID, appR.ID, models.ApplicationRejected)
	require.NoError(t, err)

	appW, err := e.ApplyToOffer(waverer.ID, offer.ID, "hi")
	require.NoError(t, err)
	_, err = e.UpdateApplicationStatus(waverer.ID, appW.ID, models.ApplicationCanceled)
	require.NoError(t, err)

	// Historical rows must not block withdrawal, and none may outlive it.
	require.NoError(t, e.DeleteOffer(leader.ID, offer.ID))
	assert.NotContains(t, store.teamApps, appR.ID)
	assert.NotContains(t, store.teamApps, appW.ID)
}

func TestDeleteOffer_AssignedTeamRefused(t *testing.T) {
	store, _, e := newTeamEnv(t)
	sp := seedSpeciality(store, 5)
	leader := seedStudent(store, sp.ID, 5, "leader@uni.edu")
	offer := mustCreateOffer(t, e, leader.ID, 1)

	projectID := uuid.New()
	store.teamOffers[offer.ID].AssignedProjectID = &projectID

	err := e.DeleteOffer(leader.ID, offer.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)
}
