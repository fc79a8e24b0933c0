package engine

import (
	"github.com/google/uuid"

	"github.com/pfe-hub/capstone-backend/models"
)

// fakeStore is an in-memory Store for engine tests. InTx runs the callback
// against the same store; rollback behavior is the database layer's
// concern, the engines only need the accessors to behave.
type fakeStore struct {
	students     map[uuid.UUID]*models.Student
	teachers     map[uuid.UUID]*models.Teacher
	skills       map[uuid.UUID]*models.Skill
	specialities map[uuid.UUID]*models.Speciality
	policies     map[uuid.UUID]*models.YearAssignmentType
	teamOffers   map[uuid.UUID]*models.TeamOffer
	teamMembers  map[uuid.UUID]*models.TeamMember
	teamApps     map[uuid.UUID]*models.TeamApplication
	projOffers   map[uuid.UUID]*models.ProjectOffer
	projApps     map[uuid.UUID]*models.ProjectApplication
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:     map[uuid.UUID]*models.Student{},
		teachers:     map[uuid.UUID]*models.Teacher{},
		skills:       map[uuid.UUID]*models.Skill{},
		specialities: map[uuid.UUID]*models.Speciality{},
		policies:     map[uuid.UUID]*models.YearAssignmentType{},
		teamOffers:   map[uuid.UUID]*models.TeamOffer{},
		teamMembers:  map[uuid.UUID]*models.TeamMember{},
		teamApps:     map[uuid.UUID]*models.TeamApplication{},
		projOffers:   map[uuid.UUID]*models.ProjectOffer{},
		projApps:     map[uuid.UUID]*models.ProjectApplication{},
	}
}

func (s *fakeStore) InTx(fn func(Store) error) error { return fn(s) }

func (s *fakeStore) Students() StudentStore                   { return fakeStudents{s} }
func (s *fakeStore) Teachers() TeacherStore                   { return fakeTeachers{s} }
func (s *fakeStore) Skills() SkillStore                       { return fakeSkills{s} }
func (s *fakeStore) Specialities() SpecialityStore            { return fakeSpecialities{s} }
func (s *fakeStore) AssignmentTypes() AssignmentTypeStore     { return fakePolicies{s} }
func (s *fakeStore) TeamOffers() TeamOfferStore               { return fakeTeamOffers{s} }
func (s *fakeStore) TeamMembers() TeamMemberStore             { return fakeTeamMembers{s} }
func (s *fakeStore) TeamApplications() TeamApplicationStore   { return fakeTeamApps{s} }
func (s *fakeStore) ProjectOffers() ProjectOfferStore         { return fakeProjOffers{s} }
func (s *fakeStore) ProjectApplications() ProjectApplicationStore {
	return fakeProjApps{s}
}

type fakeStudents struct{ s *fakeStore }

func (f fakeStudents) FindByID(id uuid.UUID) (*models.Student, error) {
	st, ok := f.s.students[id]
	if !ok {
		return nil, nil
	}
	return st, nil
}

func (f fakeStudents) SetTeamFlags(id uuid.UUID, isLeader, isInTeam bool) error {
	if st, ok := f.s.students[id]; ok {
		st.IsLeader, st.IsInTeam = isLeader, isInTeam
	}
	return nil
}

func (f fakeStudents) AppendCustomSkill(id uuid.UUID, skill string) error {
	if st, ok := f.s.students[id]; ok {
		st.CustomSkills = append(st.CustomSkills, skill)
	}
	return nil
}

type fakeTeachers struct{ s *fakeStore }

func (f fakeTeachers) FindByID(id uuid.UUID) (*models.Teacher, error) {
	t, ok := f.s.teachers[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

type fakeSkills struct{ s *fakeStore }

func (f fakeSkills) FindByID(id uuid.UUID) (*models.Skill, error) {
	sk, ok := f.s.skills[id]
	if !ok {
		return nil, nil
	}
	return sk, nil
}

func (f fakeSkills) FindByName(name string) (*models.Skill, error) {
	for _, sk := range f.s.skills {
		if sk.Name == name {
			return sk, nil
		}
	}
	return nil, nil
}

func (f fakeSkills) FindByNames(names []string) ([]models.Skill, error) {
	var out []models.Skill
	for _, name := range names {
		if sk, _ := f.FindByName(name); sk != nil {
			out = append(out, *sk)
		}
	}
	return out, nil
}

func (f fakeSkills) Create(skill *models.Skill) error {
	skill.ID = uuid.New()
	f.s.skills[skill.ID] = skill
	return nil
}

func (f fakeSkills) Update(skill *models.Skill) error {
	f.s.skills[skill.ID] = skill
	return nil
}

func (f fakeSkills) Delete(id uuid.UUID) error {
	delete(f.s.skills, id)
	return nil
}

func (f fakeSkills) DetachEverywhere(id uuid.UUID) error {
	for _, st := range f.s.students {
		st.Skills = withoutSkill(st.Skills, id)
	}
	for _, offer := range f.s.teamOffers {
		offer.GeneralSkills = withoutSkill(offer.GeneralSkills, id)
	}
	return nil
}

func (f fakeSkills) AttachToStudent(studentID, skillID uuid.UUID) error {
	st := f.s.students[studentID]
	sk := f.s.skills[skillID]
	st.Skills = append(st.Skills, *sk)
	return nil
}

func (f fakeSkills) StudentHasSkill(studentID, skillID uuid.UUID) (bool, error) {
	st, ok := f.s.students[studentID]
	if !ok {
		return false, nil
	}
	for _, sk := range st.Skills {
		if sk.ID == skillID {
			return true, nil
		}
	}
	return false, nil
}

func withoutSkill(skills []models.Skill, id uuid.UUID) []models.Skill {
	out := skills[:0]
	for _, sk := range skills {
		if sk.ID != id {
			out = append(out, sk)
		}
	}
	return out
}

type fakeSpecialities struct{ s *fakeStore }

func (f fakeSpecialities) FindByIDs(ids []uuid.UUID) ([]models.Speciality, error) {
	var out []models.Speciality
	for _, id := range ids {
		if sp, ok := f.s.specialities[id]; ok {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (f fakeSpecialities) IDsByYear(year int) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, sp := range f.s.specialities {
		if sp.Year == year {
			out = append(out, sp.ID)
		}
	}
	return out, nil
}

type fakePolicies struct{ s *fakeStore }

func (f fakePolicies) FindByID(id uuid.UUID) (*models.YearAssignmentType, error) {
	p, ok := f.s.policies[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (f fakePolicies) FindByYear(year int) (*models.YearAssignmentType, error) {
	for _, p := range f.s.policies {
		if p.Year == year {
			return p, nil
		}
	}
	return nil, nil
}

func (f fakePolicies) Create(t *models.YearAssignmentType) error {
	t.ID = uuid.New()
	f.s.policies[t.ID] = t
	return nil
}

func (f fakePolicies) Update(t *models.YearAssignmentType) error {
	f.s.policies[t.ID] = t
	return nil
}

type fakeTeamOffers struct{ s *fakeStore }

func (f fakeTeamOffers) FindByID(id uuid.UUID) (*models.TeamOffer, error) {
	o, ok := f.s.teamOffers[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (f fakeTeamOffers) FindByIDForUpdate(id uuid.UUID) (*models.TeamOffer, error) {
	return f.FindByID(id)
}

func (f fakeTeamOffers) FindByLeader(studentID uuid.UUID) (*models.TeamOffer, error) {
	for _, o := range f.s.teamOffers {
		if o.LeaderID == studentID {
			return o, nil
		}
	}
	return nil, nil
}

func (f fakeTeamOffers) Create(offer *models.TeamOffer) error {
	offer.ID = uuid.New()
	f.s.teamOffers[offer.ID] = offer
	return nil
}

func (f fakeTeamOffers) UpdateStatus(id uuid.UUID, status models.OfferStatus) error {
	f.s.teamOffers[id].Status = status
	return nil
}

func (f fakeTeamOffers) SetAssignedProject(id uuid.UUID, projectID *uuid.UUID) error {
	f.s.teamOffers[id].AssignedProjectID = projectID
	return nil
}

func (f fakeTeamOffers) Delete(id uuid.UUID) error {
	delete(f.s.teamOffers, id)
	return nil
}

type fakeTeamMembers struct{ s *fakeStore }

func (f fakeTeamMembers) CountByOffer(offerID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range f.s.teamMembers {
		if m.TeamOfferID == offerID {
			n++
		}
	}
	return n, nil
}

func (f fakeTeamMembers) FindByStudent(studentID uuid.UUID) (*models.TeamMember, error) {
	for _, m := range f.s.teamMembers {
		if m.StudentID == studentID {
			return m, nil
		}
	}
	return nil, nil
}

func (f fakeTeamMembers) FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamMember, error) {
	for _, m := range f.s.teamMembers {
		if m.TeamOfferID == offerID && m.StudentID == studentID {
			return m, nil
		}
	}
	return nil, nil
}

func (f fakeTeamMembers) Create(member *models.TeamMember) error {
	member.ID = uuid.New()
	f.s.teamMembers[member.ID] = member
	return nil
}

func (f fakeTeamMembers) Delete(id uuid.UUID) error {
	delete(f.s.teamMembers, id)
	return nil
}

type fakeTeamApps struct{ s *fakeStore }

func (f fakeTeamApps) FindByID(id uuid.UUID) (*models.TeamApplication, error) {
	a, ok := f.s.teamApps[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (f fakeTeamApps) FindByOfferAndStudent(offerID, studentID uuid.UUID) (*models.TeamApplication, error) {
	for _, a := range f.s.teamApps {
		if a.TeamOfferID == offerID && a.StudentID == studentID {
			return a, nil
		}
	}
	return nil, nil
}

func (f fakeTeamApps) FindByStudentAndStatus(studentID uuid.UUID, status models.ApplicationStatus) ([]models.TeamApplication, error) {
	var out []models.TeamApplication
	for _, a := range f.s.teamApps {
		if a.StudentID == studentID && a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f fakeTeamApps) Create(app *models.TeamApplication) error {
	app.ID = uuid.New()
	f.s.teamApps[app.ID] = app
	return nil
}

func (f fakeTeamApps) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	f.s.teamApps[id].Status = status
	return nil
}

func (f fakeTeamApps) CancelPendingByStudent(studentID, exceptID uuid.UUID) error {
	for _, a := range f.s.teamApps {
		if a.StudentID == studentID && a.ID != exceptID && a.Status == models.ApplicationPending {
			a.Status = models.ApplicationCanceled
		}
	}
	return nil
}

func (f fakeTeamApps) DeleteByOffer(offerID uuid.UUID) error {
	for id, a := range f.s.teamApps {
		if a.TeamOfferID == offerID {
			delete(f.s.teamApps, id)
		}
	}
	return nil
}

func (f fakeTeamApps) CancelPendingByOffer(offerID, exceptID uuid.UUID) error {
	for _, a := range f.s.teamApps {
		if a.TeamOfferID == offerID && a.ID != exceptID && a.Status == models.ApplicationPending {
			a.Status = models.ApplicationCanceled
		}
	}
	return nil
}

type fakeProjOffers struct{ s *fakeStore }

func (f fakeProjOffers) FindByID(id uuid.UUID) (*models.ProjectOffer, error) {
	o, ok := f.s.projOffers[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (f fakeProjOffers) FindByIDForUpdate(id uuid.UUID) (*models.ProjectOffer, error) {
	return f.FindByID(id)
}

func (f fakeProjOffers) Create(offer *models.ProjectOffer) error {
	offer.ID = uuid.New()
	f.s.projOffers[offer.ID] = offer
	return nil
}

func (f fakeProjOffers) UpdateStatus(id uuid.UUID, status models.OfferStatus) error {
	f.s.projOffers[id].Status = status
	return nil
}

func (f fakeProjOffers) CountAssignedTeams(id uuid.UUID) (int64, error) {
	var n int64
	for _, t := range f.s.teamOffers {
		if t.AssignedProjectID != nil && *t.AssignedProjectID == id {
			n++
		}
	}
	return n, nil
}

func (f fakeProjOffers) Delete(id uuid.UUID) error {
	delete(f.s.projOffers, id)
	return nil
}

func (f fakeProjOffers) SetAssignmentTypeForYear(year int, t models.AssignmentType) error {
	for _, o := range f.s.projOffers {
		if o.Year == year && o.Status == models.OfferOpen {
			o.AssignmentType = t
		}
	}
	return nil
}

type fakeProjApps struct{ s *fakeStore }

func (f fakeProjApps) FindByID(id uuid.UUID) (*models.ProjectApplication, error) {
	a, ok := f.s.projApps[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (f fakeProjApps) FindByProjectAndTeam(projectID, teamID uuid.UUID) (*models.ProjectApplication, error) {
	for _, a := range f.s.projApps {
		if a.ProjectOfferID == projectID && a.TeamOfferID == teamID {
			return a, nil
		}
	}
	return nil, nil
}

func (f fakeProjApps) Create(app *models.ProjectApplication) error {
	app.ID = uuid.New()
	f.s.projApps[app.ID] = app
	return nil
}

func (f fakeProjApps) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	f.s.projApps[id].Status = status
	return nil
}

func (f fakeProjApps) CancelPendingByTeam(teamID, exceptID uuid.UUID) error {
	for _, a := range f.s.projApps {
		if a.TeamOfferID == teamID && a.ID != exceptID && a.Status == models.ApplicationPending {
			a.Status = models.ApplicationCanceled
		}
	}
	return nil
}

func (f fakeProjApps) DeleteByProject(projectID uuid.UUID) error {
	for id, a := range f.s.projApps {
		if a.ProjectOfferID == projectID {
			delete(f.s.projApps, id)
		}
	}
	return nil
}

func (f fakeProjApps) CancelPendingByProject(projectID, exceptID uuid.UUID) error {
	for _, a := range f.s.projApps {
		if a.ProjectOfferID == projectID && a.ID != exceptID && a.Status == models.ApplicationPending {
			a.Status = models.ApplicationCanceled
		}
	}
	return nil
}

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	received  []string
	decisions []bool
	removed   []string
}

func (n *recordingNotifier) TeamApplicationReceived(email, name, teamTitle, applicantName string) {
	n.received = append(n.received, email)
}

func (n *recordingNotifier) TeamApplicationDecided(email, name, teamTitle string, accepted bool) {
	n.decisions = append(n.decisions, accepted)
}

func (n *recordingNotifier) TeamMemberRemoved(email, name, teamTitle string) {
	n.removed = append(n.removed, email)
}

func (n *recordingNotifier) ProjectApplicationReceived(email, name, projectTitle, teamTitle, leaderName string) {
	n.received = append(n.received, email)
}

func (n *recordingNotifier) ProjectApplicationDecided(email, name, projectTitle string, accepted bool) {
	n.decisions = append(n.decisions, accepted)
}

// seed helpers

func seedSpeciality(s *fakeStore, year int) *models.Speciality {
	sp := &models.Speciality{ID: uuid.New(), Name: "speciality", Year: year}
	s.specialities[sp.ID] = sp
	return sp
}

func seedStudent(s *fakeStore, specialityID uuid.UUID, year int, email string) *models.Student {
	st := &models.Student{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		SpecialityID: specialityID,
		Year:         year,
		User:         &models.User{ID: uuid.New(), Email: email, FirstName: "Test", LastName: "Student", Role: models.RoleStudent},
	}
	s.students[st.ID] = st
	return st
}

func seedTeacher(s *fakeStore, email string) *models.Teacher {
	t := &models.Teacher{
		ID:     uuid.New(),
		UserID: uuid.New(),
		User:   &models.User{ID: uuid.New(), Email: email, FirstName: "Test", LastName: "Teacher", Role: models.RoleTeacher},
	}
	s.teachers[t.ID] = t
	return t
}

func seedSkill(s *fakeStore, name string) *models.Skill {
	sk := &models.Skill{ID: uuid.New(), Name: name}
	s.skills[sk.ID] = sk
	return sk
}

func seedPolicy(s *fakeStore, year int, t models.AssignmentType) *models.YearAssignmentType {
	p := &models.YearAssignmentType{ID: uuid.New(), Year: year, AssignmentType: t}
	s.policies[p.ID] = p
	return p
}
