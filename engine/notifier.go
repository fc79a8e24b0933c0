package engine

// Notifier delivers best-effort emails after a state transition committed.
// Implementations must never block on delivery or surface failures to the
// caller; a failed send is logged, not retried.
type Notifier interface {
	TeamApplicationReceived(leaderEmail, leaderName, teamTitle, applicantName string)
	TeamApplicationDecided(email, name, teamTitle string, accepted bool)
	TeamMemberRemoved(email, name, teamTitle string)
	ProjectApplicationReceived(teacherEmail, teacherName, projectTitle, teamTitle, leaderName string)
	ProjectApplicationDecided(email, name, projectTitle string, accepted bool)
}

// NopNotifier satisfies Notifier without sending anything.
type NopNotifier struct{}

func (NopNotifier) TeamApplicationReceived(string, string, string, string) {}
func (NopNotifier) TeamApplicationDecided(string, string, string, bool)    {}
func (NopNotifier) TeamMemberRemoved(string, string, string)               {}
func (NopNotifier) ProjectApplicationReceived(string, string, string, string, string) {
}
func (NopNotifier) ProjectApplicationDecided(string, string, string, bool) {}
