package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Business-rule sentinel values. Each one maps to a stable machine-readable
// error kind a caller can match with errors.Is.
var (
	ErrAlreadyInTeam     = errors.New("student already belongs to a team")
	ErrAlreadyApplied    = errors.New("application already exists")
	ErrAlreadyMember     = errors.New("student is already a member of this team")
	ErrTeamFull          = errors.New("team has reached its member capacity")
	ErrOfferClosed       = errors.New("offer is closed")
	ErrHasMembers        = errors.New("team offer still has members besides the leader")
	ErrHasOwnOffer       = errors.New("leader already has a team offer")
	ErrAlreadyAssigned   = errors.New("team already has an assigned project")
	ErrProjectFull       = errors.New("project has reached its team capacity")
	ErrPolicyNotSet      = errors.New("no assignment policy configured for year")
	ErrMixedYears        = errors.New("specialities span more than one year")
	ErrWindowClosed      = errors.New("activity window is closed for this speciality")
	ErrBadTransition     = errors.New("status transition not allowed")
	ErrNotReappliable    = errors.New("rejected applications cannot be renewed")
)

// Dependency sentinels. These never fail a committed state transition; they
// are logged and swallowed at the call site.
var (
	ErrEmailDelivery  = errors.New("email delivery failed")
	ErrStorageBackend = errors.New("storage backend failed")
)

func conflict(sentinel error, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        sentinel,
		Details:    details,
	}
}

func NewAlreadyInTeamError() *ApiErr {
	return conflict(ErrAlreadyInTeam, "")
}

func NewAlreadyAppliedError(target string) *ApiErr {
	return conflict(ErrAlreadyApplied, fmt.Sprintf("a non-canceled application to this %s already exists", target))
}

func NewAlreadyMemberError() *ApiErr {
	return conflict(ErrAlreadyMember, "")
}

func NewTeamFullError(max int) *ApiErr {
	return conflict(ErrTeamFull, fmt.Sprintf("maximum of %d members reached", max))
}

func NewOfferClosedError(kind string) *ApiErr {
	return conflict(ErrOfferClosed, fmt.Sprintf("%s offer is not open", kind))
}

func NewHasMembersError() *ApiErr {
	return conflict(ErrHasMembers, "remove the other members before withdrawing the offer")
}

func NewHasOwnOfferError() *ApiErr {
	return conflict(ErrHasOwnOffer, "a leader can hold at most one team offer")
}

func NewAlreadyAssignedError() *ApiErr {
	return conflict(ErrAlreadyAssigned, "")
}

func NewProjectFullError(max int) *ApiErr {
	return conflict(ErrProjectFull, fmt.Sprintf("maximum of %d teams reached", max))
}

func NewNotReappliableError() *ApiErr {
	return conflict(ErrNotReappliable, "")
}

func NewBadTransitionError(current, requested string) *ApiErr {
	return conflict(ErrBadTransition, fmt.Sprintf("cannot move a %s application to %s", current, requested))
}

// NewUnknownSkillsError lists the requested skill names that did not resolve
// to Skill rows.
func NewUnknownSkillsError(missing []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Field:      "generalSkills",
		Details:    fmt.Sprintf("unknown skills: %s", strings.Join(missing, ", ")),
	}
}

func NewMixedYearsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMixedYears,
		Field:      "specialityIds",
		Details:    "all specialities of a project offer must share one year",
	}
}

func NewPolicyNotSetError(year int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrPolicyNotSet,
		Details:    fmt.Sprintf("configure an assignment type for year %d first", year),
	}
}

func NewWindowClosedError(activity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrWindowClosed,
		Details:    fmt.Sprintf("%s is currently closed for your speciality", activity),
	}
}

func IsWindowClosed(err error) bool {
	return errors.Is(err, ErrWindowClosed)
}

func IsBadTransition(err error) bool {
	return errors.Is(err, ErrBadTransition)
}
