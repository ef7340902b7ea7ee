package gate

import "researchhub/internal/model"

// State is where a user stands in the onboarding funnel.
type State int

const (
	Unauthenticated State = iota
	NoRole
	Incomplete
	Complete
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case NoRole:
		return "no_role"
	case Incomplete:
		return "incomplete"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Frontend destinations the gate routes to.
const (
	PathSelectRole        = "/pages/onboarding/select-role.html"
	PathCompleteProfile   = "/pages/onboarding/complete-profile.html"
	PathStudentDashboard  = "/pages/dashboard/student/index.html"
	PathLecturerDashboard = "/pages/dashboard/lecturer/index.html"
)

// Decision tells the frontend where to send the user.
type Decision struct {
	State     State  `json:"-"`
	StateName string `json:"state"`
	Redirect  string `json:"redirect"`
	ReturnURL string `json:"return_url,omitempty"`
}

// Decide routes an authenticated user by role and profile completeness.
// Users without a role go to role selection, users with an incomplete
// profile go to profile completion, and complete users go to their
// requested page or their role dashboard.
func Decide(role model.Role, complete bool, returnURL string) Decision {
	if role == model.RoleUnset {
		return decision(NoRole, PathSelectRole, returnURL)
	}
	if !complete {
		return decision(Incomplete, PathCompleteProfile, returnURL)
	}
	if returnURL != "" {
		return decision(Complete, returnURL, "")
	}
	if role == model.RoleLecturer {
		return decision(Complete, PathLecturerDashboard, "")
	}
	return decision(Complete, PathStudentDashboard, "")
}

func decision(state State, redirect, returnURL string) Decision {
	return Decision{
		State:     state,
		StateName: state.String(),
		Redirect:  redirect,
		ReturnURL: returnURL,
	}
}
