// Package user defines account roles for the educational platform. Engagement
// tracking is gated on these: only learner activity ever produces telemetry.
package user

// Role identifies the kind of account interacting with the platform.
type Role string

const (
	RoleLearner   Role = "learner"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether the role is one of the known account roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleLearner, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// CanTrack reports whether engagement telemetry is collected for this role.
// This is an authorization filter, not an error condition: every other role
// is a silent no-op throughout the tracking pipeline.
func (r Role) CanTrack() bool {
	return r == RoleLearner
}

// CanViewAnalytics reports whether the role may read aggregate engagement data.
func (r Role) CanViewAnalytics() bool {
	return r == RoleProfessor || r == RoleAdmin
}
