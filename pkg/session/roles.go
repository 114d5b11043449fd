package session

// Role tags a user record and determines which dashboard it lands on.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleSystemUser  Role = "system_user"
	RoleInstructor  Role = "instructor"
	RoleFacilitator Role = "facilitator"
	RoleStudent     Role = "student"
	RoleGuardian    Role = "guardian"
)

// Dashboard landing routes, one per portal.
const (
	RouteAdminDashboard    = "/admin/dashboard"
	RouteStudentDashboard  = "/student/dashboard"
	RouteTeacherDashboard  = "/teacher/dashboard"
	RouteSchoolDashboard   = "/school/dashboard"
	RouteGuardianDashboard = "/guardian/dashboard"
)

// DefaultRoute returns the landing route for a set of roles. A user can hold
// several roles at once; the fixed priority order below resolves the
// ambiguity deterministically, first match wins:
//
//  1. admin → system admin dashboard
//  2. student → student dashboard
//  3. instructor or facilitator → teacher dashboard
//  4. school_admin → school dashboard
//  5. anything else, including no roles → guardian dashboard
func DefaultRoute(roles []Role) string {
	has := func(want Role) bool {
		for _, r := range roles {
			if r == want {
				return true
			}
		}
		return false
	}

	switch {
	case has(RoleAdmin):
		return RouteAdminDashboard
	case has(RoleStudent):
		return RouteStudentDashboard
	case has(RoleInstructor) || has(RoleFacilitator):
		return RouteTeacherDashboard
	case has(RoleSchoolAdmin):
		return RouteSchoolDashboard
	default:
		return RouteGuardianDashboard
	}
}
