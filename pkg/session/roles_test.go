package session

import "testing"

func TestDefaultRoute(t *testing.T) {
	cases := []struct {
		name  string
		roles []Role
		want  string
	}{
		{"nil roles", nil, RouteGuardianDashboard},
		{"empty roles", []Role{}, RouteGuardianDashboard},
		{"admin", []Role{RoleAdmin}, RouteAdminDashboard},
		{"student", []Role{RoleStudent}, RouteStudentDashboard},
		{"instructor", []Role{RoleInstructor}, RouteTeacherDashboard},
		{"facilitator", []Role{RoleFacilitator}, RouteTeacherDashboard},
		{"school admin", []Role{RoleSchoolAdmin}, RouteSchoolDashboard},
		{"guardian", []Role{RoleGuardian}, RouteGuardianDashboard},
		{"system user falls back", []Role{RoleSystemUser}, RouteGuardianDashboard},
		{"unknown role falls back", []Role{Role("mystery")}, RouteGuardianDashboard},
		// Priority resolves multi-role users, not set order.
		{"student beats guardian", []Role{RoleGuardian, RoleStudent}, RouteStudentDashboard},
		{"admin beats everything", []Role{RoleStudent, RoleSchoolAdmin, RoleAdmin}, RouteAdminDashboard},
		{"student beats instructor", []Role{RoleInstructor, RoleStudent}, RouteStudentDashboard},
		{"instructor beats school admin", []Role{RoleSchoolAdmin, RoleFacilitator}, RouteTeacherDashboard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultRoute(tc.roles); got != tc.want {
				t.Fatalf("DefaultRoute(%v) = %s, want %s", tc.roles, got, tc.want)
			}
		})
	}
}

func TestSessionDefaultRoute(t *testing.T) {
	var anon *Session
	if got := anon.DefaultRoute(); got != RouteGuardianDashboard {
		t.Fatalf("anonymous session route = %s, want %s", got, RouteGuardianDashboard)
	}

	sess := &Session{User: &UserRecord{Roles: []Role{RoleStudent}}}
	if got := sess.DefaultRoute(); got != RouteStudentDashboard {
		t.Fatalf("student session route = %s, want %s", got, RouteStudentDashboard)
	}
}
