package models

// Role defines the closed set of portal roles. The identity provider stores
// the role as free-form user metadata; ParseRole is the single place that
// narrows it into this type.
type Role string

const (
	RoleStudent          Role = "student"
	RoleFaculty          Role = "faculty"
	RoleRecruiter        Role = "recruiter"
	RoleInstitutionAdmin Role = "institution_admin"
)

// ParseRole maps a raw metadata string onto a Role. Unknown or empty values
// fall back to student, matching the first-login default.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleStudent, RoleFaculty, RoleRecruiter, RoleInstitutionAdmin:
		return Role(raw)
	default:
		return RoleStudent
	}
}

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleRecruiter, RoleInstitutionAdmin:
		return true
	}
	return false
}

// DashboardPath returns the dashboard redirect target for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleStudent:
		return "/dashboard/student"
	case RoleFaculty:
		return "/dashboard/faculty"
	case RoleRecruiter:
		return "/dashboard/recruiter"
	case RoleInstitutionAdmin:
		return "/dashboard/admin"
	default:
		return "/dashboard"
	}
}
