package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Reviews absences and justifications
	RoleEmployee Role = "employee" // Regular employee
)

// IsManager reports whether the role may review records of its company.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
