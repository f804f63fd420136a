package user

type Permission string

const (
	// Punches
	PermissionPunchRegister Permission = "punch.register"
	PermissionPunchViewOwn  Permission = "punch.view_own"
	PermissionPunchViewAll  Permission = "punch.view_all"

	// Time bank
	PermissionTimeBankViewOwn Permission = "timebank.view_own"
	PermissionTimeBankViewAll Permission = "timebank.view_all"

	// Absences
	PermissionAbsenceViewOwn Permission = "absence.view_own"
	PermissionAbsenceViewAll Permission = "absence.view_all"
	PermissionAbsenceManage  Permission = "absence.manage"
	PermissionAbsenceApprove Permission = "absence.approve"
	PermissionAbsenceDetect  Permission = "absence.detect"

	// Justifications
	PermissionJustificationCreate  Permission = "justification.create"
	PermissionJustificationViewAll Permission = "justification.view_all"
	PermissionJustificationApprove Permission = "justification.approve"
)

var employeePermissions = []Permission{
	PermissionPunchRegister,
	PermissionPunchViewOwn,
	PermissionTimeBankViewOwn,
	PermissionAbsenceViewOwn,
	PermissionJustificationCreate,
}

var managerPermissions = append(append([]Permission{}, employeePermissions...),
	PermissionPunchViewAll,
	PermissionTimeBankViewAll,
	PermissionAbsenceViewAll,
	PermissionAbsenceManage,
	PermissionAbsenceApprove,
	PermissionAbsenceDetect,
	PermissionJustificationViewAll,
	PermissionJustificationApprove,
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner:    managerPermissions,
	RoleManager:  managerPermissions,
	RoleEmployee: employeePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
