package user

import "slices"

type Permission string

const (
	// Self service
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"

	// Team management
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionAttendanceExport  Permission = "attendance.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceExport,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceExport,
	},
	RoleStaff: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
