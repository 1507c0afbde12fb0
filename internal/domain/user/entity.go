package user

type Role string

const (
	RoleOwner   Role = "owner"   // Venue owner - full access
	RoleManager Role = "manager" // Can view and correct team attendance
	RoleStaff   Role = "staff"   // Punches and views own attendance
)

// Identity is the caller resolved from a verified access token. It is carried
// per request; there is no process-wide "current user".
type Identity struct {
	StaffID string
	Role    Role
}

// ParseRole maps a claim value onto a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleOwner, RoleManager, RoleStaff:
		return r, true
	}
	return "", false
}

// IsManager checks if the caller is manager or owner
func (i Identity) IsManager() bool {
	return i.Role == RoleManager || i.Role == RoleOwner
}

// CanAccessStaff reports whether the caller may read or write staffID's attendance.
func (i Identity) CanAccessStaff(staffID string) bool {
	return i.StaffID == staffID || i.IsManager()
}
