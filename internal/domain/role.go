package domain

// Role is the closed set of principal roles known to the platform.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleTeacher       Role = "teacher"
	RoleClientAdmin   Role = "client-admin"
	RoleStudent       Role = "student"
	RoleParent        Role = "parent"
)

// roles is the canonical enumeration used for validation.
var roles = map[Role]struct{}{
	RoleAdministrator: {},
	RoleTeacher:       {},
	RoleClientAdmin:   {},
	RoleStudent:       {},
	RoleParent:        {},
}

// ValidRole reports whether r is a known role. Unknown roles never
// authorize anything.
func ValidRole(r Role) bool {
	_, ok := roles[r]
	return ok
}

// RoleGroup names a configured set of roles used by route guards.
type RoleGroup string

const (
	GroupAdminOnly      RoleGroup = "admin-only"
	GroupAdminOrTeacher RoleGroup = "admin-or-teacher"
	GroupStaff          RoleGroup = "staff"
	GroupGuardians      RoleGroup = "guardians"
	GroupAnyRole        RoleGroup = "any-role"
)

// roleGroups maps group names to member roles. Built once at init and
// read-only thereafter.
var roleGroups = map[RoleGroup][]Role{
	GroupAdminOnly:      {RoleAdministrator},
	GroupAdminOrTeacher: {RoleAdministrator, RoleTeacher},
	GroupStaff:          {RoleAdministrator, RoleTeacher, RoleClientAdmin},
	GroupGuardians:      {RoleParent, RoleStudent},
	GroupAnyRole:        {RoleAdministrator, RoleTeacher, RoleClientAdmin, RoleStudent, RoleParent},
}

// GroupRoles returns the member roles of a named group. The returned slice
// is a copy; callers may not mutate group membership.
func GroupRoles(g RoleGroup) []Role {
	members, ok := roleGroups[g]
	if !ok {
		return nil
	}
	out := make([]Role, len(members))
	copy(out, members)
	return out
}
