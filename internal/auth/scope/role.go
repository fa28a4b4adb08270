package scope

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleReviewer   Role = "reviewer"
	RoleUser       Role = "user"
)

var roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleReviewer, RoleUser}

// grants is built once and never written afterwards.
var grants = map[Role][]Scope{
	RoleSuperAdmin: {Wildcard},
	RoleAdmin: {
		UserRead,
		OrganizationRead, OrganizationUpdate, OrganizationDelete,
		StaffAll,
		BlogAll,
	},
	RoleEditor: {
		OrganizationRead,
		StaffRead,
		BlogCreate, BlogUpdate, BlogComment,
	},
	RoleReviewer: {
		OrganizationRead,
		StaffRead,
		BlogRead, BlogReview, BlogComment,
	},
	RoleUser: {
		UserAll,
		BlogComment, BlogRead,
	},
}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func IsRole(value string) bool {
	_, ok := grants[Role(value)]
	return ok
}

// Grants returns a copy of the scopes granted to role, nil for unknown roles.
func Grants(role Role) []Scope {
	granted, ok := grants[role]
	if !ok {
		return nil
	}
	out := make([]Scope, len(granted))
	copy(out, granted)
	return out
}

// HasScope is false for any role outside the catalog.
func HasScope(role Role, requested Scope) bool {
	granted, ok := grants[role]
	if !ok {
		return false
	}
	return Has(granted, requested)
}

// CanGrant reports whether actor may assign target to another staff member.
// Only super_admin may hand out super_admin or admin.
func CanGrant(actor, target Role) bool {
	switch target {
	case RoleSuperAdmin, RoleAdmin:
		return actor == RoleSuperAdmin
	}
	return IsRole(string(actor))
}
