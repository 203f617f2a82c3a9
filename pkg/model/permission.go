package model

// Permission names checked by route guards and components.
const (
	PermViewDashboard    = "view_dashboard"
	PermViewContracts    = "view_contracts"
	PermEditContracts    = "edit_contracts"
	PermCreateContracts  = "create_contracts"
	PermViewTemplates    = "view_templates"
	PermEditTemplates    = "edit_templates"
	PermViewOrganization = "view_organization"
	PermViewProfile      = "view_profile"
)

// rolePermissions lists the grants of every non-admin role.
var rolePermissions = map[Role][]string{
	RoleEditor: {
		PermViewDashboard,
		PermViewContracts,
		PermEditContracts,
		PermCreateContracts,
		PermViewTemplates,
		PermEditTemplates,
		PermViewProfile,
	},
	RoleViewer: {
		PermViewDashboard,
		PermViewContracts,
		PermViewProfile,
	},
}

// RoleHasPermission reports whether role grants permission.
// ADMIN is granted everything; unknown roles nothing.
func RoleHasPermission(role Role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
