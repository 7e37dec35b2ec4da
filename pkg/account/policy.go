package account

const (
	// AdminRole grants access to user management.
	AdminRole = "admin"
	// UserRole is granted on self-registration.
	UserRole = "user"
)

// DefaultRoles returns the role set given to self-registered accounts.
func DefaultRoles() RoleSet {
	return NewRoleSet(UserRole)
}

// IsAuthorizedAdmin reports whether the account may manage other accounts.
func IsAuthorizedAdmin(a Account) bool {
	return a.Roles.Has(AdminRole)
}

// HasRole reports whether the account carries role.
func HasRole(a Account, role string) bool {
	return a.Roles.Has(role)
}
