package domain

// Role represents the role of an authenticated principal.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// Principal represents an account in the user directory. At most one
// principal is authenticated per session.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  Role
	Phone string
}
