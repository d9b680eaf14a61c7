package auth

// Role is the marketplace role of an authenticated user.
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsCustomer() bool     { return a.Role == RoleCustomer }
func (a Actor) IsProfessional() bool { return a.Role == RoleProfessional }
func (a Actor) IsAdmin() bool        { return a.Role == RoleAdmin }
