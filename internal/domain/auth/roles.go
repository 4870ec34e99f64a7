package auth

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleEmployee   = "employee"
)

// Actor is the authenticated identity threaded into every rule-engine
// call. Services never read identity from ambient state.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
