package domain

// Role is the kind of account a session belongs to.
type Role string

// Roles
const (
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
)

// Valid checks if the role is one the client knows how to serve.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RolePartner || r == RoleAdmin
}

// Page is a navigation target.
type Page string

// Pages
const (
	PageLogin         Page = "login"
	PageDashboard     Page = "dashboard"
	PagePartner       Page = "partner"
	PageAdmin         Page = "admin_dashboard"
	PageResetPassword Page = "reset-password"
)

// User is the account returned by login and registration.
type User struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}
