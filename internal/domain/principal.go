package domain

// Principal is the authenticated identity attached to a request after token
// validation. It is never persisted; it is rebuilt per request by re-reading
// the user row named by the token subject, so deactivation takes effect on
// the very next request.
type Principal struct {
	ID       string
	Role     Role
	IsActive bool
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
