package domain

// Principal is the authenticated identity attached to a request. It is
// reconstructed per request from a trusted credential and never persisted.
// The zero value is the anonymous principal.
type Principal struct {
	UserID string
	Role   Role
	Active bool
}

// Anonymous returns the principal used for requests without credentials.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether the principal carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}
