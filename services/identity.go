package services

// Identity is the resolved caller of an operation. It is passed explicitly
// into every mutating call instead of being read from ambient session state.
// The zero value is the anonymous caller.
type Identity struct {
	UserID   string
	Username string
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity carries no user.
func (id Identity) IsAnonymous() bool { return id.UserID == "" }

// require returns ErrAuthenticationRequired for anonymous callers. Every
// mutating service operation checks this before touching the store.
func (id Identity) require() error {
	if id.IsAnonymous() {
		return ErrAuthenticationRequired
	}
	return nil
}
