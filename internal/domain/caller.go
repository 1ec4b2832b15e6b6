package domain

// Caller is the identity making a request, as reported by the authentication layer.
// A nil *Caller means a trusted system context (e.g. the CLI) where no user is involved.
type Caller struct {
	UserID        string
	Authenticated bool
	IsStaff       bool
	IsSuperuser   bool
}

// TokenIssuer issues bearer tokens describing a caller.
type TokenIssuer interface {
	Issue(caller *Caller) (string, error)
}

// TokenVerifier verifies a bearer token and returns the caller it describes.
type TokenVerifier interface {
	Verify(token string) (*Caller, error)
}

// AllowsAwardTo reports whether caller may award badge. Checks run in order:
// system context, anonymous user, staff or superuser, badge creator.
func (b *Badge) AllowsAwardTo(caller *Caller) bool {
	if caller == nil {
		return true
	}
	if !caller.Authenticated {
		return false
	}
	if caller.IsStaff || caller.IsSuperuser {
		return true
	}
	return b.CreatorID != nil && *b.CreatorID == caller.UserID
}

// AllowsEditBy reports whether caller may change badge.
func (b *Badge) AllowsEditBy(caller *Caller) bool {
	return b.AllowsAwardTo(caller)
}
