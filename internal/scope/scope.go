// Package scope models row ownership. A row is either owned by one user or
// global (visible to every user until shadowed by an owned row of the same
// name).
package scope

// Scope tags an entity as global or owned by a user.
type Scope struct {
	owner  string
	global bool
}

// Global returns the shared scope.
func Global() Scope {
	return Scope{global: true}
}

// Owned returns a scope owned by the given user.
func Owned(username string) Scope {
	return Scope{owner: username}
}

// FromOwner converts a nullable owner column into a Scope.
func FromOwner(owner *string) Scope {
	if owner == nil || *owner == "" {
		return Global()
	}
	return Owned(*owner)
}

func (s Scope) IsGlobal() bool { return s.global }

// Owner returns the owning username and false when the scope is global.
func (s Scope) Owner() (string, bool) {
	if s.global {
		return "", false
	}
	return s.owner, true
}

// OwnerColumn returns the value to persist in a nullable owner column.
func (s Scope) OwnerColumn() *string {
	if s.global {
		return nil
	}
	owner := s.owner
	return &owner
}

// VisibleTo reports whether a row with this scope appears in the given
// user's view.
func (s Scope) VisibleTo(username string) bool {
	return s.global || s.owner == username
}
