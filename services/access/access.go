// Package access implements the ownership-or-admin rule shared by every mutating endpoint.
package access

import (
	"wheelstrust/models"
	"wheelstrust/utils"
)

// Actor is the identity re-derived from a verified token.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Owns reports whether a is any of the listed owner ids. Empty ids never match.
func (a Actor) Owns(owners ...string) bool {
	if a.ID == "" {
		return false
	}
	for _, o := range owners {
		if o != "" && o == a.ID {
			return true
		}
	}
	return false
}

// CanMutate is isOwner OR isAdmin.
func (a Actor) CanMutate(owners ...string) bool {
	return a.IsAdmin() || a.Owns(owners...)
}

// Authorize returns a Forbidden error unless a may mutate a resource owned by owners.
func Authorize(a Actor, owners ...string) error {
	if a.CanMutate(owners...) {
		return nil
	}
	return utils.Forbidden("")
}
