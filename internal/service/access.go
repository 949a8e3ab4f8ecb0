package service

import "github.com/taskward/taskward/internal/domain"

// canAccess is the single ownership rule applied across projects and tasks:
// an admin may act on any resource; an ordinary principal only on resources
// whose resolved owning-user id equals its own id. List operations must
// return exactly the set of rows for which this check would pass.
func canAccess(p domain.Principal, ownerUserID string) bool {
	return p.IsAdmin() || p.ID == ownerUserID
}

// authorizeOwner turns a failed ownership check into ErrForbidden. It runs
// before any mutating call reaches storage, so a denied request has no side
// effects.
func authorizeOwner(p domain.Principal, ownerUserID string) error {
	if !canAccess(p, ownerUserID) {
		return ErrForbidden
	}
	return nil
}
