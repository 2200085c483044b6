package services

import (
	apperrors "ledgerly/internal/errors"
)

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	OwnerID() string
}

// assertOwner is the single authorization policy for mutating routes.
// Callers fetch the resource by id alone first, so a missing record is
// reported as not found before ownership is compared.
func assertOwner(resource Owned, callerID string) error {
	if callerID == "" || resource.OwnerID() != callerID {
		return apperrors.ErrForbidden
	}
	return nil
}
