// Package access holds the single write-capability rule shared by every
// mutating catalog operation.
package access

import (
	"fmt"

	"github.com/google/uuid"

	"catalog-backend/internal/shared/apperror"
)

// Resource is anything with exactly one owning principal.
type Resource interface {
	OwnerID() uuid.UUID
	ResourceKind() string
}

// CanWrite reports whether principal may mutate r. Both sides are uuid.UUID
// values, so the comparison is on the canonical 16-byte form.
func CanWrite(principal uuid.UUID, r Resource) bool {
	if principal == uuid.Nil || r == nil {
		return false
	}
	return principal == r.OwnerID()
}

// RequireOwner returns a Forbidden error when principal cannot write r.
// action is used in the message only ("update", "delete", ...).
func RequireOwner(principal uuid.UUID, r Resource, action string) error {
	if CanWrite(principal, r) {
		return nil
	}
	kind := "resource"
	if r != nil {
		kind = r.ResourceKind()
	}
	return apperror.Forbidden(fmt.Sprintf("You are not allowed to %s this %s", action, kind))
}
