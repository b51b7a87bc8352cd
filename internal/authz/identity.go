// Package authz implements the role-based permission core: the scope
// resolver that derives list restrictions per identity and the access
// decision engine that gates single-object operations. Both are pure
// per-request computations; all hierarchy facts (which college owns a
// department) are resolved by the caller and passed in, so decisions never
// perform I/O.
package authz

import "github.com/joshwanee/hcdc-partnership/internal/core/domain"

// Identity is a resolved, authenticated caller. A nil *Identity means the
// request is unauthenticated.
type Identity struct {
	UserID       string
	Role         domain.Role
	CollegeID    *string
	DepartmentID *string
}

// Action classifies the operation being attempted.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Safe reports whether the action is read-only.
func (a Action) Safe() bool {
	return a == ActionRead
}

func sameRef(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
