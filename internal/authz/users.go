package authz

import "github.com/joshwanee/hcdc-partnership/internal/core/domain"

// TargetUser carries the resolved state of the user record being managed.
// DepartmentCollegeID is the college owning the target's current department,
// resolved by the caller when the target has one.
type TargetUser struct {
	ID                  string
	Role                domain.Role
	CollegeID           *string
	DepartmentID        *string
	DepartmentCollegeID *string
}

// ProposedUser is the proposed state computed from a mutation payload before
// the decision is made. Role is the requested role when the payload carries
// one. AssignsDepartment is set when the payload includes a department
// assignment; Department is that department resolved from the store, nil when
// it does not exist.
type ProposedUser struct {
	Role              *domain.Role
	AssignsDepartment bool
	Department        *domain.Department
}

// CanAttemptUser is the request-level gate for user management, evaluated
// before any target record is fetched.
func (e *Engine) CanAttemptUser(id *Identity, action Action, proposed ProposedUser) bool {
	allowed := e.canAttemptUser(id, action, proposed)
	e.logDecision("can_attempt_user", id, action, nil, allowed)
	return allowed
}

func (e *Engine) canAttemptUser(id *Identity, action Action, proposed ProposedUser) bool {
	if id == nil {
		return false
	}

	switch id.Role {
	case domain.RoleSuperAdmin:
		return true

	case domain.RoleCollegeAdmin:
		switch action {
		case ActionDelete:
			return false
		case ActionCreate:
			// College admins may only onboard department admins.
			return proposed.Role != nil && *proposed.Role == domain.RoleDepartmentAdmin
		case ActionUpdate:
			// A role change is only legal when it keeps the target a
			// department admin.
			return proposed.Role == nil || *proposed.Role == domain.RoleDepartmentAdmin
		case ActionRead:
			return true
		default:
			return false
		}

	case domain.RoleDepartmentAdmin:
		return action == ActionRead || action == ActionUpdate

	default:
		return false
	}
}

// CanAccessUser is the object-level gate for user management, evaluated only
// after CanAttemptUser passed and the target resolved.
func (e *Engine) CanAccessUser(id *Identity, action Action, target TargetUser, proposed ProposedUser) bool {
	allowed := e.canAccessUser(id, action, target, proposed)
	obj := Object{Kind: "user", ID: target.ID}
	e.logDecision("can_access_user", id, action, &obj, allowed)
	return allowed
}

func (e *Engine) canAccessUser(id *Identity, action Action, target TargetUser, proposed ProposedUser) bool {
	if id == nil {
		return false
	}

	// Self-access overrides every role rule.
	if target.ID == id.UserID {
		return true
	}

	switch id.Role {
	case domain.RoleSuperAdmin:
		return true

	case domain.RoleCollegeAdmin:
		if target.Role != domain.RoleDepartmentAdmin {
			return false
		}

		// Unassigned department admins are discoverable for onboarding.
		if action == ActionRead && target.DepartmentID == nil && target.CollegeID == nil {
			return true
		}

		// A department assignment is checked against the department's own
		// college, not the target's current one, so an admin cannot move a
		// user into another college's department.
		if proposed.AssignsDepartment {
			if proposed.Department == nil {
				return false
			}
			return sameRef(proposed.Department.CollegeID, id.CollegeID)
		}

		if target.DepartmentID != nil && target.DepartmentCollegeID != nil {
			return sameRef(target.DepartmentCollegeID, id.CollegeID)
		}
		if target.CollegeID != nil {
			return sameRef(target.CollegeID, id.CollegeID)
		}
		return false

	default:
		// Department admins reach only themselves, handled above. Guests and
		// unknown roles never manage other users.
		return false
	}
}
