package authz

import (
	"go.uber.org/zap"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// Object carries the resolved ownership facts of a college, department, or
// partnership target. CollegeID is the owning college (direct, or the owning
// department's college); DepartmentID is the owning department, or the
// target's own ID for department targets.
type Object struct {
	Kind         string
	ID           string
	CollegeID    *string
	DepartmentID *string
}

// Engine evaluates allow/deny for single-object operations. Denial is a
// normal outcome, never an error.
type Engine struct {
	log *zap.Logger
}

// NewEngine constructs an Engine. A nil logger disables decision logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// CanAttempt is the request-level gate for college, department, and
// partnership operations: the action must be safe, or the caller must be an
// authenticated non-guest.
func (e *Engine) CanAttempt(id *Identity, action Action) bool {
	allowed := e.canAttempt(id, action)
	e.logDecision("can_attempt", id, action, nil, allowed)
	return allowed
}

func (e *Engine) canAttempt(id *Identity, action Action) bool {
	if action.Safe() {
		return true
	}
	return id != nil && id.Role.Valid() && id.Role != domain.RoleGuest
}

// CanAccess is the object-level gate for college, department, and partnership
// targets: the OR of the read-only-or-non-guest rule, the department-admin
// ownership rule, the college-admin ownership rule, and the super-admin
// override.
func (e *Engine) CanAccess(id *Identity, action Action, obj Object) bool {
	allowed := e.canAccess(id, action, obj)
	e.logDecision("can_access", id, action, &obj, allowed)
	return allowed
}

func (e *Engine) canAccess(id *Identity, action Action, obj Object) bool {
	if e.canAttempt(id, action) {
		return true
	}
	if id == nil {
		return false
	}
	switch id.Role {
	case domain.RoleSuperAdmin:
		return true
	case domain.RoleDepartmentAdmin:
		return sameRef(obj.DepartmentID, id.DepartmentID)
	case domain.RoleCollegeAdmin:
		return sameRef(obj.CollegeID, id.CollegeID)
	default:
		return false
	}
}

func (e *Engine) logDecision(gate string, id *Identity, action Action, obj *Object, allowed bool) {
	if !e.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	fields := []zap.Field{
		zap.String("gate", gate),
		zap.String("action", string(action)),
		zap.Bool("allowed", allowed),
	}
	if id != nil {
		fields = append(fields, zap.String("user_id", id.UserID), zap.String("role", string(id.Role)))
	}
	if obj != nil {
		fields = append(fields, zap.String("object_kind", obj.Kind), zap.String("object_id", obj.ID))
	}
	e.log.Debug("access decision", fields...)
}
