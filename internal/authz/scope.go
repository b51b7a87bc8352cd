package authz

import (
	"go.uber.org/zap"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// Scope describes the subset of records of one kind an identity may list.
// Exactly one of the following holds: All, None, or a restriction by
// CollegeID and/or DepartmentID.
type Scope struct {
	All          bool
	None         bool
	CollegeID    *string
	DepartmentID *string
}

// Resolver derives list scopes from an identity. Unknown roles resolve to the
// empty scope; unauthenticated callers resolve to the unrestricted scope
// (public read), so only explicit filters apply to them.
type Resolver struct {
	log *zap.Logger
}

// NewResolver constructs a Resolver. A nil logger disables decision logging.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Colleges resolves the college listing scope for the identity.
func (r *Resolver) Colleges(id *Identity) Scope {
	scope := r.colleges(id)
	r.logScope("college", id, scope)
	return scope
}

func (r *Resolver) colleges(id *Identity) Scope {
	if id == nil {
		return Scope{All: true}
	}
	switch id.Role {
	case domain.RoleSuperAdmin, domain.RoleDepartmentAdmin, domain.RoleGuest:
		return Scope{All: true}
	case domain.RoleCollegeAdmin:
		if id.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: id.CollegeID}
	default:
		return Scope{None: true}
	}
}

// Departments resolves the department listing scope for the identity. An
// explicit college filter, when present, is intersected with this scope by
// the caller before querying.
func (r *Resolver) Departments(id *Identity) Scope {
	scope := r.departments(id)
	r.logScope("department", id, scope)
	return scope
}

func (r *Resolver) departments(id *Identity) Scope {
	if id == nil {
		return Scope{All: true}
	}
	switch id.Role {
	case domain.RoleSuperAdmin, domain.RoleGuest:
		return Scope{All: true}
	case domain.RoleCollegeAdmin:
		if id.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: id.CollegeID}
	case domain.RoleDepartmentAdmin:
		if id.DepartmentID == nil {
			return Scope{None: true}
		}
		return Scope{DepartmentID: id.DepartmentID}
	default:
		return Scope{None: true}
	}
}

// Partnerships resolves the partnership listing scope for the identity. A
// college restriction applies through the owning department's college.
func (r *Resolver) Partnerships(id *Identity) Scope {
	scope := r.partnerships(id)
	r.logScope("partnership", id, scope)
	return scope
}

func (r *Resolver) partnerships(id *Identity) Scope {
	if id == nil {
		return Scope{All: true}
	}
	switch id.Role {
	case domain.RoleSuperAdmin, domain.RoleGuest:
		return Scope{All: true}
	case domain.RoleCollegeAdmin:
		if id.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: id.CollegeID}
	case domain.RoleDepartmentAdmin:
		if id.DepartmentID == nil {
			return Scope{None: true}
		}
		return Scope{DepartmentID: id.DepartmentID}
	default:
		return Scope{None: true}
	}
}

func (r *Resolver) logScope(kind string, id *Identity, scope Scope) {
	if !r.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	fields := []zap.Field{
		zap.String("kind", kind),
		zap.Bool("all", scope.All),
		zap.Bool("none", scope.None),
	}
	if id != nil {
		fields = append(fields, zap.String("user_id", id.UserID), zap.String("role", string(id.Role)))
	}
	if scope.CollegeID != nil {
		fields = append(fields, zap.String("college_id", *scope.CollegeID))
	}
	if scope.DepartmentID != nil {
		fields = append(fields, zap.String("department_id", *scope.DepartmentID))
	}
	r.log.Debug("resolved list scope", fields...)
}
