package authz

import (
	"testing"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

func TestCanAttempt(t *testing.T) {
	engine := NewEngine(nil)

	cases := []struct {
		name     string
		identity *Identity
		action   Action
		want     bool
	}{
		{"unauthenticated read", nil, ActionRead, true},
		{"unauthenticated create", nil, ActionCreate, false},
		{"guest read", &Identity{UserID: "g1", Role: domain.RoleGuest}, ActionRead, true},
		{"guest create", &Identity{UserID: "g1", Role: domain.RoleGuest}, ActionCreate, false},
		{"guest delete", &Identity{UserID: "g1", Role: domain.RoleGuest}, ActionDelete, false},
		{"department admin create", &Identity{UserID: "d1", Role: domain.RoleDepartmentAdmin}, ActionCreate, true},
		{"college admin update", &Identity{UserID: "c1", Role: domain.RoleCollegeAdmin}, ActionUpdate, true},
		{"superadmin delete", &Identity{UserID: "s1", Role: domain.RoleSuperAdmin}, ActionDelete, true},
		{"unknown role create", &Identity{UserID: "x1", Role: domain.Role("AUDITOR")}, ActionCreate, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.CanAttempt(tc.identity, tc.action); got != tc.want {
				t.Errorf("CanAttempt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanAccessSuperAdminAlwaysAllowed(t *testing.T) {
	engine := NewEngine(nil)
	super := &Identity{UserID: "s1", Role: domain.RoleSuperAdmin}

	objects := []Object{
		{Kind: "college", ID: "c1", CollegeID: strPtr("c1")},
		{Kind: "department", ID: "d1", CollegeID: strPtr("c2"), DepartmentID: strPtr("d1")},
		{Kind: "partnership", ID: "p1", CollegeID: strPtr("c3"), DepartmentID: strPtr("d9")},
		{Kind: "partnership", ID: "p2"},
	}

	for _, obj := range objects {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
			if !engine.CanAccess(super, action, obj) {
				t.Errorf("superadmin denied %s on %s/%s", action, obj.Kind, obj.ID)
			}
		}
	}
}

func TestCanAccessOwnershipRules(t *testing.T) {
	engine := NewEngine(nil)

	collegeA := strPtr("college-a")
	collegeB := strPtr("college-b")
	deptX := strPtr("dept-x")
	deptY := strPtr("dept-y")

	collegeAdmin := &Identity{UserID: "c1", Role: domain.RoleCollegeAdmin, CollegeID: collegeA}
	deptAdmin := &Identity{UserID: "d1", Role: domain.RoleDepartmentAdmin, DepartmentID: deptX}

	cases := []struct {
		name     string
		identity *Identity
		action   Action
		obj      Object
		want     bool
	}{
		{
			name:     "college admin owns department in own college",
			identity: collegeAdmin,
			action:   ActionDelete,
			obj:      Object{Kind: "department", ID: "d5", CollegeID: collegeA, DepartmentID: strPtr("d5")},
			// Mutations by authenticated non-guests already pass the
			// read-only-or-non-guest rule; ownership is one more allow path.
			want: true,
		},
		{
			name:     "department admin mutates own partnership",
			identity: deptAdmin,
			action:   ActionUpdate,
			obj:      Object{Kind: "partnership", ID: "p1", CollegeID: collegeB, DepartmentID: deptX},
			want:     true,
		},
		{
			name:     "guest reads any object",
			identity: &Identity{UserID: "g1", Role: domain.RoleGuest},
			action:   ActionRead,
			obj:      Object{Kind: "partnership", ID: "p1", CollegeID: collegeB, DepartmentID: deptY},
			want:     true,
		},
		{
			name:     "guest cannot mutate",
			identity: &Identity{UserID: "g1", Role: domain.RoleGuest},
			action:   ActionDelete,
			obj:      Object{Kind: "college", ID: "c9", CollegeID: collegeB},
			want:     false,
		},
		{
			name:     "unauthenticated cannot mutate",
			identity: nil,
			action:   ActionUpdate,
			obj:      Object{Kind: "college", ID: "c9", CollegeID: collegeB},
			want:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.CanAccess(tc.identity, tc.action, tc.obj); got != tc.want {
				t.Errorf("CanAccess = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDepartmentAdminOwnershipIsolatedFromAttemptRule(t *testing.T) {
	engine := NewEngine(nil)

	// A department admin with an unknown role variant spelled differently
	// must not slip through the non-guest rule.
	impostor := &Identity{UserID: "x1", Role: domain.Role("department_admin"), DepartmentID: strPtr("dept-x")}
	obj := Object{Kind: "partnership", ID: "p1", DepartmentID: strPtr("dept-x")}

	if engine.CanAccess(impostor, ActionUpdate, obj) {
		t.Error("unknown role variant allowed to mutate")
	}
	if !engine.CanAccess(impostor, ActionRead, obj) {
		t.Error("read should stay public for unknown roles")
	}
}
