package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

func newDepartmentFixture(departments *departmentRepoMock, colleges *collegeRepoMock, partnerships *partnershipRepoMock) *DepartmentService {
	return NewDepartmentService(departments, colleges, partnerships, authz.NewResolver(nil), authz.NewEngine(nil))
}

func TestDepartmentListIntersectsExplicitCollegeFilter(t *testing.T) {
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1"), Code: "CS"},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-2"), Code: "MKT"},
	)
	service := newDepartmentFixture(departments, newCollegeRepoMock(), newPartnershipRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	// Matching explicit filter keeps the scope.
	listed, err := service.List(context.Background(), caller, strPtr("col-1"))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "dept-1" {
		t.Fatalf("expected own-college departments, got %v", listed)
	}

	// Conflicting explicit filter empties the result without querying.
	listed, err = service.List(context.Background(), caller, strPtr("col-2"))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty intersection, got %d", len(listed))
	}
}

func TestDepartmentListExplicitFilterOnlyForAnonymous(t *testing.T) {
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-2")},
	)
	service := newDepartmentFixture(departments, newCollegeRepoMock(), newPartnershipRepoMock())

	listed, err := service.List(context.Background(), nil, strPtr("col-2"))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "dept-2" {
		t.Fatalf("expected explicit filter applied without role narrowing, got %v", listed)
	}
}

func TestDepartmentListScopedToOwnDepartment(t *testing.T) {
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-1")},
	)
	service := newDepartmentFixture(departments, newCollegeRepoMock(), newPartnershipRepoMock())
	caller := identity("dept-head", domain.RoleDepartmentAdmin, strPtr("col-1"), strPtr("dept-1"))

	listed, err := service.List(context.Background(), caller, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "dept-1" {
		t.Fatalf("expected only own department, got %v", listed)
	}
}

func TestDepartmentCreateValidatesCollege(t *testing.T) {
	service := newDepartmentFixture(newDepartmentRepoMock(), newCollegeRepoMock(), newPartnershipRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	if _, err := service.Create(context.Background(), caller, DepartmentInput{
		CollegeID: strPtr("missing"),
		Code:      "CS",
		Name:      "Computer Science",
	}); !errors.Is(err, ErrCollegeNotFound) {
		t.Fatalf("expected ErrCollegeNotFound, got %v", err)
	}
}

func TestDepartmentUpdateObjectGate(t *testing.T) {
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1"), Code: "CS", Name: "Computer Science"},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-2"), Code: "MKT", Name: "Marketing"},
	)
	service := newDepartmentFixture(departments, newCollegeRepoMock(), newPartnershipRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	if _, err := service.Update(context.Background(), caller, "dept-1", DepartmentInput{Name: "Computing"}); err != nil {
		t.Fatalf("update of owned department returned error: %v", err)
	}

	// The object decision is an OR: any authenticated non-guest passes its
	// first rule, so a college admin may also update departments owned by
	// other colleges.
	if _, err := service.Update(context.Background(), caller, "dept-2", DepartmentInput{Name: "Marketing Science"}); err != nil {
		t.Fatalf("update of foreign department by non-guest admin returned error: %v", err)
	}

	guest := identity("guest-1", domain.RoleGuest, nil, nil)
	if _, err := service.Update(context.Background(), guest, "dept-1", DepartmentInput{Name: "Hijack"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for guest, got %v", err)
	}

	if _, err := service.Update(context.Background(), nil, "dept-1", DepartmentInput{Name: "Hijack"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for anonymous caller, got %v", err)
	}
}

func TestDepartmentPartnershipsSubListing(t *testing.T) {
	departments := newDepartmentRepoMock(domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")})
	partnerships := newPartnershipRepoMock()
	service := newDepartmentFixture(departments, newCollegeRepoMock(), partnerships)

	if _, err := service.Partnerships(context.Background(), nil, "dept-1"); err != nil {
		t.Fatalf("Partnerships returned error: %v", err)
	}
	if partnerships.lastFilter.DepartmentID == nil || *partnerships.lastFilter.DepartmentID != "dept-1" {
		t.Fatalf("expected department filter, got %+v", partnerships.lastFilter)
	}

	if _, err := service.Partnerships(context.Background(), nil, "missing"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}
