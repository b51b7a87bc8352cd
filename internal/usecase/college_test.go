package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

func newCollegeFixture(colleges *collegeRepoMock, departments *departmentRepoMock) *CollegeService {
	return NewCollegeService(colleges, departments, authz.NewResolver(nil), authz.NewEngine(nil))
}

func TestCollegeListScopedForCollegeAdmin(t *testing.T) {
	colleges := newCollegeRepoMock(
		domain.College{ID: "col-1", Code: "CCS", Name: "College of Computer Studies"},
		domain.College{ID: "col-2", Code: "CBA", Name: "College of Business"},
	)
	service := newCollegeFixture(colleges, newDepartmentRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	listed, err := service.List(context.Background(), caller)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "col-1" {
		t.Fatalf("expected only the caller's college, got %v", listed)
	}
}

func TestCollegeListUnrestrictedForGuestAndAnonymous(t *testing.T) {
	colleges := newCollegeRepoMock(
		domain.College{ID: "col-1", Code: "CCS"},
		domain.College{ID: "col-2", Code: "CBA"},
	)
	service := newCollegeFixture(colleges, newDepartmentRepoMock())

	for name, caller := range map[string]*authz.Identity{
		"guest":     identity("guest-1", domain.RoleGuest, nil, nil),
		"anonymous": nil,
	} {
		listed, err := service.List(context.Background(), caller)
		if err != nil {
			t.Fatalf("%s: List returned error: %v", name, err)
		}
		if len(listed) != 2 {
			t.Fatalf("%s: expected all colleges, got %d", name, len(listed))
		}
	}
}

func TestCollegeListEmptyForUnassignedCollegeAdmin(t *testing.T) {
	colleges := newCollegeRepoMock(domain.College{ID: "col-1", Code: "CCS"})
	service := newCollegeFixture(colleges, newDepartmentRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, nil, nil)

	listed, err := service.List(context.Background(), caller)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty scope, got %d", len(listed))
	}
}

func TestCollegeCreateDeniedForGuest(t *testing.T) {
	service := newCollegeFixture(newCollegeRepoMock(), newDepartmentRepoMock())
	caller := identity("guest-1", domain.RoleGuest, nil, nil)

	if _, err := service.Create(context.Background(), caller, CollegeInput{Code: "CCS", Name: "Computer Studies"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCollegeCreateMapsDuplicateCode(t *testing.T) {
	colleges := newCollegeRepoMock(domain.College{ID: "col-1", Code: "CCS"})
	service := newCollegeFixture(colleges, newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	if _, err := service.Create(context.Background(), caller, CollegeInput{Code: "CCS", Name: "Duplicate"}); !errors.Is(err, ErrCollegeCodeTaken) {
		t.Fatalf("expected ErrCollegeCodeTaken, got %v", err)
	}
}

func TestCollegeUpdateScopedToOwnCollege(t *testing.T) {
	colleges := newCollegeRepoMock(
		domain.College{ID: "col-1", Code: "CCS", Name: "Computer Studies"},
		domain.College{ID: "col-2", Code: "CBA", Name: "Business"},
	)
	service := newCollegeFixture(colleges, newDepartmentRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	if _, err := service.Update(context.Background(), caller, "col-1", CollegeInput{Name: "Computing and Information Sciences"}); err != nil {
		t.Fatalf("update of own college returned error: %v", err)
	}

	if _, err := service.Update(context.Background(), caller, "col-2", CollegeInput{Name: "Hijack"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for foreign college, got %v", err)
	}
}

func TestCollegeDepartmentsSubListing(t *testing.T) {
	colleges := newCollegeRepoMock(domain.College{ID: "col-1", Code: "CCS"})
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1"), Code: "CS"},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-2"), Code: "MKT"},
	)
	service := newCollegeFixture(colleges, departments)

	listed, err := service.Departments(context.Background(), nil, "col-1")
	if err != nil {
		t.Fatalf("Departments returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "dept-1" {
		t.Fatalf("expected only owned departments, got %v", listed)
	}

	if _, err := service.Departments(context.Background(), nil, "missing"); !errors.Is(err, ErrCollegeNotFound) {
		t.Fatalf("expected ErrCollegeNotFound, got %v", err)
	}
}

func TestCollegeCreateRequiresCodeAndName(t *testing.T) {
	service := newCollegeFixture(newCollegeRepoMock(), newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	if _, err := service.Create(context.Background(), caller, CollegeInput{Name: "Engineering"}); !errors.Is(err, ErrCodeRequired) {
		t.Fatalf("expected ErrCodeRequired, got %v", err)
	}

	if _, err := service.Create(context.Background(), caller, CollegeInput{Code: "COE"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}
