package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
)

const strongAdminPassword = "Adm1n!Portal#2024"

func identity(userID string, role domain.Role, collegeID, departmentID *string) *authz.Identity {
	return &authz.Identity{
		UserID:       userID,
		Role:         role,
		CollegeID:    collegeID,
		DepartmentID: departmentID,
	}
}

func newUserFixture(users *userRepoMock, departments *departmentRepoMock) (*UserService, *eventRecorder) {
	recorder := &eventRecorder{}
	service := NewUserService(users, departments, authz.NewEngine(nil), security.DefaultPasswordValidator(), recorder)
	return service, recorder
}

func TestUserServiceCollegeAdminCreatesDepartmentAdmin(t *testing.T) {
	departments := newDepartmentRepoMock(domain.Department{ID: "dept-1", CollegeID: strPtr("col-1"), Code: "CS", Name: "Computer Studies"})
	users := newUserRepoMock()
	service, recorder := newUserFixture(users, departments)
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	created, err := service.Create(context.Background(), caller, CreateUserInput{
		Username:     "new_dept_head",
		Email:        "head@example.edu",
		Password:     strongAdminPassword,
		Role:         domain.RoleDepartmentAdmin,
		DepartmentID: strPtr("dept-1"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.Role != domain.RoleDepartmentAdmin {
		t.Fatalf("expected department admin role, got %s", created.Role)
	}
	if created.IsStaff {
		t.Fatalf("department admins must not be staff")
	}
	if created.CollegeID == nil || *created.CollegeID != "col-1" {
		t.Fatalf("expected college aligned to the department's owner")
	}
	if len(recorder.events) == 0 || recorder.events[len(recorder.events)-1].Type != "user.created" {
		t.Fatalf("expected user.created event, got %v", recorder.typesSeen())
	}
}

func TestUserServiceCollegeAdminCannotCreatePeer(t *testing.T) {
	service, _ := newUserFixture(newUserRepoMock(), newDepartmentRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	if _, err := service.Create(context.Background(), caller, CreateUserInput{
		Username: "rogue",
		Email:    "rogue@example.edu",
		Password: strongAdminPassword,
		Role:     domain.RoleCollegeAdmin,
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserServiceCreateRequiresPassword(t *testing.T) {
	service, _ := newUserFixture(newUserRepoMock(), newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	if _, err := service.Create(context.Background(), caller, CreateUserInput{
		Username: "no_password",
		Email:    "np@example.edu",
		Role:     domain.RoleGuest,
	}); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestUserServiceCreateStampsStaffForElevatedRoles(t *testing.T) {
	users := newUserRepoMock()
	service, _ := newUserFixture(users, newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	created, err := service.Create(context.Background(), caller, CreateUserInput{
		Username: "second_root",
		Email:    "root2@example.edu",
		Password: strongAdminPassword,
		Role:     domain.RoleSuperAdmin,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.IsStaff {
		t.Fatalf("expected superadmin to be staff")
	}
	if len(users.created) != 1 || !users.created[0].IsStaff {
		t.Fatalf("expected persisted user to be staff")
	}
}

func TestUserServiceCollegeAdminCannotAssignForeignDepartment(t *testing.T) {
	departments := newDepartmentRepoMock(
		domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")},
		domain.Department{ID: "dept-2", CollegeID: strPtr("col-2")},
	)
	target := domain.User{ID: "user-2", Role: domain.RoleDepartmentAdmin, CollegeID: strPtr("col-1"), DepartmentID: strPtr("dept-1")}
	service, _ := newUserFixture(newUserRepoMock(target), departments)
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	if _, err := service.Update(context.Background(), caller, "user-2", UpdateUserInput{
		Department: RefChange{Provided: true, ID: strPtr("dept-2")},
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserServiceAssignmentAlignsCollege(t *testing.T) {
	departments := newDepartmentRepoMock(domain.Department{ID: "dept-2", CollegeID: strPtr("col-2")})
	target := domain.User{ID: "user-2", Role: domain.RoleDepartmentAdmin, CollegeID: strPtr("col-1")}
	users := newUserRepoMock(target)
	service, _ := newUserFixture(users, departments)
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	updated, err := service.Update(context.Background(), caller, "user-2", UpdateUserInput{
		Department: RefChange{Provided: true, ID: strPtr("dept-2")},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.DepartmentID == nil || *updated.DepartmentID != "dept-2" {
		t.Fatalf("expected department assignment")
	}
	if updated.CollegeID == nil || *updated.CollegeID != "col-2" {
		t.Fatalf("expected stored college aligned to the new department")
	}
}

func TestUserServiceAssignmentOfUnknownDepartmentFails(t *testing.T) {
	target := domain.User{ID: "user-2", Role: domain.RoleGuest}
	service, _ := newUserFixture(newUserRepoMock(target), newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	if _, err := service.Update(context.Background(), caller, "user-2", UpdateUserInput{
		Department: RefChange{Provided: true, ID: strPtr("missing")},
	}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestUserServiceDepartmentAdminSelfUpdateOnly(t *testing.T) {
	self := domain.User{ID: "user-3", Role: domain.RoleDepartmentAdmin, DepartmentID: strPtr("dept-1")}
	other := domain.User{ID: "user-4", Role: domain.RoleGuest}
	departments := newDepartmentRepoMock(domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")})
	service, _ := newUserFixture(newUserRepoMock(self, other), departments)
	caller := identity("user-3", domain.RoleDepartmentAdmin, strPtr("col-1"), strPtr("dept-1"))

	if _, err := service.Update(context.Background(), caller, "user-3", UpdateUserInput{
		Email: strPtr("newmail@example.edu"),
	}); err != nil {
		t.Fatalf("self update returned error: %v", err)
	}

	if _, err := service.Update(context.Background(), caller, "user-4", UpdateUserInput{
		Email: strPtr("hijack@example.edu"),
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for foreign target, got %v", err)
	}
}

func TestUserServiceGuestDeniedAtRequestGate(t *testing.T) {
	service, _ := newUserFixture(newUserRepoMock(), newDepartmentRepoMock())
	caller := identity("guest-1", domain.RoleGuest, nil, nil)

	if _, err := service.List(context.Background(), caller, port.UserFilter{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserServiceCollegeAdminCannotDelete(t *testing.T) {
	target := domain.User{ID: "user-2", Role: domain.RoleDepartmentAdmin, CollegeID: strPtr("col-1")}
	service, _ := newUserFixture(newUserRepoMock(target), newDepartmentRepoMock())
	caller := identity("admin-1", domain.RoleCollegeAdmin, strPtr("col-1"), nil)

	if err := service.Delete(context.Background(), caller, "user-2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserServiceListSanitizesAndFilters(t *testing.T) {
	users := newUserRepoMock(
		domain.User{ID: "user-1", Role: domain.RoleGuest, PasswordHash: "hash"},
		domain.User{ID: "user-2", Role: domain.RoleDepartmentAdmin, PasswordHash: "hash"},
	)
	service, _ := newUserFixture(users, newDepartmentRepoMock())
	caller := identity("root", domain.RoleSuperAdmin, nil, nil)

	listed, err := service.List(context.Background(), caller, port.UserFilter{Role: domain.RoleDepartmentAdmin})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "user-2" {
		t.Fatalf("expected role filter to apply, got %v", listed)
	}
	if listed[0].PasswordHash != "" {
		t.Fatalf("expected password hashes stripped from listings")
	}
	if users.lastFilter.Role != domain.RoleDepartmentAdmin {
		t.Fatalf("expected role filter passed to repository")
	}
}

func TestUserServiceUpdateWeakPasswordLeavesRecordUntouched(t *testing.T) {
	self := domain.User{
		ID:           "dept-head",
		Username:     "dept_head",
		Email:        "head@example.edu",
		Role:         domain.RoleDepartmentAdmin,
		CollegeID:    strPtr("col-1"),
		DepartmentID: strPtr("dept-1"),
		IsActive:     true,
	}
	users := newUserRepoMock(self)
	departments := newDepartmentRepoMock(domain.Department{ID: "dept-1", CollegeID: strPtr("col-1")})
	service, _ := newUserFixture(users, departments)
	caller := identity("dept-head", domain.RoleDepartmentAdmin, strPtr("col-1"), strPtr("dept-1"))

	_, err := service.Update(context.Background(), caller, "dept-head", UpdateUserInput{
		Username: strPtr("renamed"),
		Password: strPtr("123"),
	})
	if !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}

	if len(users.updated) != 0 {
		t.Fatalf("expected no field writes on a rejected password, got %d", len(users.updated))
	}
	if users.newHash != "" {
		t.Fatalf("expected no password write, got a stored hash")
	}
}
