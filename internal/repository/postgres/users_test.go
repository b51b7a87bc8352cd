package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	user := domain.User{
		ID:           "user-1",
		Username:     "reg_admin",
		Email:        "admin@example.edu",
		PasswordHash: "hash",
		Role:         domain.RoleSuperAdmin,
		IsStaff:      true,
		IsActive:     true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO hcdc\.users`).
		WithArgs(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.Role,
			nil,
			nil,
			user.IsStaff,
			user.IsActive,
			user.RegisteredAt,
			user.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), user); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByIdentifier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role",
		"college_id", "department_id", "is_staff", "is_active",
		"registered_at", "updated_at",
	}).AddRow(
		"user-2", "cs_dept_head", "head@example.edu", "hash", domain.Role("DEPARTMENT_ADMIN"),
		nil, "dept-1", false, true, now, now,
	)

	mock.ExpectQuery(`SELECT .*FROM hcdc\.users`).
		WithArgs("cs_dept_head", "cs_dept_head").
		WillReturnRows(rows)

	user, err := repo.GetByIdentifier(context.Background(), "cs_dept_head")
	if err != nil {
		t.Fatalf("GetByIdentifier returned error: %v", err)
	}
	if user.Role != domain.RoleDepartmentAdmin {
		t.Fatalf("expected department admin role, got %s", user.Role)
	}
	if user.CollegeID != nil {
		t.Fatalf("expected nil college assignment")
	}
	if user.DepartmentID == nil || *user.DepartmentID != "dept-1" {
		t.Fatalf("expected department assignment populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
