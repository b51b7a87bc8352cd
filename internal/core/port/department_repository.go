package port

import (
	"context"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// DepartmentFilter narrows department listings. Nil fields mean no
// restriction; both set means the intersection.
type DepartmentFilter struct {
	ID        *string
	CollegeID *string
}

// DepartmentRepository exposes persistence behavior for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, department domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, filter DepartmentFilter) ([]domain.Department, error)
	Update(ctx context.Context, department domain.Department) error
	Delete(ctx context.Context, id string) error
}
