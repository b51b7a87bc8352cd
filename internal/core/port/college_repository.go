package port

import (
	"context"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// CollegeFilter narrows college listings. A nil ID means no restriction.
type CollegeFilter struct {
	ID *string
}

// CollegeRepository exposes persistence behavior for colleges.
type CollegeRepository interface {
	Create(ctx context.Context, college domain.College) error
	GetByID(ctx context.Context, id string) (*domain.College, error)
	GetByCode(ctx context.Context, code string) (*domain.College, error)
	List(ctx context.Context, filter CollegeFilter) ([]domain.College, error)
	Update(ctx context.Context, college domain.College) error
	Delete(ctx context.Context, id string) error
}
