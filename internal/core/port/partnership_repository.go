package port

import (
	"context"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// PartnershipFilter narrows partnership listings. CollegeID restricts via the
// owning department's college. Year and Month restrict on date_started;
// StartedOnly drops rows with no start date.
type PartnershipFilter struct {
	DepartmentID *string
	CollegeID    *string
	Year         *int
	Month        *int
	StartedOnly  bool
}

// PartnershipRepository exposes persistence behavior for partnerships.
type PartnershipRepository interface {
	Create(ctx context.Context, partnership domain.Partnership) error
	GetByID(ctx context.Context, id string) (*domain.Partnership, error)
	List(ctx context.Context, filter PartnershipFilter) ([]domain.Partnership, error)
	Update(ctx context.Context, partnership domain.Partnership) error
	Delete(ctx context.Context, id string) error
}
