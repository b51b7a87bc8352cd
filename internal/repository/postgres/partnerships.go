package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

// PartnershipRepository implements port.PartnershipRepository using PostgreSQL.
type PartnershipRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPartnershipRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewPartnershipRepository(exec pgExecutor) *PartnershipRepository {
	repo := &PartnershipRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *PartnershipRepository) WithTx(tx pgx.Tx) *PartnershipRepository {
	if tx == nil {
		return r
	}
	return &PartnershipRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

func partnershipSelectColumns(prefix string) []string {
	cols := []string{
		"id",
		"department_id",
		"title",
		"description",
		"status",
		"contact_person",
		"contact_email",
		"contact_phone",
		"date_started",
		"date_ended",
		"created_by",
		"created_at",
		"updated_at",
	}
	if prefix == "" {
		return cols
	}
	qualified := make([]string, len(cols))
	for i, col := range cols {
		qualified[i] = prefix + "." + col
	}
	return qualified
}

func scanPartnership(row pgx.Row) (*domain.Partnership, error) {
	var (
		partnership   domain.Partnership
		contactPerson sql.NullString
		contactEmail  sql.NullString
		contactPhone  sql.NullString
		dateStarted   *time.Time
		dateEnded     *time.Time
		createdBy     sql.NullString
	)

	if err := row.Scan(
		&partnership.ID,
		&partnership.DepartmentID,
		&partnership.Title,
		&partnership.Description,
		&partnership.Status,
		&contactPerson,
		&contactEmail,
		&contactPhone,
		&dateStarted,
		&dateEnded,
		&createdBy,
		&partnership.CreatedAt,
		&partnership.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if contactPerson.Valid {
		val := contactPerson.String
		partnership.ContactPerson = &val
	}
	if contactEmail.Valid {
		val := contactEmail.String
		partnership.ContactEmail = &val
	}
	if contactPhone.Valid {
		val := contactPhone.String
		partnership.ContactPhone = &val
	}
	partnership.DateStarted = dateStarted
	partnership.DateEnded = dateEnded
	if createdBy.Valid {
		val := createdBy.String
		partnership.CreatedBy = &val
	}

	return &partnership, nil
}

// Create inserts a new partnership row.
func (r *PartnershipRepository) Create(ctx context.Context, partnership domain.Partnership) error {
	var contactPersonValue any
	if partnership.ContactPerson != nil && *partnership.ContactPerson != "" {
		contactPersonValue = *partnership.ContactPerson
	}

	var contactEmailValue any
	if partnership.ContactEmail != nil && *partnership.ContactEmail != "" {
		contactEmailValue = *partnership.ContactEmail
	}

	var contactPhoneValue any
	if partnership.ContactPhone != nil && *partnership.ContactPhone != "" {
		contactPhoneValue = *partnership.ContactPhone
	}

	var createdByValue any
	if partnership.CreatedBy != nil && *partnership.CreatedBy != "" {
		createdByValue = *partnership.CreatedBy
	}

	stmt, args, err := r.builder.Insert("hcdc.partnerships").
		Columns(
			"id",
			"department_id",
			"title",
			"description",
			"status",
			"contact_person",
			"contact_email",
			"contact_phone",
			"date_started",
			"date_ended",
			"created_by",
			"created_at",
			"updated_at",
		).
		Values(
			partnership.ID,
			partnership.DepartmentID,
			partnership.Title,
			partnership.Description,
			partnership.Status,
			contactPersonValue,
			contactEmailValue,
			contactPhoneValue,
			partnership.DateStarted,
			partnership.DateEnded,
			createdByValue,
			partnership.CreatedAt,
			partnership.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert partnership sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert partnership: %w", err)
	}

	return nil
}

// GetByID retrieves a partnership by identifier.
func (r *PartnershipRepository) GetByID(ctx context.Context, id string) (*domain.Partnership, error) {
	stmt, args, err := r.builder.
		Select(partnershipSelectColumns("")...).
		From("hcdc.partnerships").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select partnership sql: %w", err)
	}

	partnership, err := scanPartnership(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan partnership: %w", err)
	}

	return partnership, nil
}

// List returns partnerships matching the filter, newest first. A CollegeID
// filter restricts through the owning department's college assignment.
func (r *PartnershipRepository) List(ctx context.Context, filter port.PartnershipFilter) ([]domain.Partnership, error) {
	query := r.builder.Select(partnershipSelectColumns("p")...).
		From("hcdc.partnerships p").
		OrderBy("p.created_at DESC")

	if filter.CollegeID != nil {
		query = query.
			Join("hcdc.departments d ON d.id = p.department_id").
			Where(squirrel.Eq{"d.college_id": *filter.CollegeID})
	}

	if filter.DepartmentID != nil {
		query = query.Where(squirrel.Eq{"p.department_id": *filter.DepartmentID})
	}

	if filter.StartedOnly {
		query = query.Where("p.date_started IS NOT NULL")
	}

	if filter.Year != nil {
		query = query.Where("EXTRACT(YEAR FROM p.date_started) = ?", *filter.Year)
	}

	if filter.Month != nil {
		query = query.Where("EXTRACT(MONTH FROM p.date_started) = ?", *filter.Month)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list partnerships sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query partnerships: %w", err)
	}
	defer rows.Close()

	partnerships := make([]domain.Partnership, 0)
	for rows.Next() {
		partnership, err := scanPartnership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partnership: %w", err)
		}
		partnerships = append(partnerships, *partnership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partnerships: %w", err)
	}

	return partnerships, nil
}

// Update modifies an existing partnership.
func (r *PartnershipRepository) Update(ctx context.Context, partnership domain.Partnership) error {
	var contactPersonValue any
	if partnership.ContactPerson != nil && *partnership.ContactPerson != "" {
		contactPersonValue = *partnership.ContactPerson
	}

	var contactEmailValue any
	if partnership.ContactEmail != nil && *partnership.ContactEmail != "" {
		contactEmailValue = *partnership.ContactEmail
	}

	var contactPhoneValue any
	if partnership.ContactPhone != nil && *partnership.ContactPhone != "" {
		contactPhoneValue = *partnership.ContactPhone
	}

	stmt, args, err := r.builder.Update("hcdc.partnerships").
		Set("department_id", partnership.DepartmentID).
		Set("title", partnership.Title).
		Set("description", partnership.Description).
		Set("status", partnership.Status).
		Set("contact_person", contactPersonValue).
		Set("contact_email", contactEmailValue).
		Set("contact_phone", contactPhoneValue).
		Set("date_started", partnership.DateStarted).
		Set("date_ended", partnership.DateEnded).
		Set("updated_at", partnership.UpdatedAt).
		Where(squirrel.Eq{"id": partnership.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update partnership sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update partnership: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a partnership row.
func (r *PartnershipRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("hcdc.partnerships").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete partnership sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete partnership: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.PartnershipRepository = (*PartnershipRepository)(nil)
