package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

// CollegeRepository implements port.CollegeRepository using PostgreSQL.
type CollegeRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCollegeRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewCollegeRepository(exec pgExecutor) *CollegeRepository {
	repo := &CollegeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *CollegeRepository) WithTx(tx pgx.Tx) *CollegeRepository {
	if tx == nil {
		return r
	}
	return &CollegeRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

func collegeSelectColumns() []string {
	return []string{"id", "code", "name", "admin_id", "created_at", "updated_at"}
}

func scanCollege(row pgx.Row) (*domain.College, error) {
	var (
		college domain.College
		adminID sql.NullString
	)

	if err := row.Scan(
		&college.ID,
		&college.Code,
		&college.Name,
		&adminID,
		&college.CreatedAt,
		&college.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if adminID.Valid {
		val := adminID.String
		college.AdminID = &val
	}

	return &college, nil
}

// Create inserts a new college row.
func (r *CollegeRepository) Create(ctx context.Context, college domain.College) error {
	var adminValue any
	if college.AdminID != nil && *college.AdminID != "" {
		adminValue = *college.AdminID
	}

	stmt, args, err := r.builder.Insert("hcdc.colleges").
		Columns("id", "code", "name", "admin_id", "created_at", "updated_at").
		Values(college.ID, college.Code, college.Name, adminValue, college.CreatedAt, college.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert college sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert college: %w", err)
	}

	return nil
}

// GetByID retrieves a college by identifier.
func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	stmt, args, err := r.builder.
		Select(collegeSelectColumns()...).
		From("hcdc.colleges").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select college sql: %w", err)
	}

	college, err := scanCollege(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan college: %w", err)
	}

	return college, nil
}

// GetByCode retrieves a college by its unique short code.
func (r *CollegeRepository) GetByCode(ctx context.Context, code string) (*domain.College, error) {
	stmt, args, err := r.builder.
		Select(collegeSelectColumns()...).
		From("hcdc.colleges").
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select college by code sql: %w", err)
	}

	college, err := scanCollege(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan college by code: %w", err)
	}

	return college, nil
}

// List returns colleges matching the filter, ordered by code.
func (r *CollegeRepository) List(ctx context.Context, filter port.CollegeFilter) ([]domain.College, error) {
	query := r.builder.Select(collegeSelectColumns()...).
		From("hcdc.colleges").
		OrderBy("code ASC")

	if filter.ID != nil {
		query = query.Where(squirrel.Eq{"id": *filter.ID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list colleges sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query colleges: %w", err)
	}
	defer rows.Close()

	colleges := make([]domain.College, 0)
	for rows.Next() {
		college, err := scanCollege(rows)
		if err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		colleges = append(colleges, *college)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate colleges: %w", err)
	}

	return colleges, nil
}

// Update modifies an existing college.
func (r *CollegeRepository) Update(ctx context.Context, college domain.College) error {
	var adminValue any
	if college.AdminID != nil && *college.AdminID != "" {
		adminValue = *college.AdminID
	}

	stmt, args, err := r.builder.Update("hcdc.colleges").
		Set("code", college.Code).
		Set("name", college.Name).
		Set("admin_id", adminValue).
		Set("updated_at", college.UpdatedAt).
		Where(squirrel.Eq{"id": college.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update college sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update college: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a college row.
func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("hcdc.colleges").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete college sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete college: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.CollegeRepository = (*CollegeRepository)(nil)
