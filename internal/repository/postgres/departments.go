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

// DepartmentRepository implements port.DepartmentRepository using PostgreSQL.
type DepartmentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDepartmentRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewDepartmentRepository(exec pgExecutor) *DepartmentRepository {
	repo := &DepartmentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *DepartmentRepository) WithTx(tx pgx.Tx) *DepartmentRepository {
	if tx == nil {
		return r
	}
	return &DepartmentRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

func departmentSelectColumns() []string {
	return []string{"id", "college_id", "code", "name", "admin_id", "created_at", "updated_at"}
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var (
		department domain.Department
		collegeID  sql.NullString
		adminID    sql.NullString
	)

	if err := row.Scan(
		&department.ID,
		&collegeID,
		&department.Code,
		&department.Name,
		&adminID,
		&department.CreatedAt,
		&department.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if collegeID.Valid {
		val := collegeID.String
		department.CollegeID = &val
	}
	if adminID.Valid {
		val := adminID.String
		department.AdminID = &val
	}

	return &department, nil
}

// Create inserts a new department row.
func (r *DepartmentRepository) Create(ctx context.Context, department domain.Department) error {
	var collegeValue any
	if department.CollegeID != nil && *department.CollegeID != "" {
		collegeValue = *department.CollegeID
	}

	var adminValue any
	if department.AdminID != nil && *department.AdminID != "" {
		adminValue = *department.AdminID
	}

	stmt, args, err := r.builder.Insert("hcdc.departments").
		Columns("id", "college_id", "code", "name", "admin_id", "created_at", "updated_at").
		Values(department.ID, collegeValue, department.Code, department.Name, adminValue, department.CreatedAt, department.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert department sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by identifier.
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	stmt, args, err := r.builder.
		Select(departmentSelectColumns()...).
		From("hcdc.departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select department sql: %w", err)
	}

	department, err := scanDepartment(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan department: %w", err)
	}

	return department, nil
}

// List returns departments matching the filter, ordered by code. Setting both
// ID and CollegeID narrows to their intersection.
func (r *DepartmentRepository) List(ctx context.Context, filter port.DepartmentFilter) ([]domain.Department, error) {
	query := r.builder.Select(departmentSelectColumns()...).
		From("hcdc.departments").
		OrderBy("code ASC")

	if filter.ID != nil {
		query = query.Where(squirrel.Eq{"id": *filter.ID})
	}

	if filter.CollegeID != nil {
		query = query.Where(squirrel.Eq{"college_id": *filter.CollegeID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list departments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	departments := make([]domain.Department, 0)
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, *department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	return departments, nil
}

// Update modifies an existing department.
func (r *DepartmentRepository) Update(ctx context.Context, department domain.Department) error {
	var collegeValue any
	if department.CollegeID != nil && *department.CollegeID != "" {
		collegeValue = *department.CollegeID
	}

	var adminValue any
	if department.AdminID != nil && *department.AdminID != "" {
		adminValue = *department.AdminID
	}

	stmt, args, err := r.builder.Update("hcdc.departments").
		Set("college_id", collegeValue).
		Set("code", department.Code).
		Set("name", department.Name).
		Set("admin_id", adminValue).
		Set("updated_at", department.UpdatedAt).
		Where(squirrel.Eq{"id": department.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update department sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update department: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a department row.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("hcdc.departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete department sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.DepartmentRepository = (*DepartmentRepository)(nil)
