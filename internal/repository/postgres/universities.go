package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

var universityColumns = []string{
	"id",
	"name",
	"country",
	"city",
	"description",
	"logo_url",
	"website",
	"rating",
	"created_at",
}

var universityQueryColumns = map[string]string{
	"name":      "name",
	"country":   "country",
	"city":      "city",
	"rating":    "rating",
	"createdAt": "created_at",
}

var universityUpdateColumns = map[string]struct{}{
	"name":        {},
	"country":     {},
	"city":        {},
	"description": {},
	"logo_url":    {},
	"website":     {},
	"rating":      {},
}

// UniversityRepository implements port.UniversityRepository using PostgreSQL.
type UniversityRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUniversityRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUniversityRepository(exec pgExecutor) *UniversityRepository {
	repo := &UniversityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new university row.
func (r *UniversityRepository) Create(ctx context.Context, university domain.University) error {
	query := r.builder.Insert("apply.universities").
		Columns(universityColumns...).
		Values(
			university.ID,
			university.Name,
			university.Country,
			university.City,
			university.Description,
			university.LogoURL,
			university.Website,
			university.Rating,
			university.CreatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert university sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert university: %w", err)
	}

	return nil
}

func (r *UniversityRepository) scanUniversity(row pgx.Row) (*domain.University, error) {
	var (
		university  domain.University
		city        sql.NullString
		description sql.NullString
		logoURL     sql.NullString
		website     sql.NullString
		rating      sql.NullFloat64
	)

	if err := row.Scan(
		&university.ID,
		&university.Name,
		&university.Country,
		&city,
		&description,
		&logoURL,
		&website,
		&rating,
		&university.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan university: %w", err)
	}

	if city.Valid {
		val := city.String
		university.City = &val
	}
	if description.Valid {
		val := description.String
		university.Description = &val
	}
	if logoURL.Valid {
		val := logoURL.String
		university.LogoURL = &val
	}
	if website.Valid {
		val := website.String
		university.Website = &val
	}
	if rating.Valid {
		val := rating.Float64
		university.Rating = &val
	}

	return &university, nil
}

// GetByID retrieves a university by identifier.
func (r *UniversityRepository) GetByID(ctx context.Context, id string) (*domain.University, error) {
	stmt, args, err := r.builder.
		Select(universityColumns...).
		From("apply.universities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select university sql: %w", err)
	}

	return r.scanUniversity(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns universities shaped by the supplied query.
func (r *UniversityRepository) List(ctx context.Context, query port.ListQuery) ([]domain.University, error) {
	sb := r.builder.
		Select(universityColumns...).
		From("apply.universities")
	sb = applyListQuery(sb, query, universityQueryColumns, "created_at DESC")

	stmt, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list universities sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	var universities []domain.University
	for rows.Next() {
		university, err := r.scanUniversity(rows)
		if err != nil {
			return nil, err
		}
		universities = append(universities, *university)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universities: %w", err)
	}

	return universities, nil
}

// Update modifies the provided allow-listed fields and returns the updated row.
func (r *UniversityRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.University, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	update := r.builder.Update("apply.universities")
	for name, value := range fields {
		if _, ok := universityUpdateColumns[name]; !ok {
			return nil, fmt.Errorf("university field %q is not updatable", name)
		}
		update = update.Set(name, value)
	}

	stmt, args, err := update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(universityColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update university sql: %w", err)
	}

	return r.scanUniversity(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes a university row.
func (r *UniversityRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("apply.universities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete university sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete university: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UniversityRepository = (*UniversityRepository)(nil)
