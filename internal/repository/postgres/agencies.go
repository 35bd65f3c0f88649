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

var agencyColumns = []string{
	"id",
	"name",
	"slug",
	"logo_url",
	"description",
	"contact_info",
	"supported_universities",
	"created_at",
}

// agencyQueryColumns maps list query parameter names onto table columns.
var agencyQueryColumns = map[string]string{
	"name":      "name",
	"slug":      "slug",
	"createdAt": "created_at",
}

var agencyUpdateColumns = map[string]struct{}{
	"name":         {},
	"slug":         {},
	"logo_url":     {},
	"description":  {},
	"contact_info": {},
}

// AgencyRepository implements port.AgencyRepository using PostgreSQL.
type AgencyRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAgencyRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAgencyRepository(exec pgExecutor) *AgencyRepository {
	repo := &AgencyRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new agency row.
func (r *AgencyRepository) Create(ctx context.Context, agency domain.Agency) error {
	query := r.builder.Insert("apply.agencies").
		Columns(agencyColumns...).
		Values(
			agency.ID,
			agency.Name,
			agency.Slug,
			agency.LogoURL,
			agency.Description,
			agency.ContactInfo,
			agency.SupportedUniversities,
			agency.CreatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert agency sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert agency: %w", err)
	}

	return nil
}

func (r *AgencyRepository) scanAgency(row pgx.Row) (*domain.Agency, error) {
	var (
		agency      domain.Agency
		logoURL     sql.NullString
		description sql.NullString
		contactInfo sql.NullString
	)

	if err := row.Scan(
		&agency.ID,
		&agency.Name,
		&agency.Slug,
		&logoURL,
		&description,
		&contactInfo,
		&agency.SupportedUniversities,
		&agency.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan agency: %w", err)
	}

	if logoURL.Valid {
		val := logoURL.String
		agency.LogoURL = &val
	}
	if description.Valid {
		val := description.String
		agency.Description = &val
	}
	if contactInfo.Valid {
		val := contactInfo.String
		agency.ContactInfo = &val
	}

	return &agency, nil
}

// GetByID retrieves an agency by identifier.
func (r *AgencyRepository) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	stmt, args, err := r.builder.
		Select(agencyColumns...).
		From("apply.agencies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select agency sql: %w", err)
	}

	return r.scanAgency(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns agencies shaped by the supplied query.
func (r *AgencyRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Agency, error) {
	sb := r.builder.
		Select(agencyColumns...).
		From("apply.agencies")
	sb = applyListQuery(sb, query, agencyQueryColumns, "created_at DESC")

	stmt, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list agencies sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	defer rows.Close()

	var agencies []domain.Agency
	for rows.Next() {
		agency, err := r.scanAgency(rows)
		if err != nil {
			return nil, err
		}
		agencies = append(agencies, *agency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agencies: %w", err)
	}

	return agencies, nil
}

// Update modifies the provided allow-listed fields and returns the updated row.
func (r *AgencyRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Agency, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	update := r.builder.Update("apply.agencies")
	for name, value := range fields {
		if _, ok := agencyUpdateColumns[name]; !ok {
			return nil, fmt.Errorf("agency field %q is not updatable", name)
		}
		update = update.Set(name, value)
	}

	stmt, args, err := update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(agencyColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update agency sql: %w", err)
	}

	return r.scanAgency(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes an agency row.
func (r *AgencyRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("apply.agencies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete agency sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete agency: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.AgencyRepository = (*AgencyRepository)(nil)
