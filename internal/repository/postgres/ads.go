package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

var adColumns = []string{
	"id",
	"title",
	"image_url",
	"target_url",
	"is_active",
	"expiration_date",
	"created_at",
}

var adQueryColumns = map[string]string{
	"title":     "title",
	"isActive":  "is_active",
	"createdAt": "created_at",
}

var adUpdateColumns = map[string]struct{}{
	"title":           {},
	"image_url":       {},
	"target_url":      {},
	"is_active":       {},
	"expiration_date": {},
}

// AdRepository implements port.AdRepository using PostgreSQL.
type AdRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAdRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAdRepository(exec pgExecutor) *AdRepository {
	repo := &AdRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new ad row.
func (r *AdRepository) Create(ctx context.Context, ad domain.Ad) error {
	query := r.builder.Insert("apply.ads").
		Columns(adColumns...).
		Values(
			ad.ID,
			ad.Title,
			ad.ImageURL,
			ad.TargetURL,
			ad.IsActive,
			ad.ExpirationDate,
			ad.CreatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert ad sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}

	return nil
}

func (r *AdRepository) scanAd(row pgx.Row) (*domain.Ad, error) {
	var (
		ad             domain.Ad
		title          sql.NullString
		targetURL      sql.NullString
		expirationDate *time.Time
	)

	if err := row.Scan(
		&ad.ID,
		&title,
		&ad.ImageURL,
		&targetURL,
		&ad.IsActive,
		&expirationDate,
		&ad.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan ad: %w", err)
	}

	if title.Valid {
		val := title.String
		ad.Title = &val
	}
	if targetURL.Valid {
		val := targetURL.String
		ad.TargetURL = &val
	}
	ad.ExpirationDate = expirationDate

	return &ad, nil
}

// GetByID retrieves an ad by identifier.
func (r *AdRepository) GetByID(ctx context.Context, id string) (*domain.Ad, error) {
	stmt, args, err := r.builder.
		Select(adColumns...).
		From("apply.ads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select ad sql: %w", err)
	}

	return r.scanAd(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns ads shaped by the supplied query.
func (r *AdRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Ad, error) {
	sb := r.builder.
		Select(adColumns...).
		From("apply.ads")
	sb = applyListQuery(sb, query, adQueryColumns, "created_at DESC")

	stmt, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ads sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var ads []domain.Ad
	for rows.Next() {
		ad, err := r.scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, *ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ads: %w", err)
	}

	return ads, nil
}

// Update modifies the provided allow-listed fields and returns the updated row.
func (r *AdRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Ad, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	update := r.builder.Update("apply.ads")
	for name, value := range fields {
		if _, ok := adUpdateColumns[name]; !ok {
			return nil, fmt.Errorf("ad field %q is not updatable", name)
		}
		update = update.Set(name, value)
	}

	stmt, args, err := update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(adColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update ad sql: %w", err)
	}

	return r.scanAd(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes an ad row.
func (r *AdRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("apply.ads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete ad sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.AdRepository = (*AdRepository)(nil)
