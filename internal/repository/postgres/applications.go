package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
)

var applicationColumns = []string{
	"id",
	"user_id",
	"agency_id",
	"university_id",
	"status",
	"user_note",
	"created_at",
	"updated_at",
}

var consultationColumns = []string{
	"id",
	"user_id",
	"agency_id",
	"subject",
	"description",
	"status",
	"created_at",
	"updated_at",
}

// ApplicationRepository implements port.ApplicationRepository using PostgreSQL.
type ApplicationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewApplicationRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewApplicationRepository(exec pgExecutor) *ApplicationRepository {
	repo := &ApplicationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new placement request.
func (r *ApplicationRepository) Create(ctx context.Context, application domain.Application) error {
	query := r.builder.Insert("apply.applications").
		Columns(applicationColumns...).
		Values(
			application.ID,
			application.UserID,
			application.AgencyID,
			application.UniversityID,
			application.Status,
			application.UserNote,
			application.CreatedAt,
			application.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert application sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

// ListByUser returns the user's applications, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	stmt, args, err := r.builder.
		Select(applicationColumns...).
		From("apply.applications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list applications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var (
			application domain.Application
			userNote    sql.NullString
		)
		if err := rows.Scan(
			&application.ID,
			&application.UserID,
			&application.AgencyID,
			&application.UniversityID,
			&application.Status,
			&userNote,
			&application.CreatedAt,
			&application.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if userNote.Valid {
			val := userNote.String
			application.UserNote = &val
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return applications, nil
}

var _ port.ApplicationRepository = (*ApplicationRepository)(nil)

// ConsultationRepository implements port.ConsultationRepository using PostgreSQL.
type ConsultationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewConsultationRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewConsultationRepository(exec pgExecutor) *ConsultationRepository {
	repo := &ConsultationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new consultation request.
func (r *ConsultationRepository) Create(ctx context.Context, consultation domain.Consultation) error {
	query := r.builder.Insert("apply.consultations").
		Columns(consultationColumns...).
		Values(
			consultation.ID,
			consultation.UserID,
			consultation.AgencyID,
			consultation.Subject,
			consultation.Description,
			consultation.Status,
			consultation.CreatedAt,
			consultation.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert consultation sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}

	return nil
}

// ListByUser returns the user's consultations, newest first.
func (r *ConsultationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Consultation, error) {
	stmt, args, err := r.builder.
		Select(consultationColumns...).
		From("apply.consultations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list consultations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	var consultations []domain.Consultation
	for rows.Next() {
		var (
			consultation domain.Consultation
			subject      sql.NullString
			description  sql.NullString
		)
		if err := rows.Scan(
			&consultation.ID,
			&consultation.UserID,
			&consultation.AgencyID,
			&subject,
			&description,
			&consultation.Status,
			&consultation.CreatedAt,
			&consultation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		if subject.Valid {
			val := subject.String
			consultation.Subject = &val
		}
		if description.Valid {
			val := description.String
			consultation.Description = &val
		}
		consultations = append(consultations, consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultations: %w", err)
	}

	return consultations, nil
}

var _ port.ConsultationRepository = (*ConsultationRepository)(nil)
