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

var userColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"password_hash",
	"profile_image",
	"password_changed_at",
	"reset_token_hash",
	"reset_token_expires_at",
	"created_at",
}

// userQueryColumns maps list query parameter names onto table columns.
var userQueryColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"createdAt": "created_at",
}

// profileColumns is the allow-list for UpdateProfile fields.
var profileColumns = map[string]struct{}{
	"first_name":    {},
	"last_name":     {},
	"email":         {},
	"profile_image": {},
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row. A unique violation on email or phone maps
// to repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var phoneValue any
	if user.Phone != nil && *user.Phone != "" {
		phoneValue = *user.Phone
	}

	var imageValue any
	if user.ProfileImage != nil && *user.ProfileImage != "" {
		imageValue = *user.ProfileImage
	}

	query := r.builder.Insert("apply.users").
		Columns(
			"id",
			"first_name",
			"last_name",
			"email",
			"phone",
			"password_hash",
			"profile_image",
			"created_at",
		).
		Values(
			user.ID,
			user.FirstName,
			user.LastName,
			user.Email,
			phoneValue,
			user.PasswordHash,
			imageValue,
			user.CreatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user              domain.User
		phone             sql.NullString
		profileImage      sql.NullString
		passwordChangedAt *time.Time
		resetTokenHash    sql.NullString
		resetTokenExpires *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&profileImage,
		&passwordChangedAt,
		&resetTokenHash,
		&resetTokenExpires,
		&user.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if phone.Valid {
		val := phone.String
		user.Phone = &val
	}
	if profileImage.Valid {
		val := profileImage.String
		user.ProfileImage = &val
	}
	user.PasswordChangedAt = passwordChangedAt
	if resetTokenHash.Valid {
		val := resetTokenHash.String
		user.ResetTokenHash = &val
	}
	user.ResetTokenExpires = resetTokenExpires

	return &user, nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("apply.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByIdentifier retrieves a user by email or phone.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("apply.users").
		Where(squirrel.Or{
			squirrel.Eq{"email": identifier},
			squirrel.Eq{"phone": identifier},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by identifier sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns users shaped by the supplied query.
func (r *UserRepository) List(ctx context.Context, query port.ListQuery) ([]domain.User, error) {
	sb := r.builder.
		Select(userColumns...).
		From("apply.users")
	sb = applyListQuery(sb, query, userQueryColumns, "created_at DESC")

	stmt, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateProfile modifies the provided allow-listed profile fields and returns
// the updated row. Unknown field names are rejected.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	update := r.builder.Update("apply.users")
	for name, value := range fields {
		if _, ok := profileColumns[name]; !ok {
			return nil, fmt.Errorf("profile field %q is not updatable", name)
		}
		update = update.Set(name, value)
	}

	stmt, args, err := update.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile sql: %w", err)
	}

	user, err := r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword updates the password hash and change timestamp. Any pending
// recovery token is invalidated in the same statement so a previously mailed
// secret cannot overwrite the new password.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("apply.users").
		Set("password_hash", passwordHash).
		Set("password_changed_at", changedAt).
		Set("reset_token_hash", nil).
		Set("reset_token_expires_at", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// StoreResetToken records the recovery token fingerprint and expiry.
// Overwrites any previous pending token (last write wins).
func (r *UserRepository) StoreResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	stmt, args, err := r.builder.Update("apply.users").
		Set("reset_token_hash", tokenHash).
		Set("reset_token_expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build store reset token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ClearResetToken removes any pending recovery token.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("apply.users").
		Set("reset_token_hash", nil).
		Set("reset_token_expires_at", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear reset token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetByResetTokenHash finds the user holding an unexpired recovery token with
// the given fingerprint. Expiry is enforced in the query itself.
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("apply.users").
		Where(squirrel.Eq{"reset_token_hash": tokenHash}).
		Where(squirrel.Gt{"reset_token_expires_at": now}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by reset token sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// ResetPassword installs the new password hash and clears the pending
// recovery token in a single statement.
func (r *UserRepository) ResetPassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("apply.users").
		Set("password_hash", passwordHash).
		Set("password_changed_at", changedAt).
		Set("reset_token_hash", nil).
		Set("reset_token_expires_at", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reset password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
