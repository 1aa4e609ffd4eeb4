package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rallydesk/rallydesk/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, u *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.User, error)
	GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error)
	MarkVerified(ctx context.Context, exec SQLExecutor, id string) error
	SetVerificationCode(ctx context.Context, exec SQLExecutor, id string, code string) error
}

type postgresUserRepository struct{}

func NewPostgresUserRepository() UserRepository {
	return &postgresUserRepository{}
}

const userColumns = `id, email, full_name, password_hash, role, verified, verification_code, created_at`

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, u *models.User) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.Role, u.Verified, u.VerificationCode, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.User, error) {
	return r.getBy(ctx, exec, `id`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error) {
	return r.getBy(ctx, exec, `email`, email)
}

func (r *postgresUserRepository) getBy(ctx context.Context, exec SQLExecutor, column, value string) (*models.User, error) {
	var u models.User
	err := exec.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.Verified, &u.VerificationCode, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by %s: %w", column, err)
	}
	return &u, nil
}

func (r *postgresUserRepository) MarkVerified(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE users SET verified = TRUE, verification_code = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark user %s verified: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetVerificationCode(ctx context.Context, exec SQLExecutor, id string, code string) error {
	result, err := exec.ExecContext(ctx, `UPDATE users SET verification_code = $2 WHERE id = $1`, id, code)
	if err != nil {
		return fmt.Errorf("failed to set verification code for user %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
