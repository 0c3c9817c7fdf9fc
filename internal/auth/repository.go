package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const userColumns = "id, display_name, email, password_hash, avatar_url, is_active, created_at, last_seen_at"

// Repository provides database access for user accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser persists a new inactive account.
func (r *Repository) CreateUser(ctx context.Context, displayName, email, passwordHash string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO users (display_name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING ` + userColumns + `;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, displayName, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailAlreadyExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByEmail fetches a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
}

// FindByID fetches a user by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
}

// Activate marks an account confirmed.
func (r *Repository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE users SET is_active = TRUE WHERE id = $1;`, id)
}

// UpdateEmail changes an account's email.
func (r *Repository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE users SET email = $2 WHERE id = $1;`, id, email); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("update email: %w", err)
	}
	return nil
}

// UpdatePassword changes an account's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1;`, id, passwordHash)
}

// TouchLastSeen records a successful login.
func (r *Repository) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE users SET last_seen_at = now() WHERE id = $1;`, id)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.IsActive, &u.CreatedAt, &u.LastSeenAt)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
