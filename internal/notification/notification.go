// Package notification stores per-user in-app notices.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

// ErrMessageRequired signals an empty notification message.
var ErrMessageRequired = errors.New("message required")

// Notification is one notice shown to a user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository provides access to notification rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a notice. An empty kind defaults to "info".
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, message, kind string) (Notification, error) {
	if message == "" {
		return Notification{}, ErrMessageRequired
	}
	if kind == "" {
		kind = "info"
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO notifications (user_id, message, kind)
VALUES ($1, $2, $3)
RETURNING id, user_id, message, kind, is_read, created_at;`

	n, err := scanNotification(r.pool.QueryRow(ctx, query, userID, message, kind))
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Latest returns the user's 50 most recent notices, newest first.
func (r *Repository) Latest(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, user_id, message, kind, is_read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 50;`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notes []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notes, nil
}

// MarkAllRead flags every unread notice of the user.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE;`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// Clear removes every notice of the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.Read, &n.CreatedAt)
	return n, err
}
