package notifications

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Repository interface {
	Insert(ctx context.Context, n Notification) error
	ListByCode(ctx context.Context, quotationCode string) ([]Notification, error)
	ListUnread(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

const notificationColumns = `id, quotation_code, alert_type, message, read, created_at`

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, n Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.QuotationCode, n.AlertType, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("notifications: insert: %w", err)
	}
	return nil
}

func (r *repository) ListByCode(ctx context.Context, quotationCode string) ([]Notification, error) {
	return r.queryMany(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE quotation_code = $1
		ORDER BY created_at DESC`,
		quotationCode)
}

func (r *repository) ListUnread(ctx context.Context) ([]Notification, error) {
	return r.queryMany(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE NOT read
		ORDER BY created_at DESC`)
}

func (r *repository) queryMany(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("notifications: list: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.QuotationCode, &n.AlertType, &n.Message,
			&n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notifications: mark read %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}
