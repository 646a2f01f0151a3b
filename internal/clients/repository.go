package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Repository interface {
	Insert(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, filter ListFilter) ([]Client, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Deactivate(ctx context.Context, id string) error
	ActiveExists(ctx context.Context, name string) (bool, error)
	ActiveTaxIDExists(ctx context.Context, taxID string) (bool, error)
	ActiveEmailExists(ctx context.Context, email string) (bool, error)
}

const clientColumns = `id, name, email, phone, address, city, country, tax_id,
	industry, primary_contact, active, created_at, updated_at`

// updatableColumns is the allow-list for partial updates.
var updatableColumns = map[string]bool{
	"name": true, "email": true, "phone": true, "address": true,
	"city": true, "country": true, "tax_id": true, "industry": true,
	"primary_contact": true, "active": true,
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, c Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.TaxID,
		c.Industry, c.PrimaryContact, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("clients: insert %s: %w", c.Name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.Country, &c.TaxID, &c.Industry, &c.PrimaryContact, &c.Active,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Client, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("clients: get %s: %w", id, err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var (
		where []string
		args  []any
	)
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%[1]d OR email ILIKE $%[1]d OR tax_id ILIKE $%[1]d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	query := "UPDATE clients SET updated_at = NOW()"
	var args []any
	argPos := 1
	for col, v := range updates {
		if !updatableColumns[col] {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", col, argPos)
		args = append(args, v)
		argPos++
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clients: update %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clients: deactivate %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) ActiveExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE name = $1 AND active)`, name)
}

func (r *repository) ActiveTaxIDExists(ctx context.Context, taxID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE tax_id = $1 AND active)`, taxID)
}

func (r *repository) ActiveEmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE email = $1 AND active)`, email)
}

func (r *repository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("clients: exists: %w", err)
	}
	return exists, nil
}
