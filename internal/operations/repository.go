package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Repository interface {
	Insert(ctx context.Context, op Operation) error
	ExistsForQuotation(ctx context.Context, quotationCode string) (bool, error)
	GetByCode(ctx context.Context, code string) (*Operation, error)
	List(ctx context.Context) ([]Operation, error)
	UpdateSnapshot(ctx context.Context, code string, snapshot map[string]any) error
	CodesLike(ctx context.Context, prefix string) ([]string, error)

	InsertChecklistItem(ctx context.Context, item ChecklistItem) error
	ChecklistByOperation(ctx context.Context, operationCode string) ([]ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, id string, updates map[string]any) (*ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, id string) error
}

const operationColumns = `id, code, origin_quotation, client_name, op_type, status,
	snapshot, created_at, updated_at`

const checklistColumns = `id, operation_code, task, completed, created_by, created_at`

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Insert stores a promoted operation. origin_quotation carries a unique
// index, so a concurrent promotion of the same quotation surfaces as
// ErrDuplicate rather than a second row.
func (r *repository) Insert(ctx context.Context, op Operation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO operations (`+operationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		op.ID, op.Code, op.OriginQuotation, op.Client, op.OpType, op.Status,
		op.Snapshot, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("operation for %s: %w", op.OriginQuotation, httpx.ErrDuplicate)
		}
		return fmt.Errorf("operations: insert %s: %w", op.Code, err)
	}
	return nil
}

func (r *repository) ExistsForQuotation(ctx context.Context, quotationCode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM operations WHERE origin_quotation = $1)`,
		quotationCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("operations: exists for %s: %w", quotationCode, err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (Operation, error) {
	var op Operation
	err := row.Scan(&op.ID, &op.Code, &op.OriginQuotation, &op.Client, &op.OpType,
		&op.Status, &op.Snapshot, &op.CreatedAt, &op.UpdatedAt)
	return op, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Operation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+operationColumns+` FROM operations WHERE code = $1`, code)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", code, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("operations: get %s: %w", code, err)
	}
	return &op, nil
}

func (r *repository) List(ctx context.Context) ([]Operation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+operationColumns+` FROM operations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("operations: list: %w", err)
	}
	defer rows.Close()

	var out []Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

func (r *repository) UpdateSnapshot(ctx context.Context, code string, snapshot map[string]any) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE operations
		SET snapshot = $1, updated_at = NOW()
		WHERE code = $2`,
		snapshot, code)
	if err != nil {
		return fmt.Errorf("operations: update snapshot %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("operation %s: %w", code, httpx.ErrNotFound)
	}
	return nil
}

// CodesLike lets the code generator scan the issued operation series.
func (r *repository) CodesLike(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code FROM operations WHERE code LIKE $1`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("operations: code scan: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *repository) InsertChecklistItem(ctx context.Context, item ChecklistItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO operation_checklist (`+checklistColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.OperationCode, item.Task, item.Completed, item.CreatedBy, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("operations: insert checklist item: %w", err)
	}
	return nil
}

func (r *repository) ChecklistByOperation(ctx context.Context, operationCode string) ([]ChecklistItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+checklistColumns+`
		FROM operation_checklist
		WHERE operation_code = $1
		ORDER BY created_at`,
		operationCode)
	if err != nil {
		return nil, fmt.Errorf("operations: checklist %s: %w", operationCode, err)
	}
	defer rows.Close()

	var items []ChecklistItem
	for rows.Next() {
		var it ChecklistItem
		if err := rows.Scan(&it.ID, &it.OperationCode, &it.Task, &it.Completed,
			&it.CreatedBy, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var checklistUpdatable = map[string]bool{"task": true, "completed": true}

func (r *repository) UpdateChecklistItem(ctx context.Context, id string, updates map[string]any) (*ChecklistItem, error) {
	query := "UPDATE operation_checklist SET id = id"
	var args []any
	argPos := 1
	for col, v := range updates {
		if !checklistUpdatable[col] {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", col, argPos)
		args = append(args, v)
		argPos++
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argPos) + checklistColumns
	args = append(args, id)

	row := r.pool.QueryRow(ctx, query, args...)
	var it ChecklistItem
	err := row.Scan(&it.ID, &it.OperationCode, &it.Task, &it.Completed, &it.CreatedBy, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("checklist item %s: %w", id, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("operations: update checklist item %s: %w", id, err)
	}
	return &it, nil
}

func (r *repository) DeleteChecklistItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM operation_checklist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("operations: delete checklist item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checklist item %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}
