package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/platform/db"
	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Repository interface {
	Insert(ctx context.Context, q Quotation) error
	GetByCode(ctx context.Context, code string) (*Quotation, error)
	List(ctx context.Context) ([]Quotation, error)
	ListByClient(ctx context.Context, client string) ([]Quotation, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]Quotation, error)
	Update(ctx context.Context, code string, updates map[string]any) error
	UpdateStatus(ctx context.Context, code string, status Status, at time.Time) error
	Delete(ctx context.Context, code string) error
	CostLines(ctx context.Context, code string) ([]CostLine, error)
	InsertCostLines(ctx context.Context, lines []CostLine) error
	ReplaceCostLines(ctx context.Context, code string, lines []CostLine) error
	CodesLike(ctx context.Context, prefix string) ([]string, error)
}

const quotationColumns = `id, code, client_name, client_email, op_type, transport_mode,
	incoterm_origin, incoterm_destination, origin, destination, reference,
	validity_days, valid_until, status, status_changed_at, carrier, airline,
	equipment, container_count, container_type, bl_count, commercial_value,
	total_weight_kg, chargeable_weight_kg, volume_m3, packaging_type,
	pallet_count, transit_days, transshipment, free_storage_days,
	pickup_address, delivery_address, pre_carrier, consolidation, food_cargo,
	dry_ice, local_charges, created_at, updated_at`

// updatableColumns is the allow-list for partial updates. id, code and
// created_at stay immutable.
var updatableColumns = map[string]bool{
	"client_name": true, "client_email": true, "op_type": true,
	"transport_mode": true, "incoterm_origin": true, "incoterm_destination": true,
	"origin": true, "destination": true, "reference": true, "validity_days": true,
	"valid_until": true, "status": true, "carrier": true, "airline": true,
	"equipment": true, "container_count": true, "container_type": true,
	"bl_count": true, "commercial_value": true, "total_weight_kg": true,
	"chargeable_weight_kg": true, "volume_m3": true, "packaging_type": true,
	"pallet_count": true, "transit_days": true, "transshipment": true,
	"free_storage_days": true, "pickup_address": true, "delivery_address": true,
	"pre_carrier": true, "consolidation": true, "food_cargo": true,
	"dry_ice": true, "local_charges": true,
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, q Quotation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quotations (`+quotationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
		        $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39)`,
		q.ID, q.Code, q.Client, q.ClientEmail, q.OpType, q.TransportMode,
		q.IncotermOrigin, q.IncotermDestination, q.Origin, q.Destination, q.Reference,
		q.ValidityDays, q.ValidUntil, q.Status, q.StatusChangedAt, q.Carrier, q.Airline,
		q.Equipment, q.ContainerCount, q.ContainerType, q.BLCount, q.CommercialValue,
		q.TotalWeightKg, q.ChargeableWeightKg, q.VolumeM3, q.PackagingType,
		q.PalletCount, q.TransitDays, q.Transshipment, q.FreeStorageDays,
		q.PickupAddress, q.DeliveryAddress, q.PreCarrier, q.Consolidation, q.FoodCargo,
		q.DryIce, q.LocalCharges, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("quotations: insert %s: %w", q.Code, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row rowScanner) (Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.Code, &q.Client, &q.ClientEmail, &q.OpType, &q.TransportMode,
		&q.IncotermOrigin, &q.IncotermDestination, &q.Origin, &q.Destination, &q.Reference,
		&q.ValidityDays, &q.ValidUntil, &q.Status, &q.StatusChangedAt, &q.Carrier, &q.Airline,
		&q.Equipment, &q.ContainerCount, &q.ContainerType, &q.BLCount, &q.CommercialValue,
		&q.TotalWeightKg, &q.ChargeableWeightKg, &q.VolumeM3, &q.PackagingType,
		&q.PalletCount, &q.TransitDays, &q.Transshipment, &q.FreeStorageDays,
		&q.PickupAddress, &q.DeliveryAddress, &q.PreCarrier, &q.Consolidation, &q.FoodCargo,
		&q.DryIce, &q.LocalCharges, &q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Quotation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE code = $1`, code)
	q, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation %s: %w", code, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("quotations: get %s: %w", code, err)
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context) ([]Quotation, error) {
	return r.queryMany(ctx,
		`SELECT `+quotationColumns+` FROM quotations ORDER BY created_at DESC`)
}

func (r *repository) ListByClient(ctx context.Context, client string) ([]Quotation, error) {
	return r.queryMany(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE client_name = $1 ORDER BY created_at DESC`,
		client)
}

// ListExpiring returns quotations whose validity date has reached the
// cutoff and whose stored state can still transition.
func (r *repository) ListExpiring(ctx context.Context, cutoff time.Time) ([]Quotation, error) {
	return r.queryMany(ctx, `
		SELECT `+quotationColumns+`
		FROM quotations
		WHERE valid_until IS NOT NULL
		  AND valid_until <= $1
		  AND status NOT IN ($2, $3, $4)
		ORDER BY valid_until`,
		cutoff, StatusExpired, StatusAccepted, StatusRejected)
}

func (r *repository) queryMany(ctx context.Context, query string, args ...any) ([]Quotation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quotations: list: %w", err)
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, code string, updates map[string]any) error {
	query := "UPDATE quotations SET updated_at = NOW()"
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
	query += fmt.Sprintf(" WHERE code = $%d", argPos)
	args = append(args, code)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("quotations: update %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %s: %w", code, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, code string, status Status, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations
		SET status = $1, status_changed_at = $2, updated_at = NOW()
		WHERE code = $3`,
		status, at, code)
	if err != nil {
		return fmt.Errorf("quotations: update status %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %s: %w", code, httpx.ErrNotFound)
	}
	return nil
}

// Delete removes a quotation and its cost sheet. The two deletes are
// deliberately not transactional: a quotation row without cost lines is
// harmless, orphaned cost lines are not.
func (r *repository) Delete(ctx context.Context, code string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM quotation_costs WHERE quotation_code = $1`, code); err != nil {
		return fmt.Errorf("quotations: delete costs %s: %w", code, err)
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotations WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("quotations: delete %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %s: %w", code, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) CostLines(ctx context.Context, code string) ([]CostLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_code, concept, cost, sale, predefined, type, details, currency, created_at
		FROM quotation_costs
		WHERE quotation_code = $1
		ORDER BY created_at`,
		code)
	if err != nil {
		return nil, fmt.Errorf("quotations: costs %s: %w", code, err)
	}
	defer rows.Close()

	var lines []CostLine
	for rows.Next() {
		var l CostLine
		if err := rows.Scan(&l.ID, &l.QuotationCode, &l.Concept, &l.Cost, &l.Sale,
			&l.Predefined, &l.Type, &l.Details, &l.Currency, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) InsertCostLines(ctx context.Context, lines []CostLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertCostLines(ctx, tx, lines)
	})
}

// ReplaceCostLines swaps the full cost sheet of a quotation in one
// transaction.
func (r *repository) ReplaceCostLines(ctx context.Context, code string, lines []CostLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM quotation_costs WHERE quotation_code = $1`, code); err != nil {
			return fmt.Errorf("quotations: clear costs %s: %w", code, err)
		}
		return insertCostLines(ctx, tx, lines)
	})
}

func insertCostLines(ctx context.Context, tx pgx.Tx, lines []CostLine) error {
	for _, l := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quotation_costs (id, quotation_code, concept, cost, sale, predefined, type, details, currency, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, l.QuotationCode, l.Concept, l.Cost, l.Sale, l.Predefined, l.Type, l.Details, l.Currency, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("quotations: insert cost %q: %w", l.Concept, err)
		}
	}
	return nil
}

// CodesLike lets the code generator scan the issued quotation series.
func (r *repository) CodesLike(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code FROM quotations WHERE code LIKE $1`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("quotations: code scan: %w", err)
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
