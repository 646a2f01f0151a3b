package tariffs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Repository interface {
	ChargeRow(ctx context.Context, opType, carrier, equipment string) (*ChargeRecord, error)
	Carriers(ctx context.Context) ([]string, error)
	EquipmentTypes(ctx context.Context) ([]string, error)
	Airlines(ctx context.Context) ([]Airline, error)
	Ports(ctx context.Context, portType, country string) ([]Port, error)
}

const chargeColumns = `op_type, carrier, equipment, thc, toll, gate, delivery_order,
	ccf, handling, logistic_fee, bl_fee, ingreso_sim, cert_flete, cert_fob, total_locales`

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ChargeRow(ctx context.Context, opType, carrier, equipment string) (*ChargeRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+chargeColumns+`
		FROM maritime_local_charges
		WHERE op_type = $1 AND carrier = $2 AND equipment = $3`,
		opType, carrier, equipment)

	var rec ChargeRecord
	err := row.Scan(&rec.OpType, &rec.Carrier, &rec.Equipment, &rec.THC, &rec.Toll,
		&rec.Gate, &rec.DeliveryOrder, &rec.CCF, &rec.Handling, &rec.LogisticFee,
		&rec.BLFee, &rec.IngresoSIM, &rec.CertFlete, &rec.CertFOB, &rec.TotalLocales)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("charge row %s/%s/%s: %w", opType, carrier, equipment, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("tariffs: charge row: %w", err)
	}
	return &rec, nil
}

func (r *repository) Carriers(ctx context.Context) ([]string, error) {
	return r.stringColumn(ctx,
		`SELECT DISTINCT carrier FROM maritime_local_charges ORDER BY carrier`)
}

func (r *repository) EquipmentTypes(ctx context.Context) ([]string, error) {
	return r.stringColumn(ctx,
		`SELECT DISTINCT equipment FROM maritime_local_charges ORDER BY equipment`)
}

func (r *repository) stringColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tariffs: list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Airlines(ctx context.Context) ([]Airline, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, iata_code, country
		FROM airlines
		WHERE active
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("tariffs: airlines: %w", err)
	}
	defer rows.Close()

	var out []Airline
	for rows.Next() {
		var a Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.IATACode, &a.Country); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Ports(ctx context.Context, portType, country string) ([]Port, error) {
	query := `SELECT id, name, type, country, code FROM ports_airports WHERE active`
	var args []any
	if portType != "" {
		args = append(args, portType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if country != "" {
		args = append(args, "%"+country+"%")
		query += fmt.Sprintf(" AND country ILIKE $%d", len(args))
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tariffs: ports: %w", err)
	}
	defer rows.Close()

	var out []Port
	for rows.Next() {
		var p Port
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Country, &p.Code); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
