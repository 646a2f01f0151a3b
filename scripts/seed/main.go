// Command seed loads a minimal demo dataset: a few active clients and
// the house maritime local-charge rows, enough to quote against a fresh
// database.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/app"
	"github.com/ganbatte/backoffice/internal/clients"
)

type chargeSeed struct {
	opType    string
	carrier   string
	equipment string
	thc       float64
	handling  float64
	blFee     float64
}

var chargeSeeds = []chargeSeed{
	{"IM", "GANBATTE", "40HC", 340, 80, 95},
	{"IM", "GANBATTE", "20DV", 260, 80, 95},
	{"IM", "COSCO", "40HC", 280, 55, 65},
	{"IM", "MSC", "40HC", 295, 60, 65},
	{"EM", "GANBATTE", "40HC", 320, 80, 95},
}

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedClients(ctx, pool, logger); err != nil {
		logger.Error("seed clients", slog.Any("error", err))
		os.Exit(1)
	}
	if err := seedCharges(ctx, pool); err != nil {
		logger.Error("seed charges", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func seedClients(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	repo := clients.NewRepository(pool)
	svc := clients.NewService(repo, nil, logger)

	seeds := []clients.CreateClientRequest{
		{Name: "ACME SA", Email: strPtr("ops@acme.com.ar"), TaxID: strPtr("30-11111111-9"), City: strPtr("Buenos Aires")},
		{Name: "Frigorifico del Sur", Email: strPtr("exportaciones@frigosur.com.ar"), TaxID: strPtr("30-22222222-7"), City: strPtr("Rosario")},
		{Name: "TecnoParts SRL", Email: strPtr("compras@tecnoparts.com.ar"), TaxID: strPtr("30-33333333-5"), City: strPtr("Cordoba")},
	}
	for _, req := range seeds {
		if _, err := svc.Create(ctx, req); err != nil {
			// duplicates mean the seed already ran
			logger.Warn("skip client", slog.String("name", req.Name), slog.Any("error", err))
		}
	}
	return nil
}

func seedCharges(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range chargeSeeds {
		total := s.thc + s.handling + s.blFee
		if _, err := pool.Exec(ctx, `
			INSERT INTO maritime_local_charges
				(op_type, carrier, equipment, thc, toll, gate, delivery_order, ccf,
				 handling, logistic_fee, bl_fee, ingreso_sim, cert_flete, cert_fob, total_locales)
			VALUES ($1, $2, $3, $4, 0, 0, 0, 0, $5, 0, $6, 0, 0, 0, $7)
			ON CONFLICT (op_type, carrier, equipment) DO NOTHING`,
			s.opType, s.carrier, s.equipment, s.thc, s.handling, s.blFee, total,
		); err != nil {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
