package tariffs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

// Static fallbacks served when the tariff store is unreachable. The SPA
// needs something to populate its dropdowns with.
var (
	fallbackCarriers = []string{
		"CMA CGM", "COSCO", "EVERGREEN", "GANBATTE", "HAPAG LLOYD", "HMM",
		"LOG-IN", "MAERSK", "MSC", "ONE", "PIL", "YANG MING", "ZIM",
	}
	fallbackEquipment = []string{
		"20DV", "20FR", "20OT", "20RE", "20TK",
		"40DV", "40FR", "40HC", "40NOR", "40OT",
	}
	fallbackAirlines = []Airline{
		{ID: 1, Name: "LATAM Airlines", IATACode: "LA", Country: "Chile"},
		{ID: 2, Name: "Aerolineas Argentinas", IATACode: "AR", Country: "Argentina"},
		{ID: 3, Name: "American Airlines", IATACode: "AA", Country: "Estados Unidos"},
		{ID: 4, Name: "Delta Air Lines", IATACode: "DL", Country: "Estados Unidos"},
		{ID: 5, Name: "United Airlines", IATACode: "UA", Country: "Estados Unidos"},
	}
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// LocalCharges looks up the carrier's cost row and the house sale row
// for an operation type and equipment. Lookups never fail: a missing or
// unreachable row comes back zero-filled so the cost sheet still renders.
func (s *Service) LocalCharges(ctx context.Context, opType, carrier, equipment string) ChargeLookup {
	opType = strings.ToUpper(strings.TrimSpace(opType))
	carrier = strings.ToUpper(strings.TrimSpace(carrier))
	equipment = strings.ToUpper(strings.TrimSpace(equipment))

	var lookup ChargeLookup
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lookup.Cost = s.chargeRow(ctx, opType, carrier, equipment)
		return nil
	})
	g.Go(func() error {
		lookup.Sale = s.chargeRow(ctx, opType, HouseCarrier, equipment)
		return nil
	})
	_ = g.Wait()
	return lookup
}

func (s *Service) chargeRow(ctx context.Context, opType, carrier, equipment string) ChargeRecord {
	rec, err := s.repo.ChargeRow(ctx, opType, carrier, equipment)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			s.logger.Warn("charge lookup degraded",
				slog.String("carrier", carrier), slog.Any("error", err))
		}
		return ChargeRecord{OpType: opType, Carrier: carrier, Equipment: equipment}
	}
	return *rec
}

// ChargeConcepts renders a full lookup as cost-sheet lines, cost rows
// first.
func (s *Service) ChargeConcepts(ctx context.Context, opType, carrier, equipment string) []Concept {
	lookup := s.LocalCharges(ctx, opType, carrier, equipment)
	concepts := Concepts(lookup.Cost, true)
	concepts = append(concepts, Concepts(lookup.Sale, false)...)
	if concepts == nil {
		concepts = []Concept{}
	}
	return concepts
}

func (s *Service) Carriers(ctx context.Context) []string {
	carriers, err := s.repo.Carriers(ctx)
	if err != nil || len(carriers) == 0 {
		if err != nil {
			s.logger.Warn("carrier list degraded", slog.Any("error", err))
		}
		return fallbackCarriers
	}
	return carriers
}

func (s *Service) EquipmentTypes(ctx context.Context) []string {
	types, err := s.repo.EquipmentTypes(ctx)
	if err != nil || len(types) == 0 {
		if err != nil {
			s.logger.Warn("equipment list degraded", slog.Any("error", err))
		}
		return fallbackEquipment
	}
	return types
}

func (s *Service) Airlines(ctx context.Context) []Airline {
	airlines, err := s.repo.Airlines(ctx)
	if err != nil || len(airlines) == 0 {
		if err != nil {
			s.logger.Warn("airline list degraded", slog.Any("error", err))
		}
		return fallbackAirlines
	}
	return airlines
}

func (s *Service) Ports(ctx context.Context, portType, country string) ([]Port, error) {
	ports, err := s.repo.Ports(ctx, portType, country)
	if err != nil {
		return nil, err
	}
	if ports == nil {
		ports = []Port{}
	}
	return ports, nil
}

// Config returns the static cost-sheet settings.
func (s *Service) Config() CostConfig {
	return CostConfig{
		BaseCurrency:    "USD",
		DefaultMargin:   0.2,
		ConceptsEnabled: true,
		UpdatedAt:       s.now().Format(time.RFC3339),
	}
}
