package tariffs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type memStore struct {
	rows     map[string]ChargeRecord
	carriers []string
	failAll  bool
}

func key(opType, carrier, equipment string) string {
	return opType + "|" + carrier + "|" + equipment
}

func (m *memStore) ChargeRow(_ context.Context, opType, carrier, equipment string) (*ChargeRecord, error) {
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	rec, ok := m.rows[key(opType, carrier, equipment)]
	if !ok {
		return nil, fmt.Errorf("charge row: %w", httpx.ErrNotFound)
	}
	return &rec, nil
}

func (m *memStore) Carriers(_ context.Context) ([]string, error) {
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	return m.carriers, nil
}

func (m *memStore) EquipmentTypes(_ context.Context) ([]string, error) {
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	return nil, nil
}

func (m *memStore) Airlines(_ context.Context) ([]Airline, error) {
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	return nil, nil
}

func (m *memStore) Ports(_ context.Context, _, _ string) ([]Port, error) {
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	return nil, nil
}

func newFixture(store *memStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger)
}

func TestLocalChargesUppercasesAndPairsSale(t *testing.T) {
	store := &memStore{rows: map[string]ChargeRecord{
		key("IM", "COSCO", "40HC"): {
			OpType: "IM", Carrier: "COSCO", Equipment: "40HC",
			THC: 280, Handling: 55,
		},
		key("IM", "GANBATTE", "40HC"): {
			OpType: "IM", Carrier: "GANBATTE", Equipment: "40HC",
			THC: 340, Handling: 80,
		},
	}}
	svc := newFixture(store)

	lookup := svc.LocalCharges(context.Background(), "im", "cosco", "40hc")
	require.Equal(t, 280.0, lookup.Cost.THC)
	require.Equal(t, "COSCO", lookup.Cost.Carrier)
	require.Equal(t, 340.0, lookup.Sale.THC)
	require.Equal(t, "GANBATTE", lookup.Sale.Carrier)
}

func TestLocalChargesMissIsZeroFilled(t *testing.T) {
	svc := newFixture(&memStore{rows: map[string]ChargeRecord{}})

	lookup := svc.LocalCharges(context.Background(), "IM", "MSC", "20DV")
	require.Equal(t, ChargeRecord{OpType: "IM", Carrier: "MSC", Equipment: "20DV"}, lookup.Cost)
	require.Equal(t, ChargeRecord{OpType: "IM", Carrier: "GANBATTE", Equipment: "20DV"}, lookup.Sale)
}

func TestLocalChargesOutageIsZeroFilled(t *testing.T) {
	svc := newFixture(&memStore{failAll: true})

	lookup := svc.LocalCharges(context.Background(), "IM", "MSC", "20DV")
	require.Zero(t, lookup.Cost.THC)
	require.Zero(t, lookup.Sale.THC)
}

func TestConceptsSkipsZeroFields(t *testing.T) {
	row := ChargeRecord{
		Carrier: "COSCO", Equipment: "40HC",
		THC: 280, Toll: 0, BLFee: 65,
	}

	concepts := Concepts(row, true)
	require.Len(t, concepts, 2)
	require.Equal(t, "THC (Terminal Handling Charge)", concepts[0].Concept)
	require.Equal(t, 280.0, concepts[0].Cost)
	require.Zero(t, concepts[0].Sale)
	require.True(t, concepts[0].Predefined)
	require.Equal(t, "Maritima FCL", concepts[0].Type)
	require.Equal(t, "COST", concepts[0].Details["record"])
	require.Equal(t, "BL Fee", concepts[1].Concept)
}

func TestConceptsSaleSide(t *testing.T) {
	row := ChargeRecord{Carrier: "GANBATTE", Equipment: "40HC", THC: 340}

	concepts := Concepts(row, false)
	require.Len(t, concepts, 1)
	require.Zero(t, concepts[0].Cost)
	require.Equal(t, 340.0, concepts[0].Sale)
	require.Equal(t, "SALE", concepts[0].Details["record"])
}

func TestChargeConceptsCombinesCostAndSale(t *testing.T) {
	store := &memStore{rows: map[string]ChargeRecord{
		key("IM", "COSCO", "40HC"):    {Carrier: "COSCO", Equipment: "40HC", THC: 280},
		key("IM", "GANBATTE", "40HC"): {Carrier: "GANBATTE", Equipment: "40HC", THC: 340},
	}}
	svc := newFixture(store)

	concepts := svc.ChargeConcepts(context.Background(), "IM", "COSCO", "40HC")
	require.Len(t, concepts, 2)
	require.Equal(t, 280.0, concepts[0].Cost)
	require.Equal(t, 340.0, concepts[1].Sale)
}

func TestReferenceListsFallBack(t *testing.T) {
	svc := newFixture(&memStore{failAll: true})
	ctx := context.Background()

	require.Equal(t, fallbackCarriers, svc.Carriers(ctx))
	require.Equal(t, fallbackEquipment, svc.EquipmentTypes(ctx))
	require.Equal(t, fallbackAirlines, svc.Airlines(ctx))
}

func TestReferenceListsPreferStore(t *testing.T) {
	svc := newFixture(&memStore{carriers: []string{"COSCO", "MSC"}})

	require.Equal(t, []string{"COSCO", "MSC"}, svc.Carriers(context.Background()))
}
