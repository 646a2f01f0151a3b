package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
	"github.com/ganbatte/backoffice/internal/quotations"
	"github.com/ganbatte/backoffice/internal/sequence"
)

// QuotationSource resolves the quotation an operation is promoted from.
// quotations.Repository satisfies it.
type QuotationSource interface {
	GetByCode(ctx context.Context, code string) (*quotations.Quotation, error)
}

type Service struct {
	repo   Repository
	quotes QuotationSource
	codes  *sequence.Generator
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, quotes QuotationSource, codes *sequence.Generator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		quotes: quotes,
		codes:  codes,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Promote opens an operation from an accepted quotation. It is
// idempotent per quotation: a second promotion of the same code is a
// logged no-op, so redelivered jobs cannot open duplicate operations.
// A missing quotation is also a no-op, there is nothing to retry.
func (s *Service) Promote(ctx context.Context, quotationCode string) error {
	exists, err := s.repo.ExistsForQuotation(ctx, quotationCode)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("operation already exists, skipping promotion",
			slog.String("quotation", quotationCode))
		return nil
	}

	q, err := s.quotes.GetByCode(ctx, quotationCode)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			s.logger.Error("promotion skipped, quotation not found",
				slog.String("quotation", quotationCode))
			return nil
		}
		return err
	}

	now := s.now()
	op := Operation{
		ID:              uuid.NewString(),
		Code:            s.codes.Next(ctx, sequence.OperationPrefix),
		OriginQuotation: q.Code,
		Client:          q.Client,
		OpType:          q.OpType,
		Status:          StatusInProgress,
		Snapshot:        snapshotFromQuotation(q),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, op); err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			s.logger.Info("operation inserted concurrently, skipping promotion",
				slog.String("quotation", quotationCode))
			return nil
		}
		return err
	}

	s.logger.Info("operation opened",
		slog.String("code", op.Code), slog.String("quotation", quotationCode))
	return nil
}

// snapshotFromQuotation builds the bag an operation starts with. Key
// names match the rows written by the previous system.
func snapshotFromQuotation(q *quotations.Quotation) map[string]any {
	snap := map[string]any{
		"modo_transporte": q.TransportMode,
		"origen":          q.Origin,
		"destino":         q.Destination,
		"peso_total_kg":   q.TotalWeightKg,
		"volumen_m3":      q.VolumeM3,
	}
	setStr := func(key string, v *string) {
		if v != nil {
			snap[key] = *v
		}
	}
	setStr("referencia", q.Reference)
	setStr("equipo", q.Equipment)
	setStr("incoterm_origen", q.IncotermOrigin)
	setStr("incoterm_destino", q.IncotermDestination)
	return snap
}

func (s *Service) List(ctx context.Context) ([]Operation, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("operation listing degraded", slog.Any("error", err))
		return []Operation{}, nil
	}
	if ops == nil {
		ops = []Operation{}
	}
	return ops, nil
}

func (s *Service) Get(ctx context.Context, code string) (*Operation, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update merges new values into the operation's snapshot. Existing keys
// not present in the request survive.
func (s *Service) Update(ctx context.Context, code string, req UpdateOperationRequest) (*Operation, error) {
	return s.mergeSnapshot(ctx, code, req.Snapshot)
}

// UpdateTracking folds the set tracking fields into the snapshot.
func (s *Service) UpdateTracking(ctx context.Context, t TrackingUpdate) (*Operation, error) {
	return s.mergeSnapshot(ctx, t.Code, t.snapshotPatch())
}

func (s *Service) mergeSnapshot(ctx context.Context, code string, patch map[string]any) (*Operation, error) {
	op, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(op.Snapshot)+len(patch))
	for k, v := range op.Snapshot {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}

	if err := s.repo.UpdateSnapshot(ctx, code, merged); err != nil {
		return nil, err
	}
	op.Snapshot = merged
	op.UpdatedAt = s.now()
	return op, nil
}

// OperationStats reports checklist progress. A storage outage degrades
// to zeroes rather than failing the dashboard.
func (s *Service) OperationStats(ctx context.Context, code string) (Stats, error) {
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return Stats{}, err
	}
	items, err := s.repo.ChecklistByOperation(ctx, code)
	if err != nil {
		s.logger.Warn("operation stats degraded",
			slog.String("code", code), slog.Any("error", err))
		return Stats{}, nil
	}

	completed := 0
	for _, it := range items {
		if it.Completed {
			completed++
		}
	}
	stats := Stats{
		PendingTasks: len(items) - completed,
		TotalTasks:   len(items),
	}
	if len(items) > 0 {
		stats.Progress = completed * 100 / len(items)
	}
	return stats, nil
}

func (s *Service) Checklist(ctx context.Context, code string) ([]ChecklistItem, error) {
	items, err := s.repo.ChecklistByOperation(ctx, code)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ChecklistItem{}
	}
	return items, nil
}

func (s *Service) AddChecklistItem(ctx context.Context, code string, req AddChecklistItemRequest) (*ChecklistItem, error) {
	if strings.TrimSpace(req.Task) == "" {
		return nil, fmt.Errorf("checklist task is empty: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return nil, err
	}

	item := ChecklistItem{
		ID:            uuid.NewString(),
		OperationCode: code,
		Task:          strings.TrimSpace(req.Task),
		Completed:     false,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     s.now(),
	}
	if err := s.repo.InsertChecklistItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateChecklistItem(ctx context.Context, id string, req UpdateChecklistItemRequest) (*ChecklistItem, error) {
	updates := make(map[string]any)
	if req.Task != nil {
		updates["task"] = *req.Task
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	return s.repo.UpdateChecklistItem(ctx, id, updates)
}

func (s *Service) DeleteChecklistItem(ctx context.Context, id string) error {
	return s.repo.DeleteChecklistItem(ctx, id)
}
