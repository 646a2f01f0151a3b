package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
	"github.com/ganbatte/backoffice/internal/sequence"
)

// ClientDirectory answers whether a client may be quoted for.
type ClientDirectory interface {
	ActiveExists(ctx context.Context, name string) (bool, error)
}

// TaskEnqueuer hands side effects to the background worker. Enqueue
// failures are always logged and swallowed by the service; the quotation
// flow never fails because Redis is down.
type TaskEnqueuer interface {
	EnqueueNotification(ctx context.Context, quotationCode, alertType, message string) error
	EnqueuePromotion(ctx context.Context, quotationCode string) error
}

// FolderProvisioner creates the document folder skeleton for a code.
type FolderProvisioner interface {
	Provision(code string) error
}

const defaultValidityDays = 30

type Service struct {
	repo    Repository
	clients ClientDirectory
	codes   *sequence.Generator
	tasks   TaskEnqueuer
	folders FolderProvisioner
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, clients ClientDirectory, codes *sequence.Generator, tasks TaskEnqueuer, folders FolderProvisioner, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		codes:   codes,
		tasks:   tasks,
		folders: folders,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*View, error) {
	exists, err := s.clients.ActiveExists(ctx, req.Client)
	if err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: client %q does not exist or is inactive", httpx.ErrValidation, req.Client)
	}

	mode, ok := CanonicalTransportMode(req.TransportMode)
	if !ok {
		return nil, fmt.Errorf("%w: invalid transport mode %q", httpx.ErrValidation, req.TransportMode)
	}
	req.TransportMode = mode
	if req.IncotermOrigin != nil && !ValidIncoterm(*req.IncotermOrigin) {
		return nil, fmt.Errorf("%w: invalid origin incoterm %q", httpx.ErrValidation, *req.IncotermOrigin)
	}
	if req.IncotermDestination != nil && !ValidIncoterm(*req.IncotermDestination) {
		return nil, fmt.Errorf("%w: invalid destination incoterm %q", httpx.ErrValidation, *req.IncotermDestination)
	}

	// Maritime quotations carry a container: standardize the label to the
	// short code before it is persisted, so tariff lookups match later.
	if strings.Contains(req.TransportMode, "Maritima") && req.ContainerType != nil && *req.ContainerType != "" {
		label := *req.ContainerType
		code := NormalizeEquipment(label)
		if code == "" || !ValidContainer(code) {
			return nil, fmt.Errorf("%w: invalid container type %q for maritime transport", httpx.ErrValidation, label)
		}
		req.ContainerType = &code
		req.Equipment = &code
	}

	now := s.now()
	validityDays := defaultValidityDays
	if req.ValidityDays != nil && *req.ValidityDays > 0 {
		validityDays = *req.ValidityDays
	}
	validUntil := now.AddDate(0, 0, validityDays)

	q := Quotation{
		ID:                  uuid.NewString(),
		Code:                s.codes.Next(ctx, sequence.PrefixFor(req.OpType)),
		Client:              req.Client,
		ClientEmail:         req.ClientEmail,
		OpType:              req.OpType,
		TransportMode:       req.TransportMode,
		IncotermOrigin:      req.IncotermOrigin,
		IncotermDestination: req.IncotermDestination,
		Origin:              req.Origin,
		Destination:         req.Destination,
		Reference:           req.Reference,
		ValidityDays:        validityDays,
		ValidUntil:          &validUntil,
		Status:              StatusCreated,
		Carrier:             req.Carrier,
		Airline:             req.Airline,
		Equipment:           req.Equipment,
		ContainerCount:      intOr(req.ContainerCount, 1),
		ContainerType:       req.ContainerType,
		BLCount:             intOr(req.BLCount, 1),
		CommercialValue:     floatOr(req.CommercialValue, 0),
		TotalWeightKg:       floatOr(req.TotalWeightKg, 0),
		ChargeableWeightKg:  floatOr(req.ChargeableWeightKg, 0),
		VolumeM3:            floatOr(req.VolumeM3, 0),
		PackagingType:       req.PackagingType,
		PalletCount:         intOr(req.PalletCount, 0),
		TransitDays:         intOr(req.TransitDays, 0),
		Transshipment:       boolOr(req.Transshipment),
		FreeStorageDays:     intOr(req.FreeStorageDays, 0),
		PickupAddress:       req.PickupAddress,
		DeliveryAddress:     req.DeliveryAddress,
		PreCarrier:          req.PreCarrier,
		Consolidation:       req.Consolidation,
		FoodCargo:           boolOr(req.FoodCargo),
		DryIce:              boolOr(req.DryIce),
		LocalCharges:        floatOr(req.LocalCharges, 0),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, q); err != nil {
		return nil, err
	}

	s.notify(ctx, q.Code, "created", fmt.Sprintf("Quotation %s created", q.Code))

	view := newView(q, now)
	return &view, nil
}

func (s *Service) Get(ctx context.Context, code string) (*View, error) {
	q, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	costs, err := s.repo.CostLines(ctx, code)
	if err != nil {
		return nil, err
	}
	view := newView(*q, s.now())
	view.Costs = costs
	return &view, nil
}

// List returns all quotations with derived state, newest first. A store
// outage degrades to an empty list so the board still renders.
func (s *Service) List(ctx context.Context) ([]View, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("list quotations degraded to empty", slog.Any("error", err))
		return []View{}, nil
	}
	return s.views(rows), nil
}

func (s *Service) ListByClient(ctx context.Context, client string) ([]View, error) {
	rows, err := s.repo.ListByClient(ctx, client)
	if err != nil {
		return nil, err
	}
	return s.views(rows), nil
}

func (s *Service) views(rows []Quotation) []View {
	now := s.now()
	views := make([]View, 0, len(rows))
	for _, q := range rows {
		views = append(views, newView(q, now))
	}
	return views
}

func (s *Service) Update(ctx context.Context, code string, req UpdateQuotationRequest) (*View, error) {
	updates := make(map[string]any)
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setInt := func(col string, v *int) {
		if v != nil {
			updates[col] = *v
		}
	}
	setFloat := func(col string, v *float64) {
		if v != nil {
			updates[col] = *v
		}
	}
	setBool := func(col string, v *bool) {
		if v != nil {
			updates[col] = *v
		}
	}

	setStr("client_name", req.Client)
	setStr("op_type", req.OpType)
	setStr("transport_mode", req.TransportMode)
	setStr("incoterm_origin", req.IncotermOrigin)
	setStr("incoterm_destination", req.IncotermDestination)
	setStr("origin", req.Origin)
	setStr("destination", req.Destination)
	setStr("reference", req.Reference)
	setInt("validity_days", req.ValidityDays)
	setStr("client_email", req.ClientEmail)
	setStr("carrier", req.Carrier)
	setStr("airline", req.Airline)
	setStr("equipment", req.Equipment)
	setInt("container_count", req.ContainerCount)
	setStr("container_type", req.ContainerType)
	setInt("bl_count", req.BLCount)
	setFloat("commercial_value", req.CommercialValue)
	setFloat("total_weight_kg", req.TotalWeightKg)
	setFloat("chargeable_weight_kg", req.ChargeableWeightKg)
	setFloat("volume_m3", req.VolumeM3)
	setStr("packaging_type", req.PackagingType)
	setInt("pallet_count", req.PalletCount)
	setInt("transit_days", req.TransitDays)
	setBool("transshipment", req.Transshipment)
	setInt("free_storage_days", req.FreeStorageDays)
	setStr("pickup_address", req.PickupAddress)
	setStr("delivery_address", req.DeliveryAddress)
	setStr("pre_carrier", req.PreCarrier)
	setStr("consolidation", req.Consolidation)
	setBool("food_cargo", req.FoodCargo)
	setBool("dry_ice", req.DryIce)
	setFloat("local_charges", req.LocalCharges)

	if req.Status != nil {
		status := Status(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *req.Status)
		}
		updates["status"] = status
	}
	if req.ValidUntil != nil {
		t, err := parseDate(*req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_until: %v", httpx.ErrValidation, err)
		}
		updates["valid_until"] = t
	}

	if err := s.repo.Update(ctx, code, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, code)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, code)
}

// StateChange reports the outcome of a state transition.
type StateChange struct {
	Code   string `json:"code"`
	Status Status `json:"status"`
	Color  string `json:"color"`
}

// ChangeState moves a quotation to a new lifecycle state. Accepting a
// quotation is the single trigger that promotes it to an operation.
func (s *Service) ChangeState(ctx context.Context, code string, newState Status) (*StateChange, error) {
	if !newState.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, newState)
	}

	if err := s.repo.UpdateStatus(ctx, code, newState, s.now()); err != nil {
		return nil, err
	}

	if newState == StatusAccepted {
		if err := s.tasks.EnqueuePromotion(ctx, code); err != nil {
			s.logger.Error("enqueue promotion", slog.String("code", code), slog.Any("error", err))
		}
	}
	s.notify(ctx, code, "state_changed_"+string(newState), fmt.Sprintf("State changed to %s", newState))

	return &StateChange{Code: code, Status: newState, Color: newState.Color()}, nil
}

// DuplicateResult reports the outcome of duplicating a quotation.
type DuplicateResult struct {
	Code        string `json:"code"`
	CostsCopied int    `json:"costs_copied"`
}

// Duplicate creates a fresh quotation out of whatever the caller sends
// back for an existing one. The payload is treated as untrusted form
// state: numbers are coerced, an invalid transport mode falls back to
// Aerea and the validity restarts at 30 days.
func (s *Service) Duplicate(ctx context.Context, req DuplicateQuotationRequest) (*DuplicateResult, error) {
	mode, ok := CanonicalTransportMode(req.TransportMode)
	if !ok {
		s.logger.Warn("duplicate with invalid transport mode, defaulting",
			slog.String("mode", req.TransportMode))
		mode = "Aerea"
	}

	now := s.now()
	validUntil := now.AddDate(0, 0, defaultValidityDays)

	q := Quotation{
		ID:                  uuid.NewString(),
		Code:                s.codes.Next(ctx, sequence.PrefixFor(req.OpType)),
		Client:              req.Client,
		ClientEmail:         req.ClientEmail,
		OpType:              req.OpType,
		TransportMode:       mode,
		IncotermOrigin:      req.IncotermOrigin,
		IncotermDestination: req.IncotermDestination,
		Origin:              req.Origin,
		Destination:         req.Destination,
		Reference:           req.Reference,
		ValidityDays:        defaultValidityDays,
		ValidUntil:          &validUntil,
		Status:              StatusCreated,
		Carrier:             req.Carrier,
		Airline:             req.Airline,
		Equipment:           req.Equipment,
		ContainerCount:      req.ContainerCount.Or(1),
		ContainerType:       req.ContainerType,
		BLCount:             req.BLCount.Or(1),
		CommercialValue:     req.CommercialValue.Or(0),
		TotalWeightKg:       req.TotalWeightKg.Or(0),
		ChargeableWeightKg:  req.ChargeableWeightKg.Or(0),
		VolumeM3:            req.VolumeM3.Or(0),
		PackagingType:       req.PackagingType,
		PalletCount:         req.PalletCount.Or(0),
		TransitDays:         req.TransitDays.Or(0),
		Transshipment:       bool(req.Transshipment),
		FreeStorageDays:     req.FreeStorageDays.Or(0),
		PickupAddress:       req.PickupAddress,
		DeliveryAddress:     req.DeliveryAddress,
		PreCarrier:          req.PreCarrier,
		Consolidation:       req.Consolidation,
		FoodCargo:           bool(req.FoodCargo),
		DryIce:              bool(req.DryIce),
		LocalCharges:        req.LocalCharges.Or(0),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, q); err != nil {
		return nil, err
	}

	// Copy the cost sheet, keeping the first line per concept.
	seen := make(map[string]bool)
	var lines []CostLine
	for _, c := range req.Costs {
		concept := strings.TrimSpace(c.Concept)
		if concept == "" || seen[concept] {
			continue
		}
		seen[concept] = true
		lines = append(lines, costLineFromInput(c, q.Code, concept, now))
	}
	if len(lines) > 0 {
		if err := s.repo.InsertCostLines(ctx, lines); err != nil {
			return nil, err
		}
	}

	if err := s.folders.Provision(q.Code); err != nil {
		s.logger.Warn("provision folder", slog.String("code", q.Code), slog.Any("error", err))
	}

	return &DuplicateResult{Code: q.Code, CostsCopied: len(lines)}, nil
}

// SaveCostLines replaces the full cost sheet of a quotation.
func (s *Service) SaveCostLines(ctx context.Context, req SaveCostsRequest) (int, error) {
	if len(req.Costs) == 0 {
		return 0, fmt.Errorf("%w: empty cost list", httpx.ErrValidation)
	}

	now := s.now()
	lines := make([]CostLine, 0, len(req.Costs))
	for i, c := range req.Costs {
		concept := strings.TrimSpace(c.Concept)
		if concept == "" {
			concept = fmt.Sprintf("Concept %d", i+1)
		}
		lines = append(lines, costLineFromInput(c, req.Code, concept, now))
	}

	if err := s.repo.ReplaceCostLines(ctx, req.Code, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

// CostLines returns the saved cost sheet, oldest first. Lookup problems
// degrade to an empty sheet.
func (s *Service) CostLines(ctx context.Context, code string) ([]CostLine, error) {
	lines, err := s.repo.CostLines(ctx, code)
	if err != nil {
		s.logger.Warn("cost sheet lookup degraded to empty",
			slog.String("code", code), slog.Any("error", err))
		return []CostLine{}, nil
	}
	if lines == nil {
		lines = []CostLine{}
	}
	return lines, nil
}

func costLineFromInput(c CostLineInput, code, concept string, now time.Time) CostLine {
	lineType := c.Type
	if lineType == "" {
		lineType = "Otro"
	}
	currency := c.Currency
	if currency == "" {
		currency = "USD"
	}
	details := c.Details
	if details == nil {
		details = map[string]any{}
	}
	return CostLine{
		ID:            uuid.NewString(),
		QuotationCode: code,
		Concept:       concept,
		Cost:          c.Cost.Or(0),
		Sale:          c.Sale.Or(0),
		Predefined:    c.Predefined,
		Type:          lineType,
		Details:       details,
		Currency:      currency,
		CreatedAt:     now,
	}
}

func (s *Service) notify(ctx context.Context, code, alertType, message string) {
	if err := s.tasks.EnqueueNotification(ctx, code, alertType, message); err != nil {
		s.logger.Error("enqueue notification",
			slog.String("code", code), slog.String("type", alertType), slog.Any("error", err))
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func floatOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func boolOr(v *bool) bool {
	return v != nil && *v
}
