package quotations

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
	"github.com/ganbatte/backoffice/internal/sequence"
)

type memRepo struct {
	quotations map[string]Quotation
	costs      map[string][]CostLine
	order      []string

	insertErr error
	listErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{
		quotations: make(map[string]Quotation),
		costs:      make(map[string][]CostLine),
	}
}

func (m *memRepo) Insert(_ context.Context, q Quotation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.quotations[q.Code] = q
	m.order = append(m.order, q.Code)
	return nil
}

func (m *memRepo) GetByCode(_ context.Context, code string) (*Quotation, error) {
	q, ok := m.quotations[code]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &q, nil
}

func (m *memRepo) List(_ context.Context) ([]Quotation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Quotation, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.quotations[m.order[i]])
	}
	return out, nil
}

func (m *memRepo) ListByClient(_ context.Context, client string) ([]Quotation, error) {
	var out []Quotation
	for _, code := range m.order {
		if q := m.quotations[code]; q.Client == client {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memRepo) ListExpiring(_ context.Context, cutoff time.Time) ([]Quotation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Quotation
	for _, q := range m.quotations {
		if q.ValidUntil == nil || q.ValidUntil.After(cutoff) {
			continue
		}
		switch q.Status {
		case StatusExpired, StatusAccepted, StatusRejected:
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, code string, updates map[string]any) error {
	q, ok := m.quotations[code]
	if !ok {
		return httpx.ErrNotFound
	}
	if v, ok := updates["client_name"]; ok {
		q.Client = v.(string)
	}
	if v, ok := updates["origin"]; ok {
		q.Origin = v.(string)
	}
	if v, ok := updates["status"]; ok {
		q.Status = v.(Status)
	}
	if v, ok := updates["total_weight_kg"]; ok {
		q.TotalWeightKg = v.(float64)
	}
	q.UpdatedAt = time.Now()
	m.quotations[code] = q
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, code string, status Status, at time.Time) error {
	q, ok := m.quotations[code]
	if !ok {
		return httpx.ErrNotFound
	}
	q.Status = status
	q.StatusChangedAt = &at
	m.quotations[code] = q
	return nil
}

func (m *memRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.quotations[code]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.costs, code)
	delete(m.quotations, code)
	return nil
}

func (m *memRepo) CostLines(_ context.Context, code string) ([]CostLine, error) {
	return m.costs[code], nil
}

func (m *memRepo) InsertCostLines(_ context.Context, lines []CostLine) error {
	for _, l := range lines {
		m.costs[l.QuotationCode] = append(m.costs[l.QuotationCode], l)
	}
	return nil
}

func (m *memRepo) ReplaceCostLines(_ context.Context, code string, lines []CostLine) error {
	m.costs[code] = append([]CostLine(nil), lines...)
	return nil
}

func (m *memRepo) CodesLike(_ context.Context, prefix string) ([]string, error) {
	var codes []string
	for code := range m.quotations {
		if strings.HasPrefix(code, prefix) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

type stubDirectory struct {
	active map[string]bool
	err    error
}

func (d stubDirectory) ActiveExists(_ context.Context, name string) (bool, error) {
	return d.active[name], d.err
}

type recordingEnqueuer struct {
	notifications []string
	promotions    []string
	err           error
}

func (e *recordingEnqueuer) EnqueueNotification(_ context.Context, code, alertType, _ string) error {
	e.notifications = append(e.notifications, code+":"+alertType)
	return e.err
}

func (e *recordingEnqueuer) EnqueuePromotion(_ context.Context, code string) error {
	e.promotions = append(e.promotions, code)
	return e.err
}

type recordingFolders struct {
	codes []string
	err   error
}

func (f *recordingFolders) Provision(code string) error {
	f.codes = append(f.codes, code)
	return f.err
}

type fixture struct {
	svc     *Service
	repo    *memRepo
	tasks   *recordingEnqueuer
	folders *recordingFolders
}

func testTime() time.Time {
	return time.Date(2025, time.November, 14, 10, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemRepo()
	tasks := &recordingEnqueuer{}
	folders := &recordingFolders{}
	logger := slog.Default()
	codes := sequence.NewGenerator(repo, logger).WithClock(testTime)
	dir := stubDirectory{active: map[string]bool{"ACME SA": true}}
	svc := NewService(repo, dir, codes, tasks, folders, logger).WithClock(testTime)
	return &fixture{svc: svc, repo: repo, tasks: tasks, folders: folders}
}

func validCreateRequest() CreateQuotationRequest {
	return CreateQuotationRequest{
		Client:        "ACME SA",
		OpType:        "IM",
		TransportMode: "Maritima FCL",
		Origin:        "Shanghai",
		Destination:   "Buenos Aires",
	}
}

func TestCreateAssignsCodeAndDefaults(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, "GAN-IM-25/11/001", view.Code)
	require.Equal(t, StatusCreated, view.Status)
	require.Equal(t, 30, view.ValidityDays)
	require.NotNil(t, view.ValidUntil)
	require.Equal(t, testTime().AddDate(0, 0, 30), *view.ValidUntil)
	require.Equal(t, 1, view.ContainerCount)
	require.Equal(t, 1, view.BLCount)
	require.Equal(t, []string{"GAN-IM-25/11/001:created"}, f.tasks.notifications)
}

func TestCreateIssuesCorrelativeCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, "GAN-IM-25/11/001", first.Code)
	require.Equal(t, "GAN-IM-25/11/002", second.Code)
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	req.Client = "Ghost Corp"

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, f.tasks.notifications)
}

func TestCreateRejectsInvalidTransportMode(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	req.TransportMode = "Ferrocarril"

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsInvalidIncoterm(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	term := "XYZ"
	req.IncotermOrigin = &term

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateNormalizesMaritimeContainer(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	label := "40' HIGH CUBE"
	req.ContainerType = &label

	view, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "40HC", *view.ContainerType)
	require.Equal(t, "40HC", *view.Equipment)
}

func TestCreateRejectsUnknownMaritimeContainer(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	label := "45' HIGH CUBE"
	req.ContainerType = &label

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateSurvivesEnqueueFailure(t *testing.T) {
	f := newFixture(t)
	f.tasks.err = errors.New("redis down")

	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.Contains(t, f.repo.quotations, view.Code)
}

func TestChangeStateAcceptedTriggersPromotion(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	change, err := f.svc.ChangeState(context.Background(), view.Code, StatusAccepted)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, change.Status)
	require.Equal(t, []string{view.Code}, f.tasks.promotions)

	stored := f.repo.quotations[view.Code]
	require.Equal(t, StatusAccepted, stored.Status)
	require.NotNil(t, stored.StatusChangedAt)
}

func TestChangeStateOtherStatesDoNotPromote(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	for _, status := range []Status{StatusSent, StatusRejected, StatusExpired} {
		_, err := f.svc.ChangeState(context.Background(), view.Code, status)
		require.NoError(t, err)
	}
	require.Empty(t, f.tasks.promotions)
}

func TestChangeStateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChangeState(context.Background(), "GAN-IM-25/11/001", Status("archived"))
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestChangeStateMissingQuotation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChangeState(context.Background(), "GAN-IM-25/11/404", StatusSent)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDuplicateCoercesAndDefaults(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Duplicate(context.Background(), DuplicateQuotationRequest{
		Client:        "ACME SA",
		OpType:        "IM",
		TransportMode: "camion con acoplado",
		Origin:        "Shanghai",
		Destination:   "Buenos Aires",
		Costs: []CostLineInput{
			{Concept: "THC", Cost: flexFloatVal(120), Sale: flexFloatVal(150)},
			{Concept: "THC", Cost: flexFloatVal(999)},
			{Concept: "  "},
			{Concept: "BL Fee", Sale: flexFloatVal(55)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "GAN-IM-25/11/001", result.Code)
	require.Equal(t, 2, result.CostsCopied)

	q := f.repo.quotations[result.Code]
	require.Equal(t, "Aerea", q.TransportMode, "invalid mode falls back to Aerea")
	require.Equal(t, StatusCreated, q.Status)
	require.Equal(t, 30, q.ValidityDays)
	require.Equal(t, 1, q.ContainerCount)
	require.Equal(t, 1, q.BLCount)
	require.Equal(t, 0, q.PalletCount)

	lines := f.repo.costs[result.Code]
	require.Len(t, lines, 2)
	require.Equal(t, "THC", lines[0].Concept)
	require.Equal(t, 120.0, lines[0].Cost, "first line per concept wins")
	require.Equal(t, "USD", lines[0].Currency)
	require.Equal(t, []string{result.Code}, f.folders.codes)
}

func TestDuplicateSurvivesFolderFailure(t *testing.T) {
	f := newFixture(t)
	f.folders.err = errors.New("disk full")

	result, err := f.svc.Duplicate(context.Background(), DuplicateQuotationRequest{
		Client: "ACME SA", OpType: "IM", TransportMode: "Aerea",
	})
	require.NoError(t, err)
	require.Contains(t, f.repo.quotations, result.Code)
}

func TestSaveCostLinesRejectsEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SaveCostLines(context.Background(), SaveCostsRequest{Code: "GAN-IM-25/11/001"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSaveCostLinesReplacesSheet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := "GAN-IM-25/11/001"
	f.repo.costs[code] = []CostLine{{ID: "old", QuotationCode: code, Concept: "Old"}}

	count, err := f.svc.SaveCostLines(ctx, SaveCostsRequest{
		Code: code,
		Costs: []CostLineInput{
			{Concept: "THC", Cost: flexFloatVal(100), Sale: flexFloatVal(130)},
			{Cost: flexFloatVal(10)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	lines := f.repo.costs[code]
	require.Len(t, lines, 2)
	require.Equal(t, "THC", lines[0].Concept)
	require.Equal(t, "Concept 2", lines[1].Concept)
	require.Equal(t, "Otro", lines[1].Type)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	origin := "Ningbo"
	weight := 1250.5
	updated, err := f.svc.Update(context.Background(), view.Code, UpdateQuotationRequest{
		Origin:        &origin,
		TotalWeightKg: &weight,
	})
	require.NoError(t, err)
	require.Equal(t, "Ningbo", updated.Origin)
	require.Equal(t, 1250.5, updated.TotalWeightKg)
	require.Equal(t, view.Client, updated.Client)
	require.Equal(t, view.Code, updated.Code, "code is immutable")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	bad := "archived"
	_, err := f.svc.Update(context.Background(), "GAN-IM-25/11/001", UpdateQuotationRequest{Status: &bad})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListDegradesToEmptyOnStoreOutage(t *testing.T) {
	f := newFixture(t)
	f.repo.listErr = errors.New("connection refused")

	views, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestGetAttachesCostsAndDerivedState(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	f.repo.costs[view.Code] = []CostLine{{ID: "c1", QuotationCode: view.Code, Concept: "THC"}}

	got, err := f.svc.Get(context.Background(), view.Code)
	require.NoError(t, err)
	require.Len(t, got.Costs, 1)
	require.Equal(t, StatusCreated, got.EffectiveStatus)
	require.Equal(t, 30, got.DaysRemaining)
	require.Equal(t, "#f97316", got.Color)
}

func flexFloatVal(v float64) FlexFloat {
	return FlexFloat{value: v, set: true}
}
