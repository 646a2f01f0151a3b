package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
	"github.com/ganbatte/backoffice/internal/quotations"
)

type memRepo struct {
	byID map[string]Client
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]Client)}
}

func (m *memRepo) Insert(_ context.Context, c Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Client, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	return &c, nil
}

func (m *memRepo) List(_ context.Context, filter ListFilter) ([]Client, error) {
	contains := func(v *string) bool {
		return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(filter.Search))
	}
	var out []Client
	for _, c := range m.byID {
		if filter.Active != nil && c.Active != *filter.Active {
			continue
		}
		if filter.Search != "" {
			name := c.Name
			if !contains(&name) && !contains(c.Email) && !contains(c.TaxID) {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, id string, updates map[string]any) error {
	c, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	for col, v := range updates {
		switch col {
		case "name":
			c.Name = v.(string)
		case "email":
			s := v.(string)
			c.Email = &s
		case "phone":
			s := v.(string)
			c.Phone = &s
		case "city":
			s := v.(string)
			c.City = &s
		case "country":
			c.Country = v.(string)
		case "tax_id":
			s := v.(string)
			c.TaxID = &s
		case "active":
			c.Active = v.(bool)
		}
	}
	m.byID[id] = c
	return nil
}

func (m *memRepo) Deactivate(_ context.Context, id string) error {
	c, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("client %s: %w", id, httpx.ErrNotFound)
	}
	c.Active = false
	m.byID[id] = c
	return nil
}

func (m *memRepo) ActiveExists(_ context.Context, name string) (bool, error) {
	for _, c := range m.byID {
		if c.Active && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ActiveTaxIDExists(_ context.Context, taxID string) (bool, error) {
	for _, c := range m.byID {
		if c.Active && c.TaxID != nil && *c.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ActiveEmailExists(_ context.Context, email string) (bool, error) {
	for _, c := range m.byID {
		if c.Active && c.Email != nil && *c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type stubLister struct {
	byClient map[string][]quotations.View
}

func (s *stubLister) ListByClient(_ context.Context, client string) ([]quotations.View, error) {
	return s.byClient[client], nil
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) (*Service, *memRepo, *stubLister) {
	t.Helper()
	repo := newMemRepo()
	lister := &stubLister{byClient: make(map[string][]quotations.View)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, lister, logger).WithClock(func() time.Time {
		return time.Date(2025, time.November, 14, 10, 0, 0, 0, time.UTC)
	})
	return svc, repo, lister
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, _ := newFixture(t)

	c, err := svc.Create(context.Background(), CreateClientRequest{Name: "ACME SA"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "Argentina", c.Country)
	require.True(t, c.Active)
}

func TestCreateRejectsDuplicateTaxID(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientRequest{Name: "ACME SA", TaxID: strPtr("30-11111111-9")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClientRequest{Name: "ACME Dos", TaxID: strPtr("30-11111111-9")})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientRequest{Name: "ACME SA", Email: strPtr("ops@acme.com")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClientRequest{Name: "ACME Dos", Email: strPtr("ops@acme.com")})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestDeactivatedClientFreesIdentifiers(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateClientRequest{Name: "ACME SA", TaxID: strPtr("30-11111111-9")})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, first.ID))

	_, err = svc.Create(ctx, CreateClientRequest{Name: "ACME Reborn", TaxID: strPtr("30-11111111-9")})
	require.NoError(t, err)
}

func TestListFiltersAndSorts(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientRequest{Name: "Zeta Logistics"})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, CreateClientRequest{Name: "Alfa Cargo"})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, inactive.ID))

	active := true
	list, err := svc.List(ctx, ListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Zeta Logistics", list[0].Name)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Alfa Cargo", all[0].Name)

	found, err := svc.List(ctx, ListFilter{Search: "zeta"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestUpdatePartial(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateClientRequest{Name: "ACME SA", Email: strPtr("ops@acme.com")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, UpdateClientRequest{City: strPtr("Rosario")})
	require.NoError(t, err)
	require.Equal(t, "Rosario", *updated.City)
	require.Equal(t, "ops@acme.com", *updated.Email)
	require.Equal(t, "ACME SA", updated.Name)
}

func TestUpdateUnknownClient(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.Update(context.Background(), "missing", UpdateClientRequest{Name: strPtr("X")})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestQuotationsByClient(t *testing.T) {
	svc, _, lister := newFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateClientRequest{Name: "ACME SA"})
	require.NoError(t, err)
	lister.byClient["ACME SA"] = []quotations.View{
		{Quotation: quotations.Quotation{Code: "GAN-IM-25/11/001", Client: "ACME SA"}},
	}

	views, err := svc.Quotations(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "GAN-IM-25/11/001", views[0].Code)

	_, err = svc.Quotations(ctx, "missing")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
