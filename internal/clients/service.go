package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
	"github.com/ganbatte/backoffice/internal/quotations"
)

// QuotationLister fetches a client's quotations with derived state.
// quotations.Service satisfies it.
type QuotationLister interface {
	ListByClient(ctx context.Context, client string) ([]quotations.View, error)
}

type Service struct {
	repo   Repository
	quotes QuotationLister
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, quotes QuotationLister, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		quotes: quotes,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ActiveExists reports whether an active client with that exact name is
// on file. The quotation flow uses it as its client directory.
func (s *Service) ActiveExists(ctx context.Context, name string) (bool, error) {
	return s.repo.ActiveExists(ctx, name)
}

// Create registers a client, rejecting tax ids and emails already held
// by an active client.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if req.TaxID != nil && *req.TaxID != "" {
		taken, err := s.repo.ActiveTaxIDExists(ctx, *req.TaxID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("tax id %s already registered: %w", *req.TaxID, httpx.ErrDuplicate)
		}
	}
	if req.Email != nil && *req.Email != "" {
		taken, err := s.repo.ActiveEmailExists(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email %s already registered: %w", *req.Email, httpx.ErrDuplicate)
		}
	}

	country := DefaultCountry
	if req.Country != nil && *req.Country != "" {
		country = *req.Country
	}

	now := s.now()
	c := Client{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Country:        country,
		TaxID:          req.TaxID,
		Industry:       req.Industry,
		PrimaryContact: req.PrimaryContact,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("client created", slog.String("name", c.Name))
	return &c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Client{}
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateClientRequest) (*Client, error) {
	updates := make(map[string]any)
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setStr("name", req.Name)
	setStr("email", req.Email)
	setStr("phone", req.Phone)
	setStr("address", req.Address)
	setStr("city", req.City)
	setStr("country", req.Country)
	setStr("tax_id", req.TaxID)
	setStr("industry", req.Industry)
	setStr("primary_contact", req.PrimaryContact)
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Deactivate is the logical delete. The row stays for history.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deactivated", slog.String("id", id))
	return nil
}

// Quotations lists a client's quotations with their derived state.
func (s *Service) Quotations(ctx context.Context, id string) ([]quotations.View, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.quotes.ListByClient(ctx, c.Name)
}
