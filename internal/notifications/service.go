package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
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

// Record appends a notification. Alerts are best-effort: an insert
// failure is logged and swallowed so the flow that raised the alert
// never fails because of it.
func (s *Service) Record(ctx context.Context, quotationCode, alertType, message string) {
	n := Notification{
		ID:            uuid.NewString(),
		QuotationCode: quotationCode,
		AlertType:     alertType,
		Message:       message,
		Read:          false,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		s.logger.Warn("notification dropped",
			slog.String("code", quotationCode),
			slog.String("alert_type", alertType),
			slog.Any("error", err))
		return
	}
	s.logger.Info("notification recorded",
		slog.String("code", quotationCode), slog.String("alert_type", alertType))
}

func (s *Service) ListByCode(ctx context.Context, quotationCode string) ([]Notification, error) {
	list, err := s.repo.ListByCode(ctx, quotationCode)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Notification{}
	}
	return list, nil
}

func (s *Service) ListUnread(ctx context.Context) ([]Notification, error) {
	list, err := s.repo.ListUnread(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Notification{}
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}
