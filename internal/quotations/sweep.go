package quotations

import (
	"context"
	"fmt"
	"log/slog"
)

// SweepExpiring re-derives the state of quotations whose validity date
// is within the alert window and persists the transitions, raising one
// notification per change. A row that fails to persist is logged and
// skipped; the sweep itself only fails when the listing does.
func (s *Service) SweepExpiring(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, aboutToExpireWindow)

	rows, err := s.repo.ListExpiring(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, q := range rows {
		derived := DeriveValidity(q.ValidUntil, q.ValidityDays, "", now)
		if derived.Status == q.Status {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, q.Code, derived.Status, now); err != nil {
			s.logger.Error("sweep could not persist state",
				slog.String("code", q.Code), slog.Any("error", err))
			continue
		}
		s.notify(ctx, q.Code, "state_"+string(derived.Status),
			fmt.Sprintf("Quotation %s moved to %s", q.Code, derived.Status))
		s.logger.Info("quotation state swept",
			slog.String("code", q.Code), slog.String("state", string(derived.Status)))
		changed++
	}
	return changed, nil
}
