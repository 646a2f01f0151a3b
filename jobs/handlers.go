package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ganbatte/backoffice/internal/notifications"
	"github.com/ganbatte/backoffice/internal/operations"
	"github.com/ganbatte/backoffice/internal/quotations"
)

// NewNotifyDispatchHandler records notifications. The recording service
// already swallows store failures, so the task never retries.
func NewNotifyDispatchHandler(svc *notifications.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotifyDispatchPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		svc.Record(ctx, payload.QuotationCode, payload.AlertType, payload.Message)
		return nil
	}
}

// NewOperationPromoteHandler opens operations from accepted quotations.
// Promotion is idempotent, so a redelivered task is harmless; store
// errors surface so asynq retries them.
func NewOperationPromoteHandler(svc *operations.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OperationPromotePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return svc.Promote(ctx, payload.QuotationCode)
	}
}

// NewExpirySweepHandler runs the scheduled validity sweep. A failed
// cycle is logged and dropped; the next tick picks the rows up again.
func NewExpirySweepHandler(svc *quotations.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		changed, err := svc.SweepExpiring(ctx)
		if err != nil {
			logger.Error("expiry sweep skipped", slog.Any("error", err))
			return nil
		}
		if changed > 0 {
			logger.Info("expiry sweep finished", slog.Int("changed", changed))
		}
		return nil
	}
}
