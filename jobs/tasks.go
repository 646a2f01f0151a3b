package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskNotifyDispatch records an in-app notification.
	TaskNotifyDispatch = "notify:dispatch"
	// TaskOperationPromote opens an operation from an accepted quotation.
	TaskOperationPromote = "operation:promote"
	// TaskQuotationExpirySweep re-derives quotation states near expiry.
	TaskQuotationExpirySweep = "quotation:expiry-sweep"
)

// NotifyDispatchPayload carries one notification to record.
type NotifyDispatchPayload struct {
	QuotationCode string `json:"quotation_code"`
	AlertType     string `json:"alert_type"`
	Message       string `json:"message"`
}

// NewNotifyDispatchTask constructs a notification task.
func NewNotifyDispatchTask(payload NotifyDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyDispatch, data), nil
}

// OperationPromotePayload names the quotation to promote.
type OperationPromotePayload struct {
	QuotationCode string `json:"quotation_code"`
}

// NewOperationPromoteTask constructs a promotion task.
func NewOperationPromoteTask(payload OperationPromotePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOperationPromote, data), nil
}

// NewExpirySweepTask constructs the scheduled sweep task. It carries no
// payload.
func NewExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TaskQuotationExpirySweep, nil)
}
