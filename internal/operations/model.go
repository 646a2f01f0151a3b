package operations

import "time"

// StatusInProgress is the state a freshly promoted operation starts in.
const StatusInProgress = "in_progress"

// Operation is the executable counterpart of an accepted quotation.
// Snapshot carries the quotation details the operation was opened with,
// as a free-form bag; tracking updates merge into it over time. The bag
// keys are a data contract with the SPA and with rows promoted by the
// previous system, so they keep their original names.
type Operation struct {
	ID              string         `json:"id"`
	Code            string         `json:"code"`
	OriginQuotation string         `json:"origin_quotation"`
	Client          string         `json:"client"`
	OpType          string         `json:"op_type"`
	Status          string         `json:"status"`
	Snapshot        map[string]any `json:"snapshot"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ChecklistItem is one task on an operation's checklist.
type ChecklistItem struct {
	ID            string    `json:"id"`
	OperationCode string    `json:"operation_code"`
	Task          string    `json:"task"`
	Completed     bool      `json:"completed"`
	CreatedBy     *string   `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Stats summarizes checklist progress for an operation.
type Stats struct {
	Progress     int `json:"progress"`
	PendingTasks int `json:"pending_tasks"`
	TotalTasks   int `json:"total_tasks"`
}
