package notifications

import "time"

// Notification is an in-app alert tied to a quotation code.
type Notification struct {
	ID            string    `json:"id"`
	QuotationCode string    `json:"quotation_code"`
	AlertType     string    `json:"alert_type"`
	Message       string    `json:"message"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
