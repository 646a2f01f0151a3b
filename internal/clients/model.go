package clients

import "time"

// Client is a customer record. Deletion is logical: Active flips to
// false and the row stays for history.
type Client struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
	City           *string   `json:"city"`
	Country        string    `json:"country"`
	TaxID          *string   `json:"tax_id"`
	Industry       *string   `json:"industry"`
	PrimaryContact *string   `json:"primary_contact"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultCountry is applied when a client is created without one.
const DefaultCountry = "Argentina"
