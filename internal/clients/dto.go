package clients

// CreateClientRequest creates a client. Country defaults to Argentina.
type CreateClientRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Country        *string `json:"country"`
	TaxID          *string `json:"tax_id"`
	Industry       *string `json:"industry"`
	PrimaryContact *string `json:"primary_contact"`
}

// UpdateClientRequest edits a client. Nil fields are left untouched.
type UpdateClientRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Country        *string `json:"country"`
	TaxID          *string `json:"tax_id"`
	Industry       *string `json:"industry"`
	PrimaryContact *string `json:"primary_contact"`
	Active         *bool   `json:"active"`
}

// ListFilter narrows client listings.
type ListFilter struct {
	Active *bool
	Search string
}
