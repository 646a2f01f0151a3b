package quotations

import (
	"strings"
	"time"
)

// Transport modes accepted on quotations, stored unaccented.
var TransportModes = []string{"Aerea", "Maritima FCL", "Maritima LCL", "Terrestre", "Courier"}

// Incoterms accepted on quotations.
var Incoterms = []string{"EXW", "FCA", "CPT", "CIP", "DAP", "DPU", "DDP", "FAS", "FOB", "CFR", "CIF"}

// CanonicalTransportMode matches mode against the accepted set ignoring
// accents and case, and returns the canonical spelling.
func CanonicalTransportMode(mode string) (string, bool) {
	folded := foldAccents(strings.TrimSpace(mode))
	for _, m := range TransportModes {
		if strings.EqualFold(folded, m) {
			return m, true
		}
	}
	return "", false
}

func ValidTransportMode(mode string) bool {
	_, ok := CanonicalTransportMode(mode)
	return ok
}

func ValidIncoterm(term string) bool {
	for _, t := range Incoterms {
		if t == term {
			return true
		}
	}
	return false
}

// Quotation is a freight quotation. Code is the human-readable correlative
// (e.g. GAN-IM-25/11/004) and is the key everything else refers to; ID is
// an internal surrogate.
type Quotation struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	Client              string     `json:"client"`
	ClientEmail         *string    `json:"client_email,omitempty"`
	OpType              string     `json:"op_type"`
	TransportMode       string     `json:"transport_mode"`
	IncotermOrigin      *string    `json:"incoterm_origin,omitempty"`
	IncotermDestination *string    `json:"incoterm_destination,omitempty"`
	Origin              string     `json:"origin"`
	Destination         string     `json:"destination"`
	Reference           *string    `json:"reference,omitempty"`
	ValidityDays        int        `json:"validity_days"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	Status              Status     `json:"status"`
	StatusChangedAt     *time.Time `json:"status_changed_at,omitempty"`
	Carrier             *string    `json:"carrier,omitempty"`
	Airline             *string    `json:"airline,omitempty"`
	Equipment           *string    `json:"equipment,omitempty"`
	ContainerCount      int        `json:"container_count"`
	ContainerType       *string    `json:"container_type,omitempty"`
	BLCount             int        `json:"bl_count"`
	CommercialValue     float64    `json:"commercial_value"`
	TotalWeightKg       float64    `json:"total_weight_kg"`
	ChargeableWeightKg  float64    `json:"chargeable_weight_kg"`
	VolumeM3            float64    `json:"volume_m3"`
	PackagingType       *string    `json:"packaging_type,omitempty"`
	PalletCount         int        `json:"pallet_count"`
	TransitDays         int        `json:"transit_days"`
	Transshipment       bool       `json:"transshipment"`
	FreeStorageDays     int        `json:"free_storage_days"`
	PickupAddress       *string    `json:"pickup_address,omitempty"`
	DeliveryAddress     *string    `json:"delivery_address,omitempty"`
	PreCarrier          *string    `json:"pre_carrier,omitempty"`
	Consolidation       *string    `json:"consolidation,omitempty"`
	FoodCargo           bool       `json:"food_cargo"`
	DryIce              bool       `json:"dry_ice"`
	LocalCharges        float64    `json:"local_charges"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CostLine is one concept on a quotation's cost sheet.
type CostLine struct {
	ID            string         `json:"id"`
	QuotationCode string         `json:"quotation_code"`
	Concept       string         `json:"concept"`
	Cost          float64        `json:"cost"`
	Sale          float64        `json:"sale"`
	Predefined    bool           `json:"predefined"`
	Type          string         `json:"type"`
	Details       map[string]any `json:"details,omitempty"`
	Currency      string         `json:"currency"`
	CreatedAt     time.Time      `json:"created_at"`
}

// View is a quotation with its derived lifecycle fields attached.
type View struct {
	Quotation
	EffectiveStatus Status     `json:"effective_status"`
	DaysRemaining   int        `json:"days_remaining"`
	Color           string     `json:"color"`
	StatusLabel     string     `json:"status_label"`
	Costs           []CostLine `json:"costs,omitempty"`
}

func newView(q Quotation, today time.Time) View {
	v := DeriveValidity(q.ValidUntil, q.ValidityDays, q.Status, today)
	return View{
		Quotation:       q,
		EffectiveStatus: v.Status,
		DaysRemaining:   v.DaysRemaining,
		Color:           v.Color,
		StatusLabel:     v.Status.Label(),
	}
}
