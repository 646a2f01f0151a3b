package quotations

import (
	"bytes"
	"strconv"
	"strings"
)

// CreateQuotationRequest is the typed create payload. Optional numeric
// fields default server-side.
type CreateQuotationRequest struct {
	Client              string   `json:"client" validate:"required"`
	OpType              string   `json:"op_type" validate:"required"`
	TransportMode       string   `json:"transport_mode" validate:"required"`
	IncotermOrigin      *string  `json:"incoterm_origin"`
	IncotermDestination *string  `json:"incoterm_destination"`
	Origin              string   `json:"origin" validate:"required"`
	Destination         string   `json:"destination" validate:"required"`
	Reference           *string  `json:"reference"`
	ValidityDays        *int     `json:"validity_days"`
	ClientEmail         *string  `json:"client_email" validate:"omitempty,email"`
	Carrier             *string  `json:"carrier"`
	Airline             *string  `json:"airline"`
	Equipment           *string  `json:"equipment"`
	ContainerCount      *int     `json:"container_count"`
	ContainerType       *string  `json:"container_type"`
	BLCount             *int     `json:"bl_count"`
	CommercialValue     *float64 `json:"commercial_value"`
	TotalWeightKg       *float64 `json:"total_weight_kg"`
	ChargeableWeightKg  *float64 `json:"chargeable_weight_kg"`
	VolumeM3            *float64 `json:"volume_m3"`
	PackagingType       *string  `json:"packaging_type"`
	PalletCount         *int     `json:"pallet_count"`
	TransitDays         *int     `json:"transit_days"`
	Transshipment       *bool    `json:"transshipment"`
	FreeStorageDays     *int     `json:"free_storage_days"`
	PickupAddress       *string  `json:"pickup_address"`
	DeliveryAddress     *string  `json:"delivery_address"`
	PreCarrier          *string  `json:"pre_carrier"`
	Consolidation       *string  `json:"consolidation"`
	FoodCargo           *bool    `json:"food_cargo"`
	DryIce              *bool    `json:"dry_ice"`
	LocalCharges        *float64 `json:"local_charges"`
}

// UpdateQuotationRequest carries a partial update. Nil fields are left
// untouched; id, code and creation date are not updatable at all.
type UpdateQuotationRequest struct {
	Client              *string  `json:"client"`
	OpType              *string  `json:"op_type"`
	TransportMode       *string  `json:"transport_mode"`
	IncotermOrigin      *string  `json:"incoterm_origin"`
	IncotermDestination *string  `json:"incoterm_destination"`
	Origin              *string  `json:"origin"`
	Destination         *string  `json:"destination"`
	Reference           *string  `json:"reference"`
	ValidityDays        *int     `json:"validity_days"`
	ValidUntil          *string  `json:"valid_until"`
	Status              *string  `json:"status"`
	ClientEmail         *string  `json:"client_email"`
	Carrier             *string  `json:"carrier"`
	Airline             *string  `json:"airline"`
	Equipment           *string  `json:"equipment"`
	ContainerCount      *int     `json:"container_count"`
	ContainerType       *string  `json:"container_type"`
	BLCount             *int     `json:"bl_count"`
	CommercialValue     *float64 `json:"commercial_value"`
	TotalWeightKg       *float64 `json:"total_weight_kg"`
	ChargeableWeightKg  *float64 `json:"chargeable_weight_kg"`
	VolumeM3            *float64 `json:"volume_m3"`
	PackagingType       *string  `json:"packaging_type"`
	PalletCount         *int     `json:"pallet_count"`
	TransitDays         *int     `json:"transit_days"`
	Transshipment       *bool    `json:"transshipment"`
	FreeStorageDays     *int     `json:"free_storage_days"`
	PickupAddress       *string  `json:"pickup_address"`
	DeliveryAddress     *string  `json:"delivery_address"`
	PreCarrier          *string  `json:"pre_carrier"`
	Consolidation       *string  `json:"consolidation"`
	FoodCargo           *bool    `json:"food_cargo"`
	DryIce              *bool    `json:"dry_ice"`
	LocalCharges        *float64 `json:"local_charges"`
}

// ChangeStateRequest moves a quotation to a new lifecycle state.
type ChangeStateRequest struct {
	Code     string `json:"code" validate:"required"`
	NewState string `json:"new_state" validate:"required"`
}

// CostLineInput is one cost concept as submitted by the cost sheet.
type CostLineInput struct {
	Concept    string         `json:"concept"`
	Cost       FlexFloat      `json:"cost"`
	Sale       FlexFloat      `json:"sale"`
	Predefined bool           `json:"predefined"`
	Type       string         `json:"type"`
	Details    map[string]any `json:"details"`
	Currency   string         `json:"currency"`
}

// SaveCostsRequest replaces the full cost sheet of a quotation.
type SaveCostsRequest struct {
	Code  string          `json:"code" validate:"required"`
	Costs []CostLineInput `json:"costs"`
}

// DuplicateQuotationRequest is the loose payload the duplicate flow
// accepts. The SPA sends back whatever it holds for the source quotation,
// so numeric fields tolerate strings and empty values instead of failing
// the whole request.
type DuplicateQuotationRequest struct {
	Client              string          `json:"client"`
	OpType              string          `json:"op_type"`
	TransportMode       string          `json:"transport_mode"`
	IncotermOrigin      *string         `json:"incoterm_origin"`
	IncotermDestination *string         `json:"incoterm_destination"`
	Origin              string          `json:"origin"`
	Destination         string          `json:"destination"`
	Reference           *string         `json:"reference"`
	ClientEmail         *string         `json:"client_email"`
	Carrier             *string         `json:"carrier"`
	Airline             *string         `json:"airline"`
	Equipment           *string         `json:"equipment"`
	ContainerCount      FlexInt         `json:"container_count"`
	ContainerType       *string         `json:"container_type"`
	BLCount             FlexInt         `json:"bl_count"`
	CommercialValue     FlexFloat       `json:"commercial_value"`
	TotalWeightKg       FlexFloat       `json:"total_weight_kg"`
	ChargeableWeightKg  FlexFloat       `json:"chargeable_weight_kg"`
	VolumeM3            FlexFloat       `json:"volume_m3"`
	PackagingType       *string         `json:"packaging_type"`
	PalletCount         FlexInt         `json:"pallet_count"`
	TransitDays         FlexInt         `json:"transit_days"`
	Transshipment       FlexBool        `json:"transshipment"`
	FreeStorageDays     FlexInt         `json:"free_storage_days"`
	PickupAddress       *string         `json:"pickup_address"`
	DeliveryAddress     *string         `json:"delivery_address"`
	PreCarrier          *string         `json:"pre_carrier"`
	Consolidation       *string         `json:"consolidation"`
	FoodCargo           FlexBool        `json:"food_cargo"`
	DryIce              FlexBool        `json:"dry_ice"`
	LocalCharges        FlexFloat       `json:"local_charges"`
	Costs               []CostLineInput `json:"costs"`
}

// FlexFloat is a float64 that tolerates JSON strings, empty strings and
// null. Unparsable input is recorded as unset, never as an error.
type FlexFloat struct {
	value float64
	set   bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		*f = FlexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{value: v, set: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(f.value, 'f', -1, 64)), nil
}

// Or returns the parsed value, or def when the field was absent or
// unparsable.
func (f FlexFloat) Or(def float64) float64 {
	if f.set {
		return f.value
	}
	return def
}

// FlexInt is the integer counterpart of FlexFloat.
type FlexInt struct {
	value int
	set   bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		*f = FlexInt{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = FlexInt{}
		return nil
	}
	*f = FlexInt{value: int(v), set: true}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(f.value)), nil
}

func (f FlexInt) Or(def int) int {
	if f.set {
		return f.value
	}
	return def
}

// FlexBool reads JSON booleans plus the usual string and numeric
// stand-ins; anything else means false.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	switch {
	case s == "" || s == "null":
		*f = false
	default:
		if v, err := strconv.ParseBool(s); err == nil {
			*f = FlexBool(v)
		} else if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexBool(n != 0)
		} else {
			*f = false
		}
	}
	return nil
}

func (f FlexBool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(f))), nil
}
