package tariffs

// HouseCarrier is the in-house carrier whose charge rows hold the sale
// side of every maritime local-charge lookup.
const HouseCarrier = "GANBATTE"

// ChargeRecord is one row of the maritime local-charge table, keyed by
// operation type, carrier and equipment. Some field names stay as the
// tariff sheets print them (ingreso_sim, cert_flete, cert_fob).
type ChargeRecord struct {
	OpType        string  `json:"op_type"`
	Carrier       string  `json:"carrier"`
	Equipment     string  `json:"equipment"`
	THC           float64 `json:"thc"`
	Toll          float64 `json:"toll"`
	Gate          float64 `json:"gate"`
	DeliveryOrder float64 `json:"delivery_order"`
	CCF           float64 `json:"ccf"`
	Handling      float64 `json:"handling"`
	LogisticFee   float64 `json:"logistic_fee"`
	BLFee         float64 `json:"bl_fee"`
	IngresoSIM    float64 `json:"ingreso_sim"`
	CertFlete     float64 `json:"cert_flete"`
	CertFOB       float64 `json:"cert_fob"`
	TotalLocales  float64 `json:"total_locales"`
}

// ChargeLookup pairs the carrier's cost row with the house sale row.
type ChargeLookup struct {
	Cost ChargeRecord `json:"cost"`
	Sale ChargeRecord `json:"sale"`
}

// Concept is a charge field rendered as a cost-sheet line.
type Concept struct {
	Concept    string         `json:"concept"`
	Cost       float64        `json:"cost"`
	Sale       float64        `json:"sale"`
	Predefined bool           `json:"predefined"`
	Type       string         `json:"type"`
	Details    map[string]any `json:"details"`
}

// Airline is a reference-list entry for air quotations.
type Airline struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IATACode string `json:"iata_code"`
	Country  string `json:"country"`
}

// Port is a port or airport reference-list entry.
type Port struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Country string `json:"country"`
	Code    string `json:"code"`
}

// CostConfig is the static cost-sheet configuration the SPA reads.
type CostConfig struct {
	BaseCurrency    string  `json:"base_currency"`
	DefaultMargin   float64 `json:"default_margin"`
	ConceptsEnabled bool    `json:"concepts_enabled"`
	UpdatedAt       string  `json:"updated_at"`
}
