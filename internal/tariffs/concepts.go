package tariffs

// chargeFields lists the charge columns in cost-sheet order, with the
// labels the sheets use.
var chargeFields = []struct {
	key   string
	label string
	value func(ChargeRecord) float64
}{
	{"thc", "THC (Terminal Handling Charge)", func(r ChargeRecord) float64 { return r.THC }},
	{"toll", "Toll Fee", func(r ChargeRecord) float64 { return r.Toll }},
	{"gate", "Gate Fee", func(r ChargeRecord) float64 { return r.Gate }},
	{"delivery_order", "Delivery Order", func(r ChargeRecord) float64 { return r.DeliveryOrder }},
	{"ccf", "CCF (Container Cleaning Fee)", func(r ChargeRecord) float64 { return r.CCF }},
	{"handling", "Handling", func(r ChargeRecord) float64 { return r.Handling }},
	{"logistic_fee", "Logistic Fee", func(r ChargeRecord) float64 { return r.LogisticFee }},
	{"bl_fee", "BL Fee", func(r ChargeRecord) float64 { return r.BLFee }},
	{"ingreso_sim", "Ingreso SIM", func(r ChargeRecord) float64 { return r.IngresoSIM }},
	{"cert_flete", "Certificado de Flete", func(r ChargeRecord) float64 { return r.CertFlete }},
	{"cert_fob", "Certificado FOB", func(r ChargeRecord) float64 { return r.CertFOB }},
}

// Concepts renders the strictly positive fields of a charge row as
// cost-sheet lines. A cost row fills the cost side and zeroes the sale
// side, the house sale row does the opposite.
func Concepts(row ChargeRecord, isCost bool) []Concept {
	var concepts []Concept
	for _, f := range chargeFields {
		v := f.value(row)
		if v <= 0 {
			continue
		}
		c := Concept{
			Concept:    f.label,
			Predefined: true,
			Type:       "Maritima FCL",
			Details: map[string]any{
				"field":     f.key,
				"carrier":   row.Carrier,
				"equipment": row.Equipment,
				"record":    "COST",
			},
		}
		if isCost {
			c.Cost = v
		} else {
			c.Sale = v
			c.Details["record"] = "SALE"
		}
		concepts = append(concepts, c)
	}
	return concepts
}
