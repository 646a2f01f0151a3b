package operations

// UpdateOperationRequest merges new values into an operation's snapshot.
type UpdateOperationRequest struct {
	Snapshot map[string]any `json:"snapshot"`
}

// TrackingUpdate carries the tracking fields the SPA edits on the
// operation board. Nil fields are left untouched.
type TrackingUpdate struct {
	Code                string   `json:"code" validate:"required"`
	ETD                 *string  `json:"etd"`
	ETA                 *string  `json:"eta"`
	LoadDate            *string  `json:"load_date"`
	DischargeDate       *string  `json:"discharge_date"`
	Equipment           *string  `json:"equipment"`
	Origin              *string  `json:"origin"`
	Destination         *string  `json:"destination"`
	Reference           *string  `json:"reference"`
	VolumeM3            *float64 `json:"volume_m3"`
	TotalWeightKg       *float64 `json:"total_weight_kg"`
	IncotermOrigin      *string  `json:"incoterm_origin"`
	IncotermDestination *string  `json:"incoterm_destination"`
}

// snapshotPatch maps the set fields onto their snapshot bag keys.
func (t TrackingUpdate) snapshotPatch() map[string]any {
	patch := make(map[string]any)
	setStr := func(key string, v *string) {
		if v != nil {
			patch[key] = *v
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			patch[key] = *v
		}
	}
	setStr("etd", t.ETD)
	setStr("eta", t.ETA)
	setStr("fecha_carga", t.LoadDate)
	setStr("fecha_descarga", t.DischargeDate)
	setStr("equipo", t.Equipment)
	setStr("origen", t.Origin)
	setStr("destino", t.Destination)
	setStr("referencia", t.Reference)
	setFloat("volumen_m3", t.VolumeM3)
	setFloat("peso_total_kg", t.TotalWeightKg)
	setStr("incoterm_origen", t.IncotermOrigin)
	setStr("incoterm_destino", t.IncotermDestination)
	return patch
}

// AddChecklistItemRequest creates a checklist task.
type AddChecklistItemRequest struct {
	Task      string  `json:"task" validate:"required"`
	CreatedBy *string `json:"created_by"`
}

// UpdateChecklistItemRequest edits a checklist task. Nil fields are left
// untouched.
type UpdateChecklistItemRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}
