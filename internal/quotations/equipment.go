package quotations

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccenter strips combining marks so "Marítima" and "Maritima" compare
// equal. The SPA sends both spellings.
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	out, _, err := transform.String(deaccenter, s)
	if err != nil {
		return s
	}
	return out
}

// containerAllowSet holds the short container codes the tariff tables
// accept.
var containerAllowSet = map[string]bool{
	"20DV": true, "40DV": true, "40HC": true, "20TK": true, "20OT": true,
	"20FR": true, "20RE": true, "40OT": true, "40FR": true, "40NOR": true,
}

// equipmentAliases maps the human-readable equipment labels used on
// quotation forms to the short container codes. Keys are stored already
// normalized (upper case, no apostrophes, single spaces).
var equipmentAliases = map[string]string{
	"20 STANDARD":           "20DV",
	"20 STD":                "20DV",
	"40 STANDARD":           "40DV",
	"40 STD":                "40DV",
	"40 HIGH CUBE":          "40HC",
	"40 HC":                 "40HC",
	"40 STANDARD HIGH CUBE": "40HC",
	"20 TANK":               "20TK",
	"20 OPEN TOP":           "20OT",
	"20 FLAT RACK":          "20FR",
	"20 REEFER":             "20RE",
	"40 OPEN TOP":           "40OT",
	"40 FLAT RACK":          "40FR",
	"40 NOR":                "40NOR",

	"20DV": "20DV", "40DV": "40DV", "40HC": "40HC", "20TK": "20TK",
	"20OT": "20OT", "20FR": "20FR", "20RE": "20RE", "40OT": "40OT",
	"40FR": "40FR", "40NOR": "40NOR",
}

// NormalizeEquipment converts an equipment label to the short container
// code the tariff tables key on. Returns "" when the label is unknown.
func NormalizeEquipment(raw string) string {
	if raw == "" {
		return ""
	}
	key := strings.ToUpper(foldAccents(raw))
	key = strings.ReplaceAll(key, "'", "")
	key = strings.Join(strings.Fields(key), " ")
	return equipmentAliases[key]
}

// ValidContainer reports whether code is an accepted short container code.
func ValidContainer(code string) bool {
	return containerAllowSet[code]
}
