package quotations

import "testing"

func TestNormalizeEquipment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"20' STANDARD", "20DV"},
		{"20' std", "20DV"},
		{"40' Standard", "40DV"},
		{"40' HIGH CUBE", "40HC"},
		{"40' standard high cube", "40HC"},
		{"40'  HC", "40HC"},
		{"20' TANK", "20TK"},
		{"20' OPEN TOP", "20OT"},
		{"20' FLAT RACK", "20FR"},
		{"20' REEFER", "20RE"},
		{"40' OPEN TOP", "40OT"},
		{"40' FLAT RACK", "40FR"},
		{"40' NOR", "40NOR"},
		{"40hc", "40HC"},
		{" 20DV ", "20DV"},
		{"45' HIGH CUBE", ""},
		{"pallet", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeEquipment(tc.in); got != tc.want {
			t.Errorf("NormalizeEquipment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalTransportMode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Aerea", "Aerea", true},
		{"Aérea", "Aerea", true},
		{"aérea", "Aerea", true},
		{"Maritima FCL", "Maritima FCL", true},
		{"Marítima FCL", "Maritima FCL", true},
		{" Marítima LCL ", "Maritima LCL", true},
		{"Terrestre", "Terrestre", true},
		{"Courier", "Courier", true},
		{"Fluvial", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := CanonicalTransportMode(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("CanonicalTransportMode(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidContainer(t *testing.T) {
	for _, code := range []string{"20DV", "40DV", "40HC", "20TK", "20OT", "20FR", "20RE", "40OT", "40FR", "40NOR"} {
		if !ValidContainer(code) {
			t.Errorf("%s should be accepted", code)
		}
	}
	for _, code := range []string{"45HC", "20dv", "", "40' HC"} {
		if ValidContainer(code) {
			t.Errorf("%s should be rejected", code)
		}
	}
}
