package sizechart

import (
	"reflect"
	"testing"
)

func TestGetSizeChartUnknownBrandFallsBackToNike(t *testing.T) {
	unknown := GetSizeChart("some-new-brand")
	nike := GetSizeChart("nike")

	if !reflect.DeepEqual(unknown, nike) {
		t.Error("Expected unknown brand to fall back to the nike chart")
	}
	if len(unknown.Men) == 0 {
		t.Error("Expected fallback chart to have men's rows")
	}
}

func TestGetSizeChartBrandLookup(t *testing.T) {
	tests := []struct {
		brand   string
		wantUS  string // US size for UK 8 in the men's rows
		hasRows bool
	}{
		{"nike", "9", true},
		{"Nike", "9", true},
		{"  adidas  ", "8.5", true},
		{"new balance", "8.5", true},
		{"converse", "8", true},
	}

	for _, tt := range tests {
		chart := GetSizeChart(tt.brand)
		if len(chart.Men) == 0 {
			t.Errorf("GetSizeChart(%q): no men's rows", tt.brand)
			continue
		}
		found := false
		for _, row := range chart.Men {
			if row.UK == "8" {
				found = true
				if row.US != tt.wantUS {
					t.Errorf("GetSizeChart(%q): UK 8 maps to US %s, want %s", tt.brand, row.US, tt.wantUS)
				}
			}
		}
		if !found {
			t.Errorf("GetSizeChart(%q): UK 8 missing from men's rows", tt.brand)
		}
	}
}

func TestGetSizeChartAliases(t *testing.T) {
	if !reflect.DeepEqual(GetSizeChart("jordan"), GetSizeChart("nike")) {
		t.Error("Expected jordan to share the nike chart")
	}
	if !reflect.DeepEqual(GetSizeChart("yeezy"), GetSizeChart("adidas")) {
		t.Error("Expected yeezy to share the adidas chart")
	}
}

func TestGetApparelSizeChartFallback(t *testing.T) {
	unknown := GetApparelSizeChart("some-new-brand")
	generic := GetApparelSizeChart("generic")

	if !reflect.DeepEqual(unknown, generic) {
		t.Error("Expected unknown brand to fall back to the generic apparel chart")
	}
	if len(unknown.Rows) == 0 {
		t.Error("Expected fallback apparel chart to have rows")
	}
}

func TestGetApparelSizeChartSupreme(t *testing.T) {
	chart := GetApparelSizeChart("Supreme")
	if len(chart.Rows) == 0 {
		t.Fatal("Expected supreme apparel rows")
	}
	if chart.Rows[0].Size != "S" {
		t.Errorf("Expected first row size S, got %s", chart.Rows[0].Size)
	}
}

func TestKnownSize(t *testing.T) {
	tests := []struct {
		name      string
		brand     string
		sizeValue string
		want      bool
	}{
		{"nike uk size present", "nike", "UK 8", true},
		{"nike us size present", "nike", "US 9.5", true},
		{"nike eu size present", "nike", "EU 42.5", true},
		{"lowercase convention", "nike", "uk 8", true},
		{"womens row counts", "nike", "UK 3.5", true},
		{"size off the chart", "nike", "UK 15", false},
		{"adidas half size", "adidas", "UK 8.5", true},
		{"unrecognized convention accepted", "nike", "JP 26", true},
		{"free-form value accepted", "nike", "8", true},
		{"unknown brand uses fallback chart", "mystery", "UK 8", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KnownSize(tt.brand, tt.sizeValue); got != tt.want {
				t.Errorf("KnownSize(%q, %q) = %v, want %v", tt.brand, tt.sizeValue, got, tt.want)
			}
		})
	}
}
