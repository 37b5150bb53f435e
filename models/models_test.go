package models

import "testing"

func TestIsMultiSize(t *testing.T) {
	single := &ImportRow{Title: "A", SizeValue: "UK 8", Price: 100}
	if single.IsMultiSize() {
		t.Error("Expected flat row to be single-size")
	}

	multi := &ImportRow{Title: "A", Sizes: []SizeEntry{{SizeValue: "UK 8", Price: 100}}}
	if !multi.IsMultiSize() {
		t.Error("Expected row with sizes list to be multi-size")
	}
}

func TestListingPrice(t *testing.T) {
	tests := []struct {
		name string
		row  ImportRow
		want float64
	}{
		{"single size", ImportRow{SizeValue: "UK 8", Price: 9000}, 9000},
		{"minimum across variants", ImportRow{Sizes: []SizeEntry{
			{SizeValue: "UK 8", Price: 100},
			{SizeValue: "UK 9", Price: 80},
			{SizeValue: "UK 10", Price: 120},
		}}, 80},
		{"single variant", ImportRow{Sizes: []SizeEntry{{SizeValue: "UK 8", Price: 150}}}, 150},
		{"no price at all", ImportRow{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.ListingPrice(); got != tt.want {
				t.Errorf("ListingPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}
