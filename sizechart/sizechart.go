// Package sizechart holds the static brand size-conversion tables. Pure
// lookups over process-lifetime constant data; safe to share without
// synchronization.
package sizechart

import "strings"

// ShoeSizeRow is one footwear size across the regional conventions.
type ShoeSizeRow struct {
	UK string `json:"uk"`
	US string `json:"us"`
	EU string `json:"eu"`
	CM string `json:"cm"`
}

// ShoeSizeChart groups a brand's footwear rows. Men is always present;
// Women and Kids only where the brand publishes separate scales.
type ShoeSizeChart struct {
	Men   []ShoeSizeRow `json:"men"`
	Women []ShoeSizeRow `json:"women,omitempty"`
	Kids  []ShoeSizeRow `json:"kids,omitempty"`
}

// ApparelSizeRow is one apparel size with its body measurements in cm.
type ApparelSizeRow struct {
	Size     string `json:"size"`
	Length   string `json:"length"`
	Shoulder string `json:"shoulder"`
	Chest    string `json:"chest"`
	Sleeve   string `json:"sleeve"`
	Hem      string `json:"hem"`
}

// ApparelSizeChart groups a brand's apparel rows.
type ApparelSizeChart struct {
	Rows []ApparelSizeRow `json:"rows"`
}

// GetSizeChart returns the footwear chart for brand, falling back to the Nike
// chart for unknown brands. The UI must always be able to render some size
// guide, so an unmatched brand is not an error.
func GetSizeChart(brand string) ShoeSizeChart {
	if chart, ok := shoeCharts[normalize(brand)]; ok {
		return chart
	}
	return shoeCharts["nike"]
}

// GetApparelSizeChart returns the apparel chart for brand, falling back to
// the generic chart.
func GetApparelSizeChart(brand string) ApparelSizeChart {
	if chart, ok := apparelCharts[normalize(brand)]; ok {
		return chart
	}
	return apparelCharts["generic"]
}

// KnownSize reports whether sizeValue ("UK 8", "US 9.5", "EU 42") appears in
// the brand's footwear chart. Values in an unrecognized convention are
// accepted; the table only vouches for the scales it carries.
func KnownSize(brand, sizeValue string) bool {
	parts := strings.Fields(strings.ToUpper(strings.TrimSpace(sizeValue)))
	if len(parts) != 2 {
		return true
	}
	chart := GetSizeChart(brand)
	rows := make([]ShoeSizeRow, 0, len(chart.Men)+len(chart.Women)+len(chart.Kids))
	rows = append(rows, chart.Men...)
	rows = append(rows, chart.Women...)
	rows = append(rows, chart.Kids...)

	for _, row := range rows {
		switch parts[0] {
		case "UK":
			if row.UK == parts[1] {
				return true
			}
		case "US":
			if row.US == parts[1] {
				return true
			}
		case "EU":
			if row.EU == parts[1] {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func normalize(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

var shoeCharts = map[string]ShoeSizeChart{
	"nike": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "7", EU: "40", CM: "25"},
			{UK: "6.5", US: "7.5", EU: "40.5", CM: "25.5"},
			{UK: "7", US: "8", EU: "41", CM: "26"},
			{UK: "7.5", US: "8.5", EU: "42", CM: "26.5"},
			{UK: "8", US: "9", EU: "42.5", CM: "27"},
			{UK: "8.5", US: "9.5", EU: "43", CM: "27.5"},
			{UK: "9", US: "10", EU: "44", CM: "28"},
			{UK: "9.5", US: "10.5", EU: "44.5", CM: "28.5"},
			{UK: "10", US: "11", EU: "45", CM: "29"},
			{UK: "11", US: "12", EU: "46", CM: "30"},
		},
		Women: []ShoeSizeRow{
			{UK: "3", US: "5.5", EU: "36", CM: "22.5"},
			{UK: "3.5", US: "6", EU: "36.5", CM: "23"},
			{UK: "4", US: "6.5", EU: "37.5", CM: "23.5"},
			{UK: "4.5", US: "7", EU: "38", CM: "24"},
			{UK: "5", US: "7.5", EU: "38.5", CM: "24.5"},
			{UK: "5.5", US: "8", EU: "39", CM: "25"},
			{UK: "6", US: "8.5", EU: "40", CM: "25.5"},
		},
		Kids: []ShoeSizeRow{
			{UK: "3", US: "3.5", EU: "35.5", CM: "22.5"},
			{UK: "3.5", US: "4", EU: "36", CM: "23"},
			{UK: "4", US: "4.5", EU: "36.5", CM: "23.5"},
			{UK: "4.5", US: "5", EU: "37.5", CM: "24"},
			{UK: "5", US: "5.5", EU: "38", CM: "24.5"},
			{UK: "5.5", US: "6", EU: "38.5", CM: "25"},
		},
	},
	"adidas": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "6.5", EU: "39.3", CM: "24.6"},
			{UK: "6.5", US: "7", EU: "40", CM: "25"},
			{UK: "7", US: "7.5", EU: "40.7", CM: "25.5"},
			{UK: "7.5", US: "8", EU: "41.3", CM: "25.9"},
			{UK: "8", US: "8.5", EU: "42", CM: "26.3"},
			{UK: "8.5", US: "9", EU: "42.7", CM: "26.7"},
			{UK: "9", US: "9.5", EU: "43.3", CM: "27.1"},
			{UK: "9.5", US: "10", EU: "44", CM: "27.6"},
			{UK: "10", US: "10.5", EU: "44.7", CM: "28"},
			{UK: "11", US: "11.5", EU: "46", CM: "28.8"},
		},
		Women: []ShoeSizeRow{
			{UK: "3.5", US: "5", EU: "36", CM: "22.1"},
			{UK: "4", US: "5.5", EU: "36.7", CM: "22.5"},
			{UK: "4.5", US: "6", EU: "37.3", CM: "22.9"},
			{UK: "5", US: "6.5", EU: "38", CM: "23.3"},
			{UK: "5.5", US: "7", EU: "38.7", CM: "23.8"},
			{UK: "6", US: "7.5", EU: "39.3", CM: "24.2"},
		},
	},
	"new balance": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "6.5", EU: "39.5", CM: "24.5"},
			{UK: "6.5", US: "7", EU: "40", CM: "25"},
			{UK: "7", US: "7.5", EU: "40.5", CM: "25.5"},
			{UK: "7.5", US: "8", EU: "41.5", CM: "26"},
			{UK: "8", US: "8.5", EU: "42", CM: "26.5"},
			{UK: "8.5", US: "9", EU: "42.5", CM: "27"},
			{UK: "9", US: "9.5", EU: "43", CM: "27.5"},
			{UK: "9.5", US: "10", EU: "44", CM: "28"},
			{UK: "10", US: "10.5", EU: "44.5", CM: "28.5"},
			{UK: "11", US: "11.5", EU: "45.5", CM: "29.5"},
		},
	},
	"asics": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "7", EU: "40", CM: "25.25"},
			{UK: "7", US: "8", EU: "41.5", CM: "26"},
			{UK: "7.5", US: "8.5", EU: "42", CM: "26.5"},
			{UK: "8", US: "9", EU: "42.5", CM: "27"},
			{UK: "8.5", US: "9.5", EU: "43.5", CM: "27.25"},
			{UK: "9", US: "10", EU: "44", CM: "27.5"},
			{UK: "10", US: "11", EU: "45", CM: "28.25"},
			{UK: "11", US: "12", EU: "46.5", CM: "29"},
		},
	},
	"puma": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "7", EU: "39", CM: "25"},
			{UK: "7", US: "8", EU: "40.5", CM: "26"},
			{UK: "7.5", US: "8.5", EU: "41", CM: "26.5"},
			{UK: "8", US: "9", EU: "42", CM: "27"},
			{UK: "8.5", US: "9.5", EU: "42.5", CM: "27.5"},
			{UK: "9", US: "10", EU: "43", CM: "28"},
			{UK: "10", US: "11", EU: "44.5", CM: "29"},
			{UK: "11", US: "12", EU: "46", CM: "30"},
		},
	},
	"converse": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "6", EU: "39", CM: "24.5"},
			{UK: "7", US: "7", EU: "40", CM: "25.5"},
			{UK: "7.5", US: "7.5", EU: "41", CM: "26"},
			{UK: "8", US: "8", EU: "41.5", CM: "26.5"},
			{UK: "8.5", US: "8.5", EU: "42", CM: "27"},
			{UK: "9", US: "9", EU: "42.5", CM: "27.5"},
			{UK: "10", US: "10", EU: "44", CM: "28.5"},
			{UK: "11", US: "11", EU: "45", CM: "29.5"},
		},
	},
	"vans": {
		Men: []ShoeSizeRow{
			{UK: "6", US: "7", EU: "39", CM: "25"},
			{UK: "7", US: "8", EU: "40.5", CM: "26"},
			{UK: "7.5", US: "8.5", EU: "41", CM: "26.5"},
			{UK: "8", US: "9", EU: "42", CM: "27"},
			{UK: "8.5", US: "9.5", EU: "42.5", CM: "27.5"},
			{UK: "9", US: "10", EU: "43", CM: "28"},
			{UK: "10", US: "11", EU: "44.5", CM: "29"},
			{UK: "11", US: "12", EU: "46", CM: "30"},
		},
	},
}

func init() {
	// Jordan footwear runs on the Nike last; Yeezy on the adidas one.
	shoeCharts["jordan"] = shoeCharts["nike"]
	shoeCharts["yeezy"] = shoeCharts["adidas"]
}

var apparelCharts = map[string]ApparelSizeChart{
	"generic": {
		Rows: []ApparelSizeRow{
			{Size: "S", Length: "68", Shoulder: "44", Chest: "102", Sleeve: "60", Hem: "96"},
			{Size: "M", Length: "70", Shoulder: "46", Chest: "108", Sleeve: "61.5", Hem: "102"},
			{Size: "L", Length: "72", Shoulder: "48", Chest: "114", Sleeve: "63", Hem: "108"},
			{Size: "XL", Length: "74", Shoulder: "50", Chest: "120", Sleeve: "64.5", Hem: "114"},
			{Size: "XXL", Length: "76", Shoulder: "52", Chest: "126", Sleeve: "66", Hem: "120"},
		},
	},
	"supreme": {
		Rows: []ApparelSizeRow{
			{Size: "S", Length: "69", Shoulder: "46", Chest: "106", Sleeve: "59", Hem: "100"},
			{Size: "M", Length: "71", Shoulder: "48", Chest: "112", Sleeve: "60.5", Hem: "106"},
			{Size: "L", Length: "73", Shoulder: "50", Chest: "118", Sleeve: "62", Hem: "112"},
			{Size: "XL", Length: "75", Shoulder: "52", Chest: "124", Sleeve: "63.5", Hem: "118"},
			{Size: "XXL", Length: "77", Shoulder: "54", Chest: "130", Sleeve: "65", Hem: "124"},
		},
	},
	"essentials": {
		Rows: []ApparelSizeRow{
			{Size: "S", Length: "70", Shoulder: "52", Chest: "118", Sleeve: "56", Hem: "104"},
			{Size: "M", Length: "72", Shoulder: "54", Chest: "124", Sleeve: "57.5", Hem: "110"},
			{Size: "L", Length: "74", Shoulder: "56", Chest: "130", Sleeve: "59", Hem: "116"},
			{Size: "XL", Length: "76", Shoulder: "58", Chest: "136", Sleeve: "60.5", Hem: "122"},
		},
	},
}
