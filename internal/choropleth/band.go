// Package choropleth classifies tract burden values into fill colors and
// exports styled tracts for a rendering surface.
package choropleth

// Band is one step of the color ladder.
type Band struct {
	Name  string
	Color string
	Label string
}

// Burden bands, highest first (ColorBrewer YlOrRd).
var (
	BandSevere   = Band{Name: "severe", Color: "#bd0026", Label: "> 10%"}
	BandHigh     = Band{Name: "high", Color: "#f03b20", Label: "7 - 10%"}
	BandElevated = Band{Name: "elevated", Color: "#fd8d3c", Label: "4 - 7%"}
	BandModerate = Band{Name: "moderate", Color: "#fecc5c", Label: "2 - 4%"}
	BandLow      = Band{Name: "low", Color: "#ffffb2", Label: "<= 2%"}

	// NoData styles tracts without an observed value. It is not part of the
	// ladder, so no numeric value maps to it.
	NoData = Band{Name: "no_data", Color: "#cccccc", Label: "No data"}
)

// Lower bounds of the ladder, exclusive.
const (
	severeAbove   = 10.0
	highAbove     = 7.0
	elevatedAbove = 4.0
	moderateAbove = 2.0
)

// ColorFor maps a burden percentage to its band. Each bound is exclusive:
// exactly 10 is High, exactly 2 is Low.
func ColorFor(value float64) Band {
	switch {
	case value > severeAbove:
		return BandSevere
	case value > highAbove:
		return BandHigh
	case value > elevatedAbove:
		return BandElevated
	case value > moderateAbove:
		return BandModerate
	default:
		return BandLow
	}
}

// ColorForLookup classifies the result of a value lookup, styling misses as NoData.
func ColorForLookup(value float64, ok bool) Band {
	if !ok {
		return NoData
	}
	return ColorFor(value)
}

// Legend returns the ladder highest first, followed by NoData.
func Legend() []Band {
	return []Band{BandSevere, BandHigh, BandElevated, BandModerate, BandLow, NoData}
}
