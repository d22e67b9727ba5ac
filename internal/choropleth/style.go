package choropleth

import (
	"fmt"

	"github.com/sells-group/burden-map/internal/tract"
)

// ValueSource answers observed-burden lookups. *burden.Lookup satisfies it.
type ValueSource interface {
	ValueFor(id string) (float64, bool)
}

// Style is the per-polygon rendering instruction.
type Style struct {
	Band     Band
	Fill     string
	Tooltip  string
	Value    float64
	HasValue bool
}

// Styler derives tract styles from observed values.
type Styler struct {
	values ValueSource
}

// NewStyler returns a Styler over values.
func NewStyler(values ValueSource) *Styler {
	return &Styler{values: values}
}

// Style returns the fill and tooltip for t.
func (s *Styler) Style(t *tract.Tract) Style {
	v, ok := s.values.ValueFor(t.ID)
	band := ColorForLookup(v, ok)
	return Style{
		Band:     band,
		Fill:     band.Color,
		Tooltip:  Tooltip(t.ID, v, ok),
		Value:    v,
		HasValue: ok,
	}
}

// Tooltip formats the hover text for a tract.
func Tooltip(id string, value float64, ok bool) string {
	if !ok {
		return fmt.Sprintf("Tract %s: no data", id)
	}
	return fmt.Sprintf("Tract %s: %.1f%%", id, value)
}
