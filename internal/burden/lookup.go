// Package burden loads observed energy-burden percentages per census tract
// and answers value lookups by tract id.
package burden

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/burden-map/internal/normalize"
)

// Lookup maps normalized tract ids to observed burden percentages.
// It is immutable once built.
type Lookup struct {
	values map[string]float64
}

// ValueFor returns the observed burden for id. The id is normalized first, so
// 12-digit block-group ids resolve to their tract.
func (l *Lookup) ValueFor(id string) (float64, bool) {
	if l == nil {
		return 0, false
	}
	v, ok := l.values[normalize.GEOID(id)]
	return v, ok
}

// Len returns the number of tracts with a value.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.values)
}

// Stats summarizes a build.
type Stats struct {
	Rows       int
	Kept       int
	Skipped    int
	Duplicates int
}

// Builder accumulates rows into a Lookup. Later rows for the same id replace
// earlier ones.
type Builder struct {
	values map[string]float64
	stats  Stats
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{values: make(map[string]float64)}
}

// Add records one raw (id, value) row. Rows with an empty id or an
// unparseable value are counted as skipped.
func (b *Builder) Add(rawID, rawValue string) {
	b.stats.Rows++

	id := normalize.GEOID(rawID)
	if id == "" {
		b.stats.Skipped++
		return
	}
	v, err := ParseValue(rawValue)
	if err != nil {
		b.stats.Skipped++
		return
	}
	if _, dup := b.values[id]; dup {
		b.stats.Duplicates++
	} else {
		b.stats.Kept++
	}
	b.values[id] = v
}

// Stats returns the counters so far.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Lookup freezes the builder. The builder must not be used afterwards.
func (b *Builder) Lookup() *Lookup {
	l := &Lookup{values: b.values}
	b.values = nil
	return l
}

// FromMap builds a Lookup directly from parsed values, normalizing ids.
func FromMap(m map[string]float64) *Lookup {
	values := make(map[string]float64, len(m))
	for id, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[normalize.GEOID(id)] = v
	}
	return &Lookup{values: values}
}

// ParseValue parses a burden percentage. A trailing "%" is accepted;
// empty, NaN and infinite values are rejected.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, eris.New("burden: empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "burden: parse value %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("burden: non-finite value %q", s)
	}
	return v, nil
}
