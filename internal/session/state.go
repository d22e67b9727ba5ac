// Package session holds the single-user interaction state (searched point,
// resolved tract, map overlays, selector values) and the handlers that move
// it between Empty and Located.
package session

import (
	"github.com/google/uuid"

	"github.com/sells-group/burden-map/internal/tract"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lon float64
	Lat float64
}

// State is passed into and returned from every handler; handlers never keep
// their own copy.
type State struct {
	// ID correlates log lines for one session.
	ID    string
	Query string
	// Point is nil until a search or pick succeeds.
	Point *Point
	// Tract is nil when the point fell outside every tract.
	Tract     *tract.Tract
	Marker    Handle
	Highlight Handle
	Housing   string
	Income    string
}

// New returns an Empty state with a fresh session id.
func New() State {
	return State{ID: uuid.NewString()}
}

// Located reports whether a point has been searched or picked.
func (s State) Located() bool {
	return s.Point != nil
}

// TractID returns the resolved tract id or "".
func (s State) TractID() string {
	if s.Tract == nil {
		return ""
	}
	return s.Tract.ID
}
