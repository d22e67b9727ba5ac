package session

import (
	"fmt"
	"sync"

	"github.com/sells-group/burden-map/internal/tract"
)

// Handle identifies an overlay on the rendering surface. Zero means none.
type Handle uint64

// Surface is the map the session draws on.
type Surface interface {
	AddMarker(p Point) Handle
	RemoveMarker(h Handle)
	AddHighlight(t *tract.Tract) Handle
	RemoveHighlight(h Handle)
	SetView(center Point, zoom float64)
}

// View is a map center and zoom.
type View struct {
	Center Point
	Zoom   float64
}

// RecordingSurface keeps overlays in memory and logs every operation.
type RecordingSurface struct {
	mu         sync.Mutex
	next       Handle
	markers    map[Handle]Point
	highlights map[Handle]string
	view       View
	ops        []string
}

// NewRecordingSurface returns a surface centered on view.
func NewRecordingSurface(view View) *RecordingSurface {
	return &RecordingSurface{
		markers:    make(map[Handle]Point),
		highlights: make(map[Handle]string),
		view:       view,
	}
}

// AddMarker implements Surface.
func (r *RecordingSurface) AddMarker(p Point) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.markers[r.next] = p
	r.ops = append(r.ops, fmt.Sprintf("add-marker %d", r.next))
	return r.next
}

// RemoveMarker implements Surface.
func (r *RecordingSurface) RemoveMarker(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.markers, h)
	r.ops = append(r.ops, fmt.Sprintf("remove-marker %d", h))
}

// AddHighlight implements Surface.
func (r *RecordingSurface) AddHighlight(t *tract.Tract) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.highlights[r.next] = t.ID
	r.ops = append(r.ops, fmt.Sprintf("add-highlight %d", r.next))
	return r.next
}

// RemoveHighlight implements Surface.
func (r *RecordingSurface) RemoveHighlight(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.highlights, h)
	r.ops = append(r.ops, fmt.Sprintf("remove-highlight %d", h))
}

// SetView implements Surface.
func (r *RecordingSurface) SetView(center Point, zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = View{Center: center, Zoom: zoom}
	r.ops = append(r.ops, fmt.Sprintf("set-view %.5f,%.5f z%g", center.Lat, center.Lon, zoom))
}

// Markers returns the number of markers on the surface.
func (r *RecordingSurface) Markers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.markers)
}

// Highlights returns the tract ids currently highlighted.
func (r *RecordingSurface) Highlights() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.highlights))
	for _, id := range r.highlights {
		ids = append(ids, id)
	}
	return ids
}

// View returns the current view.
func (r *RecordingSurface) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Ops returns a copy of the operation log.
func (r *RecordingSurface) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}
