package tract

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	pointTolerance   = 1e-9
)

// RTreeIndex prefilters tracts by bounding box before the exact test.
// Candidates are tested in ascending Ordinal, so results match ScanIndex.
type RTreeIndex struct {
	tree *rtreego.Rtree
	n    int
}

type rtreeEntry struct {
	tract *Tract
	rect  rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// NewRTreeIndex bulk-loads tracts into an R-tree.
func NewRTreeIndex(tracts []*Tract) (*RTreeIndex, error) {
	objs := make([]rtreego.Spatial, 0, len(tracts))
	for _, t := range tracts {
		b := t.Bounds()
		if b == nil || b.IsEmpty() {
			continue
		}
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.Min(0), b.Min(1)},
			rtreego.Point{b.Max(0), b.Max(1)},
		)
		if err != nil {
			return nil, eris.Wrapf(err, "tract: bounds for %s", t.ID)
		}
		objs = append(objs, &rtreeEntry{tract: t, rect: rect})
	}
	return &RTreeIndex{
		tree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...),
		n:    len(objs),
	}, nil
}

// Locate implements Locator.
func (r *RTreeIndex) Locate(lon, lat float64) (*Tract, bool) {
	hits := r.tree.SearchIntersect(rtreego.Point{lon, lat}.ToRect(pointTolerance))
	if len(hits) == 0 {
		return nil, false
	}
	candidates := make([]*Tract, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, h.(*rtreeEntry).tract)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Ordinal < candidates[j].Ordinal
	})
	for _, t := range candidates {
		if t.Contains(lon, lat) {
			return t, true
		}
	}
	return nil, false
}

// Len returns the number of indexed tracts.
func (r *RTreeIndex) Len() int {
	return r.n
}
