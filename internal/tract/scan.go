package tract

// ScanIndex tests every tract in load order.
type ScanIndex struct {
	tracts []*Tract
}

// NewScanIndex returns a linear-scan Locator over tracts.
func NewScanIndex(tracts []*Tract) *ScanIndex {
	return &ScanIndex{tracts: tracts}
}

// Locate implements Locator.
func (s *ScanIndex) Locate(lon, lat float64) (*Tract, bool) {
	for _, t := range s.tracts {
		if t.Contains(lon, lat) {
			return t, true
		}
	}
	return nil, false
}

// Tracts returns the indexed tracts in load order.
func (s *ScanIndex) Tracts() []*Tract {
	return s.tracts
}
