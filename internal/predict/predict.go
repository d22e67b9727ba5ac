// Package predict evaluates the energy-burden regression for a housing type
// and income bracket.
package predict

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/burden-map/internal/normalize"
)

// Validation errors returned by Validate.
var (
	ErrUnknownHousing = eris.New("predict: unknown housing type")
	ErrUnknownIncome  = eris.New("predict: unknown income bracket")
)

// Predictor holds immutable coefficient tables keyed by normalized label.
type Predictor struct {
	intercept     float64
	housing       map[string]float64
	income        map[string]float64
	housingLabels []string
	incomeLabels  []string
}

// New builds a Predictor. Two labels that normalize to the same key are
// rejected since one of them could never be selected.
func New(c Coefficients) (*Predictor, error) {
	p := &Predictor{
		intercept: c.Intercept,
		housing:   make(map[string]float64, len(c.Housing)),
		income:    make(map[string]float64, len(c.Income)),
	}
	for _, h := range c.Housing {
		key := normalize.Text(h.Label)
		if _, dup := p.housing[key]; dup || key == "" {
			return nil, eris.Errorf("predict: duplicate or empty housing label %q", h.Label)
		}
		p.housing[key] = h.Value
		p.housingLabels = append(p.housingLabels, h.Label)
	}
	for _, in := range c.Income {
		key := normalize.Income(in.Label)
		if _, dup := p.income[key]; dup || key == "" {
			return nil, eris.Errorf("predict: duplicate or empty income label %q", in.Label)
		}
		p.income[key] = in.Value
		p.incomeLabels = append(p.incomeLabels, in.Label)
	}
	return p, nil
}

// Predict returns the estimated burden percentage. Unknown labels contribute
// nothing; the result is floored at zero because a burden is never negative.
func (p *Predictor) Predict(housing, income string) float64 {
	y := p.intercept
	if v, ok := p.housing[normalize.Text(housing)]; ok {
		y += v
	}
	if v, ok := p.income[normalize.Income(income)]; ok {
		y += v
	}
	return math.Max(0, y)
}

// Validate reports which of the labels has no coefficient.
func (p *Predictor) Validate(housing, income string) error {
	if _, ok := p.housing[normalize.Text(housing)]; !ok {
		return eris.Wrapf(ErrUnknownHousing, "%q", housing)
	}
	if _, ok := p.income[normalize.Income(income)]; !ok {
		return eris.Wrapf(ErrUnknownIncome, "%q", income)
	}
	return nil
}

// Intercept returns the model intercept.
func (p *Predictor) Intercept() float64 { return p.intercept }

// HousingLabels returns the housing labels in table order.
func (p *Predictor) HousingLabels() []string {
	return append([]string(nil), p.housingLabels...)
}

// IncomeLabels returns the income labels in table order.
func (p *Predictor) IncomeLabels() []string {
	return append([]string(nil), p.incomeLabels...)
}
