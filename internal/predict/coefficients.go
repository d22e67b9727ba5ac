package predict

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Coefficient is one additive term of the regression, keyed by its display label.
type Coefficient struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// Coefficients is the fitted linear model: an intercept plus one additive
// term per housing category and per income bracket. Order is display order.
type Coefficients struct {
	Intercept float64       `yaml:"intercept"`
	Housing   []Coefficient `yaml:"housing"`
	Income    []Coefficient `yaml:"income"`
}

// DefaultCoefficients returns the model fitted on the Philadelphia LEAD
// tract data. Each call returns a fresh copy.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Intercept: 11.9792,
		Housing: []Coefficient{
			{"OWNER 1 DETACHED", -13.9688},
			{"OWNER 10-19 UNIT", -10.0243},
			{"OWNER 2 UNIT", -2.5044},
			{"OWNER 20-49 UNIT", -8.2707},
			{"OWNER 3-4 UNIT", -1.5441},
			{"OWNER 5-9 UNIT", -8.2854},
			{"OWNER 50+ UNIT", -9.8844},
			{"OWNER BOAT_RV_VAN", -11.5456},
			{"OWNER MOBILE_TRAILER", -1.4856},
			{"RENTER 1 ATTACHED", -0.1838},
			{"RENTER 1 DETACHED", -13.9966},
			{"RENTER 10-19 UNIT", -14.8626},
			{"RENTER 2 UNIT", -10.4705},
			{"RENTER 20-49 UNIT", -14.1620},
			{"RENTER 3-4 UNIT", -13.9941},
			{"RENTER 5-9 UNIT", -13.6238},
			{"RENTER 50+ UNIT", -14.1765},
			{"RENTER BOAT_RV_VAN", 13.2704},
			{"RENTER MOBILE_TRAILER", -6.3555},
		},
		Income: []Coefficient{
			{"$150k+", -0.3788},
			{"$20k–$30k", 20.3513},
			{"$30k–$40k", 12.8207},
			{"$40k–$50k", 9.3714},
			{"$50k–$60k", 6.4077},
			{"$60k–$75k", 4.1346},
			{"$75k–$100k", 1.3476},
			{"Under $20k", 14.7426},
		},
	}
}

// LoadCoefficients reads a YAML coefficient file. An empty path yields the
// compiled-in defaults.
func LoadCoefficients(path string) (Coefficients, error) {
	if path == "" {
		return DefaultCoefficients(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Coefficients{}, eris.Wrapf(err, "predict: read coefficients %s", path)
	}

	var c Coefficients
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Coefficients{}, eris.Wrapf(err, "predict: parse coefficients %s", path)
	}
	if len(c.Housing) == 0 || len(c.Income) == 0 {
		return Coefficients{}, eris.Errorf("predict: coefficients %s must list housing and income terms", path)
	}
	return c, nil
}
