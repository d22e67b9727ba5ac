package session

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/burden-map/internal/predict"
)

// Handler errors. Missing-input errors are prompts; ErrGeocodeFailed wraps a
// transport failure and is not retried.
var (
	ErrMissingAddress   = eris.New("session: missing address")
	ErrAddressNotFound  = eris.New("session: address not found")
	ErrGeocodeFailed    = eris.New("session: geocoding failed")
	ErrNoLocation       = eris.New("session: no located tract")
	ErrMissingSelection = eris.New("session: missing housing or income selection")
)

// NoTractMessage is shown when a located point is outside every tract.
const NoTractMessage = "Could not determine census tract."

// Message returns the user-facing text for a handler error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAddress):
		return "Enter an address."
	case errors.Is(err, ErrAddressNotFound):
		return "Could not find that address."
	case errors.Is(err, ErrGeocodeFailed):
		return "Address search is unavailable right now. Try again."
	case errors.Is(err, ErrNoLocation):
		return "Search for an address first."
	case errors.Is(err, ErrMissingSelection):
		return "Select housing and income."
	case errors.Is(err, predict.ErrUnknownHousing):
		return "Unknown housing type."
	case errors.Is(err, predict.ErrUnknownIncome):
		return "Unknown income bracket."
	default:
		return "Something went wrong."
	}
}
