// Package normalize canonicalizes free-text keys into the exact token forms
// used by the coefficient and tract lookup tables.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GEOIDLength is the number of leading characters kept from a tract identifier
// (state + county + tract).
const GEOIDLength = 11

const enDash = "–"

// upper applies full Unicode case mapping (ß -> SS), unlike strings.ToUpper.
// A Caser is stateful, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Text upper-cases s, trims it and collapses internal whitespace runs to a
// single space. Empty input yields "".
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(upper(s)), " ")
}

// Income normalizes an income-bracket label: upper-cased, en dashes unified to
// hyphens and every whitespace rune removed.
func Income(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(upper(strings.TrimSpace(s)), enDash, "-")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// GEOID keeps the first 11 characters of the trimmed identifier. It truncates,
// it does not validate.
func GEOID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) > GEOIDLength {
		// Truncation can expose interior whitespace at the cut.
		return strings.TrimSpace(string(r[:GEOIDLength]))
	}
	return string(r)
}

// IDString renders a decoded identifier value as text without truncating it.
// Unsupported types yield "".
func IDString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return ""
	}
}
