package dataset

import (
	"math"
	"strconv"
	"strings"
)

// naTokens are the raw cell values treated as missing.
var naTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// IsMissing reports whether a raw cell value represents a missing value.
func IsMissing(raw string) bool {
	_, ok := naTokens[strings.TrimSpace(raw)]
	return ok
}

// NullString is a string that may be missing.
type NullString struct {
	String string
	Valid  bool
}

// NullFloat is a float64 that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NullInt is an int64 that may be missing.
type NullInt struct {
	Int64 int64
	Valid bool
}

// NullBool is a bool that may be missing.
type NullBool struct {
	Bool  bool
	Valid bool
}

func Str(s string) NullString   { return NullString{String: s, Valid: true} }
func Float(f float64) NullFloat { return NullFloat{Float64: f, Valid: true} }
func Int(i int64) NullInt       { return NullInt{Int64: i, Valid: true} }
func Bool(b bool) NullBool      { return NullBool{Bool: b, Valid: true} }

func parseNullString(raw string) NullString {
	if IsMissing(raw) {
		return NullString{}
	}
	return Str(strings.TrimSpace(raw))
}

func parseNullFloat(raw string) (NullFloat, error) {
	if IsMissing(raw) {
		return NullFloat{}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return NullFloat{}, err
	}
	if math.IsNaN(f) {
		return NullFloat{}, nil
	}
	return Float(f), nil
}

// parseNullInt accepts integral floats such as "120.0", which is how
// spreadsheet exports often write counts.
func parseNullInt(raw string) (NullInt, error) {
	if IsMissing(raw) {
		return NullInt{}, nil
	}
	s := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullInt{}, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return NullInt{}, strconv.ErrSyntax
	}
	return Int(int64(f)), nil
}

func parseNullBool(raw string) (NullBool, error) {
	if IsMissing(raw) {
		return NullBool{}, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return NullBool{}, err
	}
	return Bool(b), nil
}

// Format renders a nullable float the way the Markdown report prints cells.
func (n NullFloat) Format() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func (n NullInt) Format() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}
