package branch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Scalar holds a backend value that may arrive as a number or as text.
// The zero Scalar means "unknown" and is distinct from the number 0.
type Scalar struct {
	text    string
	num     float64
	numeric bool
	known   bool
}

func Number(f float64) Scalar { return Scalar{num: f, numeric: true, known: true} }

func Text(s string) Scalar { return Scalar{text: s, known: true} }

// Known reports whether the backend supplied a value at all.
func (s Scalar) Known() bool { return s.known }

func (s Scalar) IsNumeric() bool { return s.numeric }

// Float returns the numeric value. Text scalars are parsed so a code stored
// as "4010" still compares equal to 4010.
func (s Scalar) Float() (float64, bool) {
	if !s.known {
		return 0, false
	}
	if s.numeric {
		return s.num, true
	}
	return parseNumber(s.text)
}

func (s Scalar) String() string {
	if !s.known {
		return ""
	}
	if s.numeric {
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	}
	return s.text
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case !s.known:
		return []byte("null"), nil
	case s.numeric:
		return json.Marshal(s.num)
	default:
		return json.Marshal(s.text)
	}
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	*s = scalarOf(nil)
	if string(b) == "null" {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = scalarOf(v)
	return nil
}

// parseNumber mirrors how a search box query is read as a number: surrounding
// blanks are ignored and anything non-finite is rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
