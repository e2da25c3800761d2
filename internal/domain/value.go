package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the two reading types a dipstick panel produces.
type ValueKind int

const (
	// ValueAbsent is the no-data placeholder. Callers must not classify it.
	ValueAbsent ValueKind = iota
	ValueNumeric
	ValueQualitative
)

// Value is a single biomarker reading, either numeric (pH 6.2) or
// qualitative ("Negative", "Trace"). The zero Value is the absent reading.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Numeric wraps a numeric reading.
func Numeric(f float64) Value {
	return Value{kind: ValueNumeric, num: f}
}

// Qualitative wraps a categorical reading.
func Qualitative(s string) Value {
	return Value{kind: ValueQualitative, text: s}
}

// Kind returns the reading type.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether this is the no-data placeholder.
func (v Value) IsAbsent() bool {
	return v.kind == ValueAbsent
}

// Float returns the numeric reading, if the value is numeric.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumeric {
		return 0, false
	}
	return v.num, true
}

// Text returns the qualitative reading, if the value is qualitative.
func (v Value) Text() (string, bool) {
	if v.kind != ValueQualitative {
		return "", false
	}
	return v.text, true
}

// String renders the reading for display. The absent reading renders as "-",
// matching the dashboard's empty-cell placeholder.
func (v Value) String() string {
	switch v.kind {
	case ValueNumeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueQualitative:
		return v.text
	default:
		return "-"
	}
}

// MarshalJSON encodes numeric readings as JSON numbers, qualitative readings
// as strings and the absent reading as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumeric:
		return json.Marshal(v.num)
	case ValueQualitative:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number, string or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = Numeric(t)
	case string:
		*v = Qualitative(t)
	default:
		return fmt.Errorf("biomarker value must be a number or string, got %T", raw)
	}
	return nil
}
