package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a Value
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "missing"
	}
}

// Value is a single dataset cell. The zero Value is missing.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// MissingValue returns the missing cell
func MissingValue() Value { return Value{} }

// StringValue wraps a textual cell
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps an integer cell
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a floating-point cell. NaN is stored as missing.
func FloatValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, f: f}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the text of a string cell
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Int returns the integer of an int cell
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns the numeric value of an int or float cell
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports whether two cells hold the same kind and value.
// Missing equals missing.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	default:
		return true
	}
}

// String renders the cell the way it is written to CSV. Missing renders as
// the empty string and floats always keep a decimal point or exponent so
// they read back as floats.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// key is an unambiguous encoding used for duplicate detection
func (v Value) key(b *strings.Builder) {
	b.WriteByte('0' + byte(v.kind))
	var text string
	switch v.kind {
	case KindString:
		text = v.s
	case KindInt:
		text = strconv.FormatInt(v.i, 10)
	case KindFloat:
		f := v.f
		if f == 0 {
			f = 0 // -0 and +0 compare equal
		}
		text = strconv.FormatUint(math.Float64bits(f), 16)
	}
	b.WriteString(strconv.Itoa(len(text)))
	b.WriteByte(':')
	b.WriteString(text)
}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber interprets text as an int or float cell. Surrounding whitespace
// is ignored. Integers that overflow int64 become floats.
func ParseNumber(text string) (Value, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Value{}, false
	}

	switch strings.ToLower(strings.TrimLeft(t, "+-")) {
	case "inf", "infinity":
		if strings.Count(t, "-")+strings.Count(t, "+") > 1 {
			return Value{}, false
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	}

	if !numericPattern.MatchString(t) {
		return Value{}, false
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return IntValue(i), true
	}
	// Out-of-range literals still parse, to ±Inf or 0.
	f, _ := strconv.ParseFloat(t, 64)
	return FloatValue(f), true
}

// naTokens are read as missing cells
var naTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

func isNAToken(cell string) bool {
	_, ok := naTokens[cell]
	return ok
}

// numericColumn converts textual cells to numbers when every present cell
// parses. present[i] false marks a missing cell. The column is int only when
// nothing is missing and every cell is an integer literal.
func numericColumn(texts []string, present []bool) ([]Value, bool) {
	out := make([]Value, len(texts))
	allInt := true
	anyMissing := false
	for i, text := range texts {
		if !present[i] {
			anyMissing = true
			continue
		}
		v, ok := ParseNumber(text)
		if !ok {
			return nil, false
		}
		if v.kind != KindInt {
			allInt = false
		}
		out[i] = v
	}

	if allInt && !anyMissing {
		return out, true
	}
	for i, v := range out {
		if v.kind == KindInt {
			out[i] = FloatValue(float64(v.i))
		}
	}
	return out, true
}
