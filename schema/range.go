package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNumberSyntax reports a literal that is not a number of the expected shape.
	ErrNumberSyntax = errors.New("schema: invalid number syntax")
	// ErrNumberOverflow reports a literal whose magnitude does not fit 64 bits.
	ErrNumberOverflow = errors.New("schema: number overflows 64 bits")
)

// Number is a signed 65-bit quantity: a 64-bit magnitude and a sign. It holds
// every intN, uintN and scaled decimal64 value without loss. Zero is never
// negative.
type Number struct {
	Negative bool
	Value    uint64
}

// Int returns the Number for v.
func Int(v int64) Number {
	if v < 0 {
		return Number{Negative: true, Value: uint64(-(v + 1)) + 1}
	}
	return Number{Value: uint64(v)}
}

// Uint returns the Number for v.
func Uint(v uint64) Number { return Number{Value: v} }

// Compare returns -1, 0 or +1.
func (n Number) Compare(o Number) int {
	switch {
	case n.Negative && !o.Negative:
		return -1
	case !n.Negative && o.Negative:
		return 1
	}
	c := 0
	switch {
	case n.Value < o.Value:
		c = -1
	case n.Value > o.Value:
		c = 1
	}
	if n.Negative {
		return -c
	}
	return c
}

func (n Number) String() string {
	s := strconv.FormatUint(n.Value, 10)
	if n.Negative {
		return "-" + s
	}
	return s
}

// Decimal renders n scaled down by fractionDigits.
func (n Number) Decimal(fractionDigits int) string {
	s := strconv.FormatUint(n.Value, 10)
	if fractionDigits > 0 {
		if len(s) <= fractionDigits {
			s = strings.Repeat("0", fractionDigits-len(s)+1) + s
		}
		s = s[:len(s)-fractionDigits] + "." + s[len(s)-fractionDigits:]
	}
	if n.Negative {
		return "-" + s
	}
	return s
}

func normalize(neg bool, v uint64) Number {
	if v == 0 {
		return Number{}
	}
	return Number{Negative: neg, Value: v}
}

// ParseInteger parses a base-10 integer literal with an optional sign.
func ParseInteger(s string) (Number, error) {
	neg, digits := splitSign(s)
	if digits == "" {
		return Number{}, ErrNumberSyntax
	}
	var v uint64
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Number{}, ErrNumberSyntax
		}
		var err error
		if v, err = appendDigit(v, uint64(r-'0')); err != nil {
			return Number{}, err
		}
	}
	return normalize(neg, v), nil
}

// ParseDecimal parses a decimal literal and scales it by 10^fractionDigits.
// Literals with more fraction digits than declared are rejected.
func ParseDecimal(s string, fractionDigits int) (Number, error) {
	neg, body := splitSign(s)
	intPart, fracPart, hasDot := strings.Cut(body, ".")
	if intPart == "" || (hasDot && fracPart == "") {
		return Number{}, ErrNumberSyntax
	}
	if len(fracPart) > fractionDigits {
		return Number{}, ErrNumberSyntax
	}
	digits := intPart + fracPart + strings.Repeat("0", fractionDigits-len(fracPart))
	var v uint64
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Number{}, ErrNumberSyntax
		}
		var err error
		if v, err = appendDigit(v, uint64(r-'0')); err != nil {
			return Number{}, err
		}
	}
	return normalize(neg, v), nil
}

func splitSign(s string) (bool, string) {
	switch {
	case strings.HasPrefix(s, "-"):
		return true, s[1:]
	case strings.HasPrefix(s, "+"):
		return false, s[1:]
	}
	return false, s
}

func appendDigit(v, d uint64) (uint64, error) {
	if v > (math.MaxUint64-d)/10 {
		return 0, ErrNumberOverflow
	}
	return v*10 + d, nil
}

// Interval is a closed interval [Min, Max].
type Interval struct {
	Min, Max Number
}

// Contains reports whether n lies within the interval, boundaries included.
func (i Interval) Contains(n Number) bool {
	return i.Min.Compare(n) <= 0 && n.Compare(i.Max) <= 0
}

// Range is an ordered list of disjoint closed intervals. A nil Range places no
// restriction beyond the type bounds.
type Range []Interval

// Contains reports whether n falls in any interval of r.
func (r Range) Contains(n Number) bool {
	if len(r) == 0 {
		return true
	}
	for _, iv := range r {
		if iv.Contains(n) {
			return true
		}
	}
	return false
}

// Bounds returns the absolute bounds of the built-in type t. decimal64 bounds
// are expressed as the scaled int64 magnitude; string bounds are lengths.
func Bounds(t BuiltinType) (Interval, bool) {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeDecimal64:
		bits := t.BitSize()
		max := uint64(1)<<(bits-1) - 1
		return Interval{Min: Number{Negative: true, Value: max + 1}, Max: Number{Value: max}}, true
	case TypeUint8, TypeUint16, TypeUint32:
		return Interval{Max: Number{Value: uint64(1)<<t.BitSize() - 1}}, true
	case TypeUint64, TypeString:
		return Interval{Max: Number{Value: math.MaxUint64}}, true
	}
	return Interval{}, false
}

// ParseRange compiles a range expression such as "10..40 | 50..100" or
// "min..2 | 10 | 20..max" for the built-in type t. For decimal64 the bounds
// are scaled by fractionDigits. An empty expression yields a nil Range.
func ParseRange(expr string, t BuiltinType, fractionDigits int) (Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	bounds, ok := Bounds(t)
	if !ok {
		return nil, fmt.Errorf("schema: type %s does not accept a range", t)
	}
	parse := func(lit string) (Number, error) {
		switch lit {
		case "min":
			return bounds.Min, nil
		case "max":
			return bounds.Max, nil
		}
		var (
			n   Number
			err error
		)
		if t == TypeDecimal64 {
			n, err = ParseDecimal(lit, fractionDigits)
		} else {
			n, err = ParseInteger(lit)
		}
		if err != nil {
			return Number{}, fmt.Errorf("schema: range bound %q: %w", lit, err)
		}
		if !bounds.Contains(n) {
			return Number{}, fmt.Errorf("schema: range bound %q outside %s bounds", lit, t)
		}
		return n, nil
	}

	var out Range
	for _, part := range strings.Split(expr, "|") {
		part = strings.TrimSpace(part)
		lo, hi, isInterval := strings.Cut(part, "..")
		lo = strings.TrimSpace(lo)
		if !isInterval {
			hi = lo
		}
		hi = strings.TrimSpace(hi)
		min, err := parse(lo)
		if err != nil {
			return nil, err
		}
		max, err := parse(hi)
		if err != nil {
			return nil, err
		}
		if min.Compare(max) > 0 {
			return nil, fmt.Errorf("schema: range part %q has min greater than max", part)
		}
		if n := len(out); n > 0 && out[n-1].Max.Compare(min) >= 0 {
			return nil, fmt.Errorf("schema: range part %q is not ascending and disjoint", part)
		}
		out = append(out, Interval{Min: min, Max: max})
	}
	return out, nil
}
