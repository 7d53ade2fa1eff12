// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggmath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A Kind records whether a Value is an integer or a floating-point
// number. It is decided once, when the value is parsed.
type Kind uint8

const (
	// Int values were written without a decimal point.
	Int Kind = iota
	// Float values were written with a decimal point, or were
	// produced by arithmetic that could not be represented
	// exactly as an Int.
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Value is a measurement tagged with its Kind.
//
// The zero Value is the integer 0.
type Value struct {
	kind Kind
	i    int64
	f    float64
}

// IntValue returns an Int Value.
func IntValue(i int64) Value {
	return Value{kind: Int, i: i, f: float64(i)}
}

// FloatValue returns a Float Value.
func FloatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

// Parse parses s as a Value, inferring its Kind: s is a Float if it
// contains a '.' and an Int otherwise. Non-finite values are rejected
// whatever their spelling.
func Parse(s string) (Value, error) {
	if strings.IndexByte(s, '.') < 0 {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	}
	v, err := ParseFloat(s)
	if err == nil && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return Value{}, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	return v, err
}

func isNonFinite(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") || strings.EqualFold(s, "nan")
}

// ParseFloat parses s as a Float Value regardless of its spelling.
// Unlike Parse, it accepts "inf" and "nan".
func ParseFloat(s string) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

// Kind returns the Kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns v as a float64.
func (v Value) Float() float64 {
	return v.f
}

// Int returns v as an int64 and whether v is an Int.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == Int
}

// Add returns v+w. The result is an Int only if both operands are.
func (v Value) Add(w Value) Value {
	if v.kind == Int && w.kind == Int {
		return IntValue(v.i + w.i)
	}
	return FloatValue(v.f + w.f)
}

// Sub returns v-w. The result is an Int only if both operands are.
func (v Value) Sub(w Value) Value {
	if v.kind == Int && w.kind == Int {
		return IntValue(v.i - w.i)
	}
	return FloatValue(v.f - w.f)
}

// Div returns v/d as a Float.
func (v Value) Div(d float64) Value {
	return FloatValue(v.f / d)
}

// Mean returns the arithmetic mean of v and w. The mean of two Ints
// is an Int when it is a whole number and a Float otherwise.
func Mean(v, w Value) Value {
	if v.kind == Int && w.kind == Int {
		if (v.i%2 == 0) == (w.i%2 == 0) {
			// Same parity, so the sum is even. Halve each
			// term separately to stay clear of overflow.
			return IntValue(v.i/2 + w.i/2 + (v.i%2+w.i%2)/2)
		}
		return FloatValue(v.f/2 + w.f/2)
	}
	return FloatValue((v.f + w.f) / 2)
}

// Compare returns -1, 0, or +1 depending on whether v is less than,
// equal to, or greater than w. NaN sorts before every other value and
// equal to itself, so Compare is a total order.
func Compare(v, w Value) int {
	if v.kind == Int && w.kind == Int {
		switch {
		case v.i < w.i:
			return -1
		case v.i > w.i:
			return 1
		}
		return 0
	}
	vNaN, wNaN := math.IsNaN(v.f), math.IsNaN(w.f)
	switch {
	case vNaN && wNaN:
		return 0
	case vNaN:
		return -1
	case wNaN:
		return 1
	case v.f < w.f:
		return -1
	case v.f > w.f:
		return 1
	}
	return 0
}

// Less reports whether v < w.
func (v Value) Less(w Value) bool {
	return Compare(v, w) < 0
}

// String formats v. Ints are printed in decimal. Floats are printed
// with 12 significant digits and always carry a decimal point, so a
// Float reads back through Parse as a Float.
func (v Value) String() string {
	return v.format(12)
}

// MarshalText formats v like String but with as many digits as are
// needed to reproduce v exactly.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.format(-1)), nil
}

// UnmarshalText parses text with Parse, also accepting the non-finite
// forms written by MarshalText.
func (v *Value) UnmarshalText(text []byte) error {
	parse := Parse
	if isNonFinite(string(text)) {
		parse = ParseFloat
	}
	x, err := parse(string(text))
	if err != nil {
		return err
	}
	*v = x
	return nil
}

func (v Value) format(prec int) string {
	if v.kind == Int {
		return strconv.FormatInt(v.i, 10)
	}
	switch {
	case math.IsNaN(v.f):
		return "nan"
	case math.IsInf(v.f, 1):
		return "inf"
	case math.IsInf(v.f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v.f, 'g', prec, 64)
	if strings.IndexByte(s, '.') >= 0 {
		return s
	}
	if e := strings.IndexByte(s, 'e'); e >= 0 {
		return s[:e] + ".0" + s[e:]
	}
	return s + ".0"
}
