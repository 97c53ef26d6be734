// Package ytype implements the closed set of YANG type variants. Every
// variant can encode a native value to wire text, decode wire text to a
// native value, and check whether a native value fits.
package ytype

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
)

// Type is one resolved (or to-be-resolved) YANG type.
type Type interface {
	// WireName is the canonical type name on the wire.
	WireName() string
	// ToString encodes a native value as wire text.
	ToString(v any) (string, error)
	// ToValue decodes wire text into a native value.
	ToValue(s string) (any, error)
	// CheckValue reports whether a native value fits the type.
	CheckValue(v any) bool
}

// Int covers the eight YANG integer builtins.
type Int struct {
	Bits   uint
	Signed bool
	Ranges RangeSet
}

func (t Int) WireName() string {
	if t.Signed {
		return fmt.Sprintf("int%d", t.Bits)
	}
	return fmt.Sprintf("uint%d", t.Bits)
}

// Bounds returns the type's true numeric extremes, ignoring any range
// restriction.
func (t Int) Bounds() (lo, hi *big.Rat) {
	if t.Signed {
		l := new(big.Int).Lsh(big.NewInt(1), t.Bits-1)
		return new(big.Rat).SetInt(new(big.Int).Neg(l)),
			new(big.Rat).SetInt(new(big.Int).Sub(l, big.NewInt(1)))
	}
	h := new(big.Int).Lsh(big.NewInt(1), t.Bits)
	return new(big.Rat), new(big.Rat).SetInt(new(big.Int).Sub(h, big.NewInt(1)))
}

func (t Int) rat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int8:
		return new(big.Rat).SetInt64(int64(x)), true
	case int16:
		return new(big.Rat).SetInt64(int64(x)), true
	case int32:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case uint8:
		return new(big.Rat).SetInt64(int64(x)), true
	case uint16:
		return new(big.Rat).SetInt64(int64(x)), true
	case uint32:
		return new(big.Rat).SetInt64(int64(x)), true
	case uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(x)), true
	case uint:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(uint64(x))), true
	}
	return nil, false
}

func (t Int) ToString(v any) (string, error) {
	// historical representations allow booleans on integral leafs
	if b, ok := v.(bool); ok {
		if b {
			return "1", nil
		}
		return "0", nil
	}
	r, ok := t.rat(v)
	if !ok || !t.CheckValue(v) {
		return "", BadValueErr(t.WireName(), v)
	}
	return r.Num().String(), nil
}

func (t Int) ToValue(s string) (any, error) {
	if t.Signed {
		n, err := strconv.ParseInt(s, 10, int(t.Bits))
		if err != nil {
			return nil, BadValueErr(t.WireName(), s)
		}
		if !t.Ranges.Contains(new(big.Rat).SetInt64(n)) {
			return nil, BadValueErr(t.WireName(), s)
		}
		return n, nil
	}
	n, err := strconv.ParseUint(s, 10, int(t.Bits))
	if err != nil {
		return nil, BadValueErr(t.WireName(), s)
	}
	if !t.Ranges.Contains(new(big.Rat).SetInt(new(big.Int).SetUint64(n))) {
		return nil, BadValueErr(t.WireName(), s)
	}
	return n, nil
}

func (t Int) CheckValue(v any) bool {
	r, ok := t.rat(v)
	if !ok {
		return false
	}
	lo, hi := t.Bounds()
	if r.Cmp(lo) < 0 || r.Cmp(hi) > 0 {
		return false
	}
	return t.Ranges.Contains(r)
}

// Str is the YANG string builtin, optionally length-restricted.
type Str struct {
	Lengths RangeSet
}

func (t Str) WireName() string { return "string" }

func (t Str) ToString(v any) (string, error) {
	s, ok := v.(string)
	if !ok || !t.CheckValue(v) {
		return "", BadValueErr(t.WireName(), v)
	}
	return s, nil
}

func (t Str) ToValue(s string) (any, error) {
	if !t.CheckValue(s) {
		return nil, BadValueErr(t.WireName(), s)
	}
	return s, nil
}

func (t Str) CheckValue(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return t.Lengths.Contains(new(big.Rat).SetInt64(int64(len(s))))
}

// Bool is the YANG boolean builtin.
type Bool struct{}

func (Bool) WireName() string { return "boolean" }

func (Bool) ToString(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x), nil
	case int: // historical 0/1 coercion
		switch x {
		case 0:
			return "false", nil
		case 1:
			return "true", nil
		}
	case string:
		if x == "true" || x == "false" {
			return x, nil
		}
	}
	return "", BadValueErr("boolean", v)
}

func (Bool) ToValue(s string) (any, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, BadValueErr("boolean", s)
}

func (Bool) CheckValue(v any) bool {
	_, ok := v.(bool)
	return ok
}

// Empty is the YANG empty builtin; its only value is presence itself.
type Empty struct{}

func (Empty) WireName() string { return "empty" }

func (Empty) ToString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	return "", BadValueErr("empty", v)
}

func (Empty) ToValue(s string) (any, error) {
	if s != "" {
		return nil, BadValueErr("empty", s)
	}
	return nil, nil
}

func (Empty) CheckValue(v any) bool { return v == nil }

// Binary is the YANG binary builtin; wire text is base64.
type Binary struct {
	Lengths RangeSet
}

func (t Binary) WireName() string { return "binary" }

func (t Binary) ToString(v any) (string, error) {
	b, ok := v.([]byte)
	if !ok || !t.CheckValue(v) {
		return "", BadValueErr("binary", v)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (t Binary) ToValue(s string) (any, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !t.CheckValue(b) {
		return nil, BadValueErr("binary", s)
	}
	return b, nil
}

func (t Binary) CheckValue(v any) bool {
	b, ok := v.([]byte)
	if !ok {
		return false
	}
	return t.Lengths.Contains(new(big.Rat).SetInt64(int64(len(b))))
}

// Decimal64 is the YANG decimal64 builtin. Its extremes derive from the
// 64-bit scaled representation and the fraction-digit count.
type Decimal64 struct {
	FractionDigits uint
	Ranges         RangeSet
}

func (t Decimal64) WireName() string { return "decimal64" }

func (t Decimal64) scale() *big.Rat {
	s := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.FractionDigits)), nil)
	return new(big.Rat).SetInt(s)
}

// Bounds returns the representable extremes for the fraction-digit count.
func (t Decimal64) Bounds() (lo, hi *big.Rat) {
	sc := t.scale()
	lo = new(big.Rat).SetInt64(-1 << 63)
	hi = new(big.Rat).SetInt(new(big.Int).SetUint64(1<<63 - 1))
	return lo.Quo(lo, sc), hi.Quo(hi, sc)
}

// Step is the smallest representable increment.
func (t Decimal64) Step() *big.Rat {
	return new(big.Rat).Inv(t.scale())
}

func (t Decimal64) rat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case float64:
		return new(big.Rat).SetFloat64(x), true
	case float32:
		return new(big.Rat).SetFloat64(float64(x)), true
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case *big.Rat:
		return x, true
	}
	return nil, false
}

func (t Decimal64) ToString(v any) (string, error) {
	r, ok := t.rat(v)
	if !ok || !t.CheckValue(v) {
		return "", BadValueErr("decimal64", v)
	}
	return r.FloatString(int(t.FractionDigits)), nil
}

func (t Decimal64) ToValue(s string) (any, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || !t.CheckValue(r) {
		return nil, BadValueErr("decimal64", s)
	}
	return r, nil
}

func (t Decimal64) CheckValue(v any) bool {
	r, ok := t.rat(v)
	if !ok {
		return false
	}
	lo, hi := t.Bounds()
	if r.Cmp(lo) < 0 || r.Cmp(hi) > 0 {
		return false
	}
	return t.Ranges.Contains(r)
}
