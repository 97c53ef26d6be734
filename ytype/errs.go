package ytype

import (
	"errors"
	"fmt"
)

var (
	ErrBadRange      = errors.New("bad range")
	ErrBadValue      = errors.New("bad value")
	ErrUnresolved    = errors.New("unresolved type")
	ErrInternal      = errors.New("internal type error")
	ErrEnumMember    = errors.New("unknown enum member")
	ErrBitMember     = errors.New("unknown bit member")
	ErrFractionRange = errors.New("fraction-digits out of range")
)

// BadValueErr reports a wire value that does not fit a type.
func BadValueErr(wire string, v any) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrBadValue, v, wire)
}
