package arena

import (
	"errors"
)

var (
	// ErrCodec covers any malformed or truncated encoded schema. Callers
	// treat it as "no usable schema", never as fatal.
	ErrCodec = errors.New("schema codec")
	// ErrUnencodable marks placeholder types that must not survive
	// resolution; encoding one is a compiler defect.
	ErrUnencodable = errors.New("unencodable type")
)
