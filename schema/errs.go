package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrModule covers retrieval, grammar and resolution failures a caller
	// can act on: a bad module set.
	ErrModule = errors.New("module processing")
	// ErrInternal covers invariants that cannot fail if every prior pass
	// succeeded; hitting one means a compiler defect or a malformed module
	// that slipped through.
	ErrInternal = errors.New("internal")

	// the specific resolution failures below are all module errors
	ErrUnresolvedAugment = fmt.Errorf("%w: unresolved augment", ErrModule)
	ErrUnknownDeviate    = fmt.Errorf("%w: unknown deviate kind", ErrModule)
	ErrBadConfigArg      = fmt.Errorf("%w: invalid config argument", ErrModule)
	ErrUnknownTypedef    = fmt.Errorf("%w: unknown typedef", ErrModule)
	ErrGroupingCycle     = fmt.Errorf("%w: grouping cycle", ErrModule)
	ErrUnknownGrouping   = fmt.Errorf("%w: unknown grouping", ErrModule)
	ErrBadLeafref        = fmt.Errorf("%w: unresolvable leafref", ErrModule)
)

func moduleErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrModule, fmt.Sprintf(format, args...))
}

func internalErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}
