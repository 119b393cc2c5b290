package nbt

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed = errors.New("nbt: malformed data")

	// ErrRootTag is a malformed-data case of its own so callers can tell a
	// non-compound root apart from a truncated or corrupt buffer.
	ErrRootTag = fmt.Errorf("%w: root tag is not a compound", ErrMalformed)

	ErrUnknownJSON = errors.New("nbt: value kind has no JSON rendering")
)
