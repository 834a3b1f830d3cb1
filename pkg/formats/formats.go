// Package formats provides readers and writers for the level and model
// container files.
//
// Both containers share one layout style: a 4-byte magic, a version byte,
// little-endian scalars and null-terminated Shift-JIS labels. Attaches are
// stored once in a table and referenced by index, so geometry that shares an
// attach in memory shares it again after reading.
package formats

import (
	"errors"
	"fmt"
	"strings"
)

// Container format errors.
var (
	ErrInvalidMagic        = errors.New("invalid container magic")
	ErrUnsupportedVersion  = errors.New("unsupported container version")
	ErrTruncatedData       = errors.New("truncated container data")
	ErrUnknownFormat       = errors.New("unknown model format")
	ErrInvalidAttachIndex  = errors.New("invalid attach index")
	ErrInvalidCount        = errors.New("invalid element count")
	ErrNodeDepthExceeded   = errors.New("node hierarchy too deep")
	ErrMissingLandTable    = errors.New("level has no land table")
	ErrEmptyModelHierarchy = errors.New("model has no root nodes")
	ErrMissingModelNode    = errors.New("entry has no model node")
)

// ModelFormat is the target game format of a container.
type ModelFormat uint8

const (
	FormatSA1    ModelFormat = iota // generation-1
	FormatSADX                      // generation-1, later release
	FormatSA2                       // generation-2 standard
	FormatSA2B                      // generation-2 alternate platform
	FormatBuffer                    // raw buffer meshes
)

var formatNames = []string{"SA1", "SADX", "SA2", "SA2B", "Buffer"}

// String returns the format name.
func (f ModelFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Unknown(%d)", f)
}

// Valid reports whether f is a known format.
func (f ModelFormat) Valid() bool {
	return int(f) < len(formatNames)
}

// IsDual reports whether levels of this format store visual and collision
// geometry as separate attaches.
func (f ModelFormat) IsDual() bool {
	return f == FormatSA2 || f == FormatSA2B
}

// IsSingle reports whether levels of this format store one attach per entry.
func (f ModelFormat) IsSingle() bool {
	return f == FormatSA1 || f == FormatSADX || f == FormatBuffer
}

// ParseModelFormat parses a format name (case-insensitive).
func ParseModelFormat(s string) (ModelFormat, error) {
	for i, name := range formatNames {
		if strings.EqualFold(name, s) {
			return ModelFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f ModelFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ModelFormat) UnmarshalText(text []byte) error {
	v, err := ParseModelFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
