package mesh

import (
	"fmt"
	"strings"
)

// Family is the low-level attach encoding a mesh is converted into.
type Family uint8

const (
	FamilyBasic  Family = iota // generation-1 mesh, also used for collision
	FamilyChunk                // generation-2 chunk mesh
	FamilyGC                   // generation-2 alternate platform mesh
	FamilyBuffer               // raw vertex/corner buffer
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyBasic:
		return "BASIC"
	case FamilyChunk:
		return "CHUNK"
	case FamilyGC:
		return "GC"
	case FamilyBuffer:
		return "BUFFER"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	return f <= FamilyBuffer
}

// ParseFamily parses a family name (case-insensitive).
func ParseFamily(s string) (Family, error) {
	switch strings.ToUpper(s) {
	case "BASIC":
		return FamilyBasic, nil
	case "CHUNK":
		return FamilyChunk, nil
	case "GC":
		return FamilyGC, nil
	case "BUFFER":
		return FamilyBuffer, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// KeepsWeights reports whether the family stores per-vertex skin weights.
func (f Family) KeepsWeights() bool {
	return f == FamilyChunk || f == FamilyBuffer
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	v, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
