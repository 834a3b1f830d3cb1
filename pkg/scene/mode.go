package scene

import (
	"fmt"
	"strings"
)

// AutoNodeAttributeMode selects how node flags are inferred on export.
type AutoNodeAttributeMode uint8

const (
	AutoNone     AutoNodeAttributeMode = iota // keep flags as given
	AutoMissing                               // add inferable flags
	AutoOverride                              // replace inferable flags
)

// String returns the lowercase mode name.
func (m AutoNodeAttributeMode) String() string {
	switch m {
	case AutoMissing:
		return "missing"
	case AutoOverride:
		return "override"
	default:
		return "none"
	}
}

// ParseAutoNodeAttributeMode parses "none", "missing" or "override".
func ParseAutoNodeAttributeMode(s string) (AutoNodeAttributeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AutoNone, nil
	case "missing":
		return AutoMissing, nil
	case "override":
		return AutoOverride, nil
	}
	return AutoNone, fmt.Errorf("unknown auto node attribute mode %q", s)
}

// Apply runs the mode on n.
func (m AutoNodeAttributeMode) Apply(n *Node) {
	if m == AutoNone {
		return
	}
	n.AutoNodeAttributes(m == AutoOverride)
}

// MarshalText implements encoding.TextMarshaler.
func (m AutoNodeAttributeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AutoNodeAttributeMode) UnmarshalText(text []byte) error {
	v, err := ParseAutoNodeAttributeMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
