package types

import (
	"fmt"
	"strings"
)

// Type identifies an evaluation engine.
type Type string

const (
	Native    Type = "native"
	Starlark  Type = "starlark"
	Govaluate Type = "govaluate"
	Risor     Type = "risor"
)

// Parse returns the engine type for a case-insensitive name.
func Parse(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Native:
		return Native, nil
	case Starlark:
		return Starlark, nil
	case Govaluate:
		return Govaluate, nil
	case Risor:
		return Risor, nil
	default:
		return "", fmt.Errorf("unknown engine type %q", s)
	}
}
