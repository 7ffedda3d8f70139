package basis

import (
	"strings"
)

// Kind selects a polynomial family.
type Kind uint8

const (
	// Legendre polynomials, orthonormal under the uniform measure.
	Legendre Kind = iota + 1
	// Hermite polynomials, orthonormal under the normal measure.
	Hermite
	// Laguerre polynomials, orthonormal under the gamma measure.
	Laguerre
	// Jacobi polynomials, orthonormal under the beta measure.
	Jacobi
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Legendre:
		return "legendre"
	case Hermite:
		return "hermite"
	case Laguerre:
		return "laguerre"
	case Jacobi:
		return "jacobi"
	default:
		return "unknown"
	}
}

// ParseKind parses a family selector. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legendre":
		return Legendre, nil
	case "hermite":
		return Hermite, nil
	case "laguerre":
		return Laguerre, nil
	case "jacobi":
		return Jacobi, nil
	default:
		return 0, invalidf("unknown family %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < Legendre || k > Jacobi {
		return nil, invalidf("unknown family %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
