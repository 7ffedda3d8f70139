package kernel

import (
	"os"
	"runtime"
	"strings"
)

// Variant identifies an accumulation implementation.
type Variant uint8

const (
	// Generic splits operands (Veltkamp) to form exact products.
	Generic Variant = iota
	// FMA forms exact products with fused multiply-add.
	FMA
)

// String returns the string representation of a Variant.
func (v Variant) String() string {
	switch v {
	case Generic:
		return "generic"
	case FMA:
		return "fma"
	default:
		return "unknown"
	}
}

// ParseVariant parses a string into a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "fma":
		return FMA, true
	default:
		return Generic, false
	}
}

// Package-level state, written once by the platform init.
var (
	activeVariant Variant

	// hasOverride is true if GPCGO_KERNEL was set to a usable variant.
	hasOverride bool

	// hasFMA is set by platform-specific init.
	hasFMA bool
)

// initCapabilities is called from platform-specific init functions after
// CPU features are detected.
func initCapabilities() {
	activeVariant = selectVariant()
	if override := os.Getenv("GPCGO_KERNEL"); override != "" {
		if v, ok := ParseVariant(override); ok && isVariantAvailable(v) {
			hasOverride = true
			activeVariant = v
		}
	}
	useVariant(activeVariant)
}

func isVariantAvailable(v Variant) bool {
	switch v {
	case Generic:
		return true
	case FMA:
		return hasFMA
	default:
		return false
	}
}

func selectVariant() Variant {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		if hasFMA {
			return FMA
		}
	}
	return Generic
}

// ActiveVariant returns the accumulation variant in use.
func ActiveVariant() Variant {
	return activeVariant
}

// IsOverridden returns true if GPCGO_KERNEL selected the variant.
func IsOverridden() bool {
	return hasOverride
}

// HasFMA returns true if the CPU has fused multiply-add.
func HasFMA() bool {
	return hasFMA
}
