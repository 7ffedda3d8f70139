package kernel

import (
	"fmt"
	"os"
	"runtime"
	"testing"
)

// TestMain prints which accumulation variant the tests exercise.
func TestMain(m *testing.M) {
	fmt.Printf("=== Kernel Diagnostics ===\n")
	fmt.Printf("GOOS=%s GOARCH=%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("GPCGO_KERNEL=%q\n", os.Getenv("GPCGO_KERNEL"))
	fmt.Printf("Active variant: %s\n", ActiveVariant())
	fmt.Printf("Override: %v\n", IsOverridden())
	fmt.Printf("FMA: %v\n", HasFMA())
	fmt.Printf("==========================\n\n")

	os.Exit(m.Run())
}
