// Command gpcgo benchmarks the polynomial chaos kernels and plots basis
// families.
//
//	gpcgo bench --dims 3 --order 6 --samples 100000 --gradient
//	gpcgo plot --family hermite --max-degree 5 --out hermite.html
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
