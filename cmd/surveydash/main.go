// Command surveydash fetches the raw survey exports, harmonises them into snapshots
// and prints chart data from the snapshots.
//
//	surveydash fetch --config surveydash.yaml
//	surveydash build --raw-dir data/raw --out-dir data/snapshots
//	surveydash report stacked protectops1 --where "country = 'Germany'"
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
		fmt.Fprintln(os.Stderr, "surveydash:", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}
