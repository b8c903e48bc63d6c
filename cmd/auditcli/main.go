// Command auditcli audits a single website and prints the scored summary.
// Usage: auditcli -target example.com [-o report.json] [-format json|pdf]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/raysh454/siteaudit/internal/cli"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "auditcli: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "auditcli: %v\n", err)
		os.Exit(1)
	}
}
