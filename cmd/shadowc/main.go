// Command shadowc loads Shadow type declarations, runs type and TAC
// conformance scenarios, and inspects the interface cache.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shadow-language/shadowc/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
