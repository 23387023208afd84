// Command exprc parses expressions and prints, checks or fingerprints their
// syntax trees.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	g := &globalFlags{}
	err := newRootCmd(g).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			FormatError(os.Stderr, err, g.errorColor(os.Stderr))
		}
		os.Exit(1)
	}
}
