// spectro-connect - interactive SSH/Telnet sessions to Spectrum-managed
// devices, relayed through a SpectroServer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnrdowson/spectro-connect/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "spectro-connect: %v\n", err)
		os.Exit(1)
	}
}
