package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tokenize-x/fanledger/cmd/fanledger-sim/simcmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := simcmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		//nolint:errcheck // we are already exiting the app so we don't check error.
		fmt.Fprintln(rootCmd.OutOrStderr(), err)
		cancel()
		os.Exit(1)
	}
}
