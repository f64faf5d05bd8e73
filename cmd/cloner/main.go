// Cloner is the command line front end of the website cloning service.
//
// Usage:
//
//	cloner [command] [flags]
//
// Running without arguments opens the interactive terminal UI. Settings can
// also come from CLONER_BACKEND, CLONER_TIMEOUT and CLONER_LOG_LEVEL.
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

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
