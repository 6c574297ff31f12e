// Package main implements storekeeper, the operator CLI. It runs the
// competitor comparison in-process against the configured warehouse and
// prints the result as a table.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(defaultEnvironment()).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
