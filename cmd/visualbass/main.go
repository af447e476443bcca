package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appl := &cli.Command{
		Name:   "visualbass",
		Usage:  "Audio reactive LIFX light and terminal visualizer",
		Flags:  runFlags(),
		Action: runAction,
		Commands: []*cli.Command{
			runCommand(),
			devicesCommand(),
			discoverCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
