// Command gradreg fits a linear regression to a CSV file by batch gradient
// descent and reports the cost history.
//
// Usage:
//
//	gradreg -data ex1data2.txt -alpha 0.01 -iters 400 -png cost.png -html cost.html -model model.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cfg.Profile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile), profile.Quiet).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Error("gradreg failed", err)
		return 1
	}
	return 0
}
