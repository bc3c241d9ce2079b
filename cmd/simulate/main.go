// Package main runs a Prisoner's Dilemma population simulation.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/config"
	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"

	simulatecmd "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/cmd/simulate"
)

func main() {
	cfg, err := simulatecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(2, "Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulatecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		if apperrors.IsInvalidInput(err) {
			config.ExitCodef(2, "Error: %v", err)
		}
		config.Exitf("Error: %v", err)
	}
}
