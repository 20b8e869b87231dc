// Package main provides a CLI for applying a banner purchase to a farm.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	applycmd "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/cmd/apply"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/config"
)

func main() {
	cfg, err := applycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[APPLY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := applycmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("apply action: %v", err)
	}
}
