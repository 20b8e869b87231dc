// Package main provides a CLI for verifying a farm snapshot against its
// journal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	replaycmd "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/cmd/replay"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/config"
)

func main() {
	cfg, err := replaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[REPLAY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := replaycmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("replay farm: %v", err)
	}
}
