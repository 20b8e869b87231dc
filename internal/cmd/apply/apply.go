// Package apply parses apply command flags and dispatches a banner purchase
// against a stored farm.
package apply

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/banner"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/season"
	entrypoint "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/cmd"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/service"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage/sqlite"
)

// Config holds apply command configuration.
type Config struct {
	DBPath string `env:"HAYFORK_DB_PATH" envDefault:"hayfork.db"`
	FarmID string `env:"HAYFORK_FARM_ID"`
	Banner string `env:"HAYFORK_BANNER"`
	At     string `env:"HAYFORK_AT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the farm database")
	fs.StringVar(&cfg.FarmID, "farm", cfg.FarmID, "farm identifier")
	fs.StringVar(&cfg.Banner, "banner", cfg.Banner, "banner to purchase, e.g. \"Spring Banner\"")
	fs.StringVar(&cfg.At, "at", cfg.At, "RFC3339 evaluation instant (default: now)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run dispatches the purchase and prints the resulting state. A rejection is
// reported with its machine code and a non-nil error so the process exits
// non-zero.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.FarmID == "" {
		return fmt.Errorf("farm id is required")
	}
	if cfg.Banner == "" {
		return fmt.Errorf("banner name is required")
	}

	var opts []service.Option
	if cfg.At != "" {
		at, err := time.Parse(time.RFC3339, cfg.At)
		if err != nil {
			return fmt.Errorf("parse instant %q: %w", cfg.At, err)
		}
		opts = append(opts, service.WithClock(func() time.Time { return at }))
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceApply, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := service.New(store, store, opts...)
		record, err := svc.Dispatch(ctx, cfg.FarmID, banner.PurchaseAction{Name: season.Banner(cfg.Banner)})
		if err != nil {
			if apperrors.IsRejection(err) {
				fmt.Fprintf(out, "rejected: %s\n", apperrors.GetCode(err))
			}
			return err
		}

		encoded, err := json.MarshalIndent(record.State, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "farm %s now at version %d\n%s\n", record.ID, record.Version, encoded)
		return nil
	})
}
