// Package replay parses replay command flags and verifies a farm snapshot
// against its journal.
package replay

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/cmd"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/service"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage/sqlite"
)

// Config holds replay command configuration.
type Config struct {
	DBPath string `env:"HAYFORK_DB_PATH" envDefault:"hayfork.db"`
	FarmID string `env:"HAYFORK_FARM_ID"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the farm database")
	fs.StringVar(&cfg.FarmID, "farm", cfg.FarmID, "farm identifier")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run folds the farm's journal and compares the result against the stored
// snapshot. A divergence prints the derived state and returns a non-nil
// error.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.FarmID == "" {
		return fmt.Errorf("farm id is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReplay, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := service.New(store, store)
		derived, err := svc.Replay(ctx, cfg.FarmID)
		if err != nil {
			if encoded, encodeErr := json.MarshalIndent(derived, "", "  "); encodeErr == nil {
				fmt.Fprintf(out, "journal derives:\n%s\n", encoded)
			}
			return err
		}

		fmt.Fprintf(out, "farm %s snapshot matches its journal\n", cfg.FarmID)
		return nil
	})
}
