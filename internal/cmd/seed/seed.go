// Package seed parses seed command flags and creates a farm with a starting
// balance.
package seed

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/inventory"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	entrypoint "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/cmd"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/service"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath    string `env:"HAYFORK_DB_PATH" envDefault:"hayfork.db"`
	FarmID    string `env:"HAYFORK_FARM_ID"`
	Balance   string `env:"HAYFORK_SEED_BALANCE" envDefault:"100"`
	BumpkinID uint64 `env:"HAYFORK_SEED_BUMPKIN_ID" envDefault:"1"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the farm database")
	fs.StringVar(&cfg.FarmID, "farm", cfg.FarmID, "farm identifier")
	fs.StringVar(&cfg.Balance, "balance", cfg.Balance, "starting Block Buck balance")
	fs.Uint64Var(&cfg.BumpkinID, "bumpkin", cfg.BumpkinID, "bumpkin identifier (0 for none)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run creates the farm and prints its starting record.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.FarmID == "" {
		return fmt.Errorf("farm id is required")
	}
	balance, err := decimal.NewFromString(cfg.Balance)
	if err != nil {
		return fmt.Errorf("parse balance %q: %w", cfg.Balance, err)
	}
	if balance.IsNegative() {
		return fmt.Errorf("balance must not be negative")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		seed := state.GameState{
			Inventory: inventory.Inventory{inventory.BlockBuck: balance},
		}
		if cfg.BumpkinID != 0 {
			seed.Bumpkin = &state.Bumpkin{ID: cfg.BumpkinID}
		}

		svc := service.New(store, store)
		record, err := svc.CreateFarm(ctx, cfg.FarmID, seed)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(record.State, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created farm %s at version %d\n%s\n", record.ID, record.Version, encoded)
		return nil
	})
}
