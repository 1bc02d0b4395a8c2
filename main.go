package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/torus-gol/utils"
)

func main() {
	configPath := flag.String("config", "config.json", "path to a JSON or YAML config file")
	overrides := bindOverrides(flag.CommandLine)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		log.Fatal("failed to load config", "path", *configPath, "err", err)
	}
	if missing {
		config = utils.DefaultConfig()
	}
	overrides.apply(flag.CommandLine, &config)

	if err := config.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	logger, err := utils.NewLogger(os.Stderr, config.LogLevel)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}
	if missing {
		logger.Info("using default configuration", "path", *configPath)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("run failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// cliOverrides holds flag values that replace file configuration when set
type cliOverrides struct {
	size        *int
	renderer    *string
	generations *int
	seed        *int64
	parallel    *bool
	workers     *int
	statsFile   *string
	snapshot    *string
	logLevel    *string
}

func bindOverrides(flags *flag.FlagSet) *cliOverrides {
	return &cliOverrides{
		size:        flags.Int("size", 0, "grid side length"),
		renderer:    flags.String("renderer", "", "terminal, ebiten or none"),
		generations: flags.Int("max-generations", 0, "stop after N generations (0 = unlimited)"),
		seed:        flags.Int64("seed", 0, "RNG seed (0 = time-based)"),
		parallel:    flags.Bool("parallel", false, "advance rows on a worker pool"),
		workers:     flags.Int("workers", 0, "parallel workers (0 = one per CPU)"),
		statsFile:   flags.String("stats-file", "", "CSV file for per-generation stats"),
		snapshot:    flags.String("snapshot", "", "PNG file for the final generation"),
		logLevel:    flags.String("log-level", "", "debug, info, warn or error"),
	}
}

// apply copies the flags given on the command line into c, unset flags leave c alone
func (o *cliOverrides) apply(flags *flag.FlagSet, c *utils.Config) {
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			c.Size = *o.size
		case "renderer":
			c.Renderer = *o.renderer
		case "max-generations":
			c.MaxGenerations = *o.generations
		case "seed":
			c.Seed = *o.seed
		case "parallel":
			c.UseParallel = *o.parallel
		case "workers":
			c.Workers = *o.workers
		case "stats-file":
			c.StatsFile = *o.statsFile
		case "snapshot":
			c.SnapshotFile = *o.snapshot
		case "log-level":
			c.LogLevel = *o.logLevel
		}
	})
}
