package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/torus-gol/model"
	"github.com/sheikhrachel/torus-gol/render"
	"github.com/sheikhrachel/torus-gol/universe"
	"github.com/sheikhrachel/torus-gol/utils"
)

const memorySampleInterval = 60

// errFinished stops the frame loop once max_generations is reached
var errFinished = errors.New("reached maximum generations")

// session owns one run: the universe, its canvas and the bookkeeping around it
type session struct {
	config   utils.Config
	logger   *log.Logger
	canvas   render.Canvas
	universe *universe.Universe
	pool     *model.CellPool
	rng      model.RandomSource
	terminal *render.TerminalRenderer
	stats    *utils.Stats
	statsOut *utils.StatsWriter
	// window is set when the canvas is shown every frame, other canvases are drawn on demand
	window bool

	generation     int
	lastRestartGen int
	stagnantCount  int
	lastFrameTime  time.Time
	status         string
}

// newCanvas picks the drawing surface for the configured renderer
func newCanvas(config utils.Config) (render.Canvas, error) {
	if config.Renderer == utils.RendererEbiten {
		return render.NewWindowCanvas()
	}
	return render.NewImageCanvas(), nil
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, logger *log.Logger, canvas render.Canvas) (*session, error) {
	s := &session{
		config:        config,
		logger:        logger,
		canvas:        canvas,
		rng:           model.NewRandomSource(config.Seed),
		stats:         utils.NewStats(),
		lastFrameTime: time.Now(),
		status:        "Active",
		window:        config.Renderer == utils.RendererEbiten,
	}
	if config.UseMemoryPool {
		s.pool = model.NewCellPool()
	}
	if config.Renderer == utils.RendererTerminal {
		s.terminal = render.NewTerminalRenderer(nil)
	}

	statsOut, err := utils.NewStatsWriter(config.StatsFile)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] stats output")
	}
	s.statsOut = statsOut

	if err := s.reseed(); err != nil {
		s.statsOut.Close()
		return nil, err
	}
	return s, nil
}

// reseed replaces the universe with a freshly randomized grid
func (s *session) reseed() error {
	grid, err := model.NewGridWithSource(s.config.Size, s.rng)
	if err != nil {
		return errors.Wrap(err, "[reseed] failed to create grid")
	}
	if s.pool != nil {
		grid.UsePool(s.pool)
	}
	u, err := universe.NewWithGrid(grid, s.canvas, s.config.Render)
	if err != nil {
		return errors.Wrap(err, "[reseed] failed to create universe")
	}
	s.universe = u
	s.stagnantCount = 0
	return nil
}

// displayGameInfo logs the initial game information
func (s *session) displayGameInfo() {
	grid := s.universe.Grid()
	side := render.CanvasSize(grid.Size(), s.config.Render.CellSize)
	s.logger.Info("starting simulation",
		"grid", grid.Size(),
		"canvas", side,
		"living", grid.CountLivingCells(),
		"renderer", s.config.Renderer,
		"parallel", s.config.UseParallel,
		"memory_pool", s.config.UseMemoryPool,
	)
}

// Step records the current generation and advances to the next one
func (s *session) Step() error {
	if err := s.updateGameState(); err != nil {
		return err
	}

	// Check for max generations limit
	if s.config.MaxGenerations > 0 && s.generation >= s.config.MaxGenerations {
		return errFinished
	}

	// Check restart conditions
	if restart, reason := s.checkRestartConditions(); restart && s.config.AutoRestart {
		s.logger.Info("restarting", "reason", reason, "generation", s.generation)
		if err := s.reseed(); err != nil {
			return err
		}
		// the fresh grid is recorded and drawn as generation 0 on the next frame
		s.generation++
		s.lastRestartGen = s.generation
		return nil
	}

	if s.config.UseParallel {
		if err := s.universe.TickParallel(s.config.Workers); err != nil {
			return errors.Wrap(err, "[Step] parallel tick")
		}
	} else {
		s.universe.Tick()
	}
	s.generation++
	return nil
}

// updateGameState refreshes stats, history and stagnation for the current generation
func (s *session) updateGameState() error {
	grid := s.universe.Grid()
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(grid.Width()*grid.Height())

	// Update performance stats
	now := time.Now()
	s.stats.Update(s.generation, livingCells, now.Sub(s.lastFrameTime))
	s.lastFrameTime = now
	if s.generation%memorySampleInterval == 0 {
		if err := s.stats.SampleMemory(); err != nil {
			s.logger.Debug("memory sample failed", "err", err)
		}
	}

	// Update history for stagnation detection
	grid.UpdateHistory()
	isStagnant := grid.IsStagnant()
	if isStagnant {
		s.stagnantCount++
	} else {
		s.stagnantCount = 0
	}

	s.status = "Active"
	if isStagnant {
		s.status = "Stagnant"
	}
	if livingCells == 0 {
		s.status = "Extinct"
	}

	return s.statsOut.Write(utils.GenerationRecord{
		Generation:           s.generation,
		Population:           livingCells,
		Density:              density,
		GenerationsPerSecond: s.stats.GenerationsPerSecond,
		AveragePopulation:    s.stats.AveragePopulation,
		MemoryUsage:          s.stats.MemoryUsage,
		Stagnant:             isStagnant,
	})
}

// checkRestartConditions determines if the game should restart
func (s *session) checkRestartConditions() (bool, string) {
	if s.stats.ActiveCells == 0 {
		return true, "extinction"
	}
	if s.config.StagnationThreshold > 0 && s.stagnantCount >= s.config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if s.config.RefreshInterval > 0 {
		since := s.generation - s.lastRestartGen
		if since > 0 && since%s.config.RefreshInterval == 0 {
			return true, "periodic refresh"
		}
	}
	return false, ""
}

// Render draws the current generation on a window canvas and, in terminal mode, on stdout.
// In-memory canvases are only drawn by finish when a snapshot is wanted.
func (s *session) Render() {
	if s.window {
		s.universe.Render()
	}
	if s.terminal == nil {
		return
	}

	s.terminal.Clear()
	grid := s.universe.Grid()
	s.logger.Info("generation",
		"gen", s.generation,
		"living", s.stats.ActiveCells,
		"status", s.status,
		"gen_per_sec", s.stats.GenerationsPerSecond,
		"since_restart", s.generation-s.lastRestartGen,
	)
	if err := s.terminal.Display(grid); err != nil {
		s.logger.Warn("terminal display failed", "err", err)
	}
}

// runLoop paces Step and Render by the configured frame rate until ctx is done
func (s *session) runLoop(ctx context.Context) error {
	var tick <-chan time.Time
	if s.config.FrameRate > 0 {
		ticker := time.NewTicker(s.config.FrameRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.Render()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down gracefully")
			return nil
		default:
			// Continue with game loop
		}

		if err := s.Step(); err != nil {
			return err
		}
		s.Render()

		if tick != nil {
			select {
			case <-ctx.Done():
				s.logger.Info("shutting down gracefully")
				return nil
			case <-tick:
			}
		}
	}
}

// finish writes the snapshot, logs the run summary and closes outputs
func (s *session) finish() error {
	var err error
	if s.config.SnapshotFile != "" {
		if img, ok := s.canvas.(*render.ImageCanvas); ok {
			s.universe.Render()
			if err = img.SavePNG(s.config.SnapshotFile); err == nil {
				s.logger.Info("snapshot saved", "path", s.config.SnapshotFile)
			}
		} else {
			s.logger.Warn("snapshots need an in-memory canvas", "renderer", s.config.Renderer)
		}
	}

	summary := s.stats.Summary()
	s.logger.Info("final stats",
		"generations", summary.Generations,
		"runtime", summary.Runtime.Round(time.Millisecond),
		"mean_population", summary.MeanPop,
		"stddev_population", summary.StdDevPop,
		"min_population", summary.MinPop,
		"max_population", summary.MaxPop,
		"rss_bytes", s.stats.MemoryUsage,
	)

	if cerr := s.statsOut.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "[finish] closing stats output")
	}
	return err
}

// run builds a session for config and drives it with the configured renderer
func run(ctx context.Context, config utils.Config, logger *log.Logger) error {
	canvas, err := newCanvas(config)
	if err != nil {
		return errors.Wrap(err, "[run] canvas")
	}
	s, err := initializeGame(config, logger, canvas)
	if err != nil {
		return err
	}
	s.displayGameInfo()

	if config.Renderer == utils.RendererEbiten {
		err = render.RunWindow(ctx, "torus-gol", config.TPS(), s, canvas)
	} else {
		err = s.runLoop(ctx)
	}
	if errors.Is(err, errFinished) {
		s.logger.Info("reached maximum generations limit", "max", config.MaxGenerations)
		err = nil
	}

	if ferr := s.finish(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
