package utils

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
	"gonum.org/v1/gonum/stat"
)

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	MemoryUsage          uint64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int

	populations []float64
	proc        *process.Process
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	s.populations = append(s.populations, float64(population))
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// SampleMemory refreshes MemoryUsage with the resident set size of this process
func (s *Stats) SampleMemory() error {
	if s.proc == nil {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return errors.Wrap(err, "[SampleMemory] failed to open own process")
		}
		s.proc = p
	}
	info, err := s.proc.MemoryInfo()
	if err != nil {
		return errors.Wrap(err, "[SampleMemory] failed to read memory info")
	}
	s.MemoryUsage = info.RSS
	return nil
}

// Summary describes the population over the whole run
type Summary struct {
	Generations int
	Runtime     time.Duration
	MeanPop     float64
	StdDevPop   float64
	MinPop      float64
	MaxPop      float64
}

// Summary computes population statistics over every recorded generation
func (s *Stats) Summary() Summary {
	sum := Summary{
		Generations: s.TotalGenerations,
		Runtime:     time.Since(s.StartTime),
	}
	if len(s.populations) == 0 {
		return sum
	}

	sum.MeanPop, sum.StdDevPop = stat.MeanStdDev(s.populations, nil)
	if math.IsNaN(sum.StdDevPop) {
		sum.StdDevPop = 0
	}
	sum.MinPop, sum.MaxPop = s.populations[0], s.populations[0]
	for _, p := range s.populations[1:] {
		sum.MinPop = math.Min(sum.MinPop, p)
		sum.MaxPop = math.Max(sum.MaxPop, p)
	}
	return sum
}
