package utils

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// GenerationRecord is one CSV row of per-generation statistics
type GenerationRecord struct {
	Generation           int     `csv:"generation"`
	Population           int     `csv:"population"`
	Density              float64 `csv:"density"`
	GenerationsPerSecond float64 `csv:"gens_per_sec"`
	AveragePopulation    float64 `csv:"avg_population"`
	MemoryUsage          uint64  `csv:"rss_bytes"`
	Stagnant             bool    `csv:"stagnant"`
}

// StatsWriter appends GenerationRecords to a CSV stream, writing the header once
type StatsWriter struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewStatsWriter creates path and returns a writer for it. An empty path disables output.
func NewStatsWriter(path string) (*StatsWriter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewStatsWriter] failed to create file: %+v", path)
	}
	return &StatsWriter{out: f, closer: f}, nil
}

// Write appends a record. A nil writer discards it.
func (w *StatsWriter) Write(rec GenerationRecord) error {
	if w == nil {
		return nil
	}

	records := []GenerationRecord{rec}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return errors.Wrap(err, "[Write] failed to write stats")
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return errors.Wrap(err, "[Write] failed to write stats")
	}
	return nil
}

// Close closes the underlying file
func (w *StatsWriter) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
