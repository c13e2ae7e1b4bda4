package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/lovehate/config"
)

// csvStream appends gocsv records to one file, header first.
type csvStream struct {
	f      *os.File
	header bool
}

func openStream(dir, name string) (*csvStream, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream{f: f}, nil
}

// append marshals records, a slice of csv-tagged structs.
func (s *csvStream) append(records any) error {
	if s.header {
		return gocsv.MarshalWithoutHeaders(records, s.f)
	}
	if err := gocsv.Marshal(records, s.f); err != nil {
		return err
	}
	s.header = true
	return nil
}

// OutputManager writes a run's telemetry.csv, perf.csv and config.yaml.
// A nil manager discards everything, so callers need no output checks.
type OutputManager struct {
	dir       string
	telemetry *csvStream
	perf      *csvStream
}

// NewOutputManager creates dir and opens the CSV files in it. An empty
// dir disables output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tel, err := openStream(dir, "telemetry.csv")
	if err != nil {
		return nil, err
	}
	perf, err := openStream(dir, "perf.csv")
	if err != nil {
		tel.f.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: tel, perf: perf}, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends one window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends one perf window, tagged with its end tick, to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory, empty when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files. Calling it again is a no-op.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, s := range []*csvStream{om.telemetry, om.perf} {
		if s == nil || s.f == nil {
			continue
		}
		errs = append(errs, s.f.Close())
		s.f = nil
	}
	return errors.Join(errs...)
}
