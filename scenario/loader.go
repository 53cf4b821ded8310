package scenario

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/logging"
)

const (
	indexFile   = "scenario_index.csv"
	triggerFile = "trigger_event.csv"
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Logger logging.Logger
}

// Loader reads scenarios from a data directory laid out as
// <dataDir>/scenario_index.csv and <dataDir>/<scenario dir>/*.csv.
type Loader struct {
	dataDir string
	logger  logging.Logger
}

// NewLoader creates a loader over dataDir.
func NewLoader(dataDir string, optFns ...func(o *LoaderOptions)) *Loader {
	opts := LoaderOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loader{dataDir: dataDir, logger: logging.OrNoOp(opts.Logger)}
}

// DataDir returns the root data directory.
func (l *Loader) DataDir() string { return l.dataDir }

// Path returns the directory of scenario id.
func (l *Loader) Path(id int) (string, error) {
	dir, err := DirFor(id)
	if err != nil {
		return "", err
	}

	return filepath.Join(l.dataDir, dir), nil
}

// Index reads scenario_index.csv. Rows with an unknown id are skipped.
func (l *Loader) Index() ([]Info, error) {
	tbl, err := l.load(filepath.Join(l.dataDir, indexFile))
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, tbl.Len())

	for _, r := range tbl.Rows() {
		id, ok := r.Int("scenario_id")
		if !ok {
			continue
		}

		dir, err := DirFor(int(id))
		if err != nil {
			l.logger.Warn("scenario.index.unknown_id", "scenario_id", id)
			continue
		}

		infos = append(infos, Info{
			ID:            int(id),
			Dir:           dir,
			Name:          r.StringOr("scenario_name", "Unknown"),
			Complexity:    r.StringOr("complexity", "N/A"),
			Severity:      r.StringOr("severity", "N/A"),
			PrimaryAgents: r.StringOr("primary_agents", "N/A"),
			KeyMetrics:    r.StringOr("key_metrics", "N/A"),
		})
	}

	return infos, nil
}

// Info returns the index entry of scenario id.
func (l *Loader) Info(id int) (Info, error) {
	if _, err := DirFor(id); err != nil {
		return Info{}, err
	}

	infos, err := l.Index()
	if err != nil {
		return Info{}, err
	}

	for _, info := range infos {
		if info.ID == id {
			return info, nil
		}
	}

	return Info{}, fmt.Errorf("%w: scenario %d not in %s", ErrNotFound, id, indexFile)
}

// Summary returns the index summary of scenario id.
func (l *Loader) Summary(id int) (string, error) {
	info, err := l.Info(id)
	if err != nil {
		return "", err
	}

	return info.Summary(), nil
}

// Validate checks that the directory and trigger file of scenario id exist.
func (l *Loader) Validate(id int) error {
	path, err := l.Path(id)
	if err != nil {
		return err
	}

	if st, err := os.Stat(path); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: scenario directory not found: %s", ErrNotFound, path)
	}

	if _, err := os.Stat(filepath.Join(path, triggerFile)); err != nil {
		return fmt.Errorf("%w: missing %s in %s", ErrNotFound, triggerFile, filepath.Base(path))
	}

	return nil
}

// Trigger reads the first row of the trigger file of scenario id.
func (l *Loader) Trigger(id int) (Trigger, error) {
	path, err := l.Path(id)
	if err != nil {
		return Trigger{}, err
	}

	tbl, err := l.load(filepath.Join(path, triggerFile))
	if err != nil {
		return Trigger{}, err
	}

	if tbl.Empty() {
		return Trigger{}, fmt.Errorf("%w: trigger event file is empty", ErrNotFound)
	}

	row := tbl.Row(0)

	return Trigger{
		ScenarioID:  id,
		ScenarioDir: filepath.Base(path),
		EventType:   row.String("event_type"),
		Severity:    row.String("severity"),
		Description: row.String("description"),
		Fields:      row.Map(),
	}, nil
}

// Load validates and loads scenario id with its alert message. A missing
// index only leaves the summary empty.
func (l *Loader) Load(id int) (*Scenario, error) {
	if err := l.Validate(id); err != nil {
		return nil, err
	}

	trigger, err := l.Trigger(id)
	if err != nil {
		return nil, err
	}

	summary, err := l.Summary(id)
	if err != nil {
		l.logger.Debug("scenario.summary.unavailable", "scenario_id", id, "error", err.Error())
		summary = ""
	}

	l.logger.Debug("scenario.loaded", "scenario_id", id, "scenario", trigger.ScenarioDir, "event_type", trigger.EventType)

	return &Scenario{
		ID:      id,
		Dir:     trigger.ScenarioDir,
		Trigger: trigger,
		Message: FormatTriggerMessage(trigger),
		Summary: summary,
	}, nil
}

func (l *Loader) load(path string) (*table.Table, error) {
	tbl, err := table.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return tbl, nil
}
