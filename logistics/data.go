package logistics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/tool"
)

// Data resolves scenario files below a data directory.
type Data struct {
	root string
}

// NewData creates a Data rooted at dir.
func NewData(dir string) *Data { return &Data{root: dir} }

// Root returns the data directory.
func (d *Data) Root() string { return d.root }

// ScenarioPath validates the scenario directory name and returns its path.
// Names must be a single existing path element.
func (d *Data) ScenarioPath(toolName, scenarioDir string) (string, error) {
	name := strings.TrimSpace(scenarioDir)

	switch {
	case name == "":
		return "", tool.NewToolError(toolName, "scenario_dir is required", tool.CodeValidation)
	case name == "." || strings.Contains(name, ".."), strings.ContainsAny(name, `/\`), filepath.IsAbs(name):
		return "", tool.NewToolError(toolName, fmt.Sprintf("invalid scenario directory %q", scenarioDir), tool.CodeValidation)
	}

	path := filepath.Join(d.root, name)
	if st, err := os.Stat(path); err != nil || !st.IsDir() {
		return "", tool.NewToolError(toolName, fmt.Sprintf("scenario directory %s not found", name), tool.CodeNotFound)
	}

	return path, nil
}

// Required loads file from the scenario. A missing file is a tool error.
func (d *Data) Required(toolName, scenarioDir, file string) (*table.Table, error) {
	tbl, ok, err := d.Optional(toolName, scenarioDir, file)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, tool.NewToolError(toolName, fmt.Sprintf("%s not found in %s", file, scenarioDir), tool.CodeNotFound)
	}

	return tbl, nil
}

// Optional loads file from the scenario. ok is false when the file does
// not exist.
func (d *Data) Optional(toolName, scenarioDir, file string) (tbl *table.Table, ok bool, err error) {
	path, err := d.ScenarioPath(toolName, scenarioDir)
	if err != nil {
		return nil, false, err
	}

	tbl, err = table.Load(filepath.Join(path, file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", file, err)
	}

	return tbl, true, nil
}
