// Package yaml_adapter loads plant definitions from YAML and JSON files.
//
// A file is either a single flat plant mapping, named after the file:
//
//	system_capacity_kw: 100.0
//	panel_tilt_angle: lat
//
// or a mapping of plant names under a top-level "plants" key:
//
//	plants:
//	  north:
//	    system_capacity_kw: 100.0
//	  south:
//	    system_capacity_kw: 50.0
//	    module_type: 1
package yaml_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/ctxlog"
	"github.com/specialistvlad/pvgridgo/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// PlantsKey is the top-level key of a multi-plant file.
const PlantsKey = "plants"

// Extensions lists the file extensions this loader reads. JSON is read by
// the YAML decoder.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML plant loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*config.RawPlant, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	var plants []*config.RawPlant
	for _, file := range files {
		found, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded YAML file.", "path", file, "plants", len(found))
		plants = append(plants, found...)
	}

	logger.Debug("YAML loading complete.", "plants", len(plants))
	return plants, nil
}

func loadFile(path string) ([]*config.RawPlant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	if len(doc) == 0 {
		return nil, nil
	}

	named, ok := doc[PlantsKey]
	if !ok {
		return []*config.RawPlant{{Name: baseName(path), Source: path, Values: doc}}, nil
	}
	if len(doc) > 1 {
		return nil, fmt.Errorf("file %s: %q must be the only top-level key", path, PlantsKey)
	}

	byName, ok := named.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("file %s: %q must be a mapping of plant names, got %T", path, PlantsKey, named)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	plants := make([]*config.RawPlant, 0, len(names))
	for _, name := range names {
		var values map[string]any
		switch v := byName[name].(type) {
		case map[string]any:
			values = v
		case nil:
			values = map[string]any{}
		default:
			return nil, fmt.Errorf("file %s: plant %q must be a mapping, got %T", path, name, v)
		}
		plants = append(plants, &config.RawPlant{Name: name, Source: path, Values: values})
	}
	return plants, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
