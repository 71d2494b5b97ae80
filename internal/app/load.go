package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/ctxlog"
)

// loadPlants runs every loader over the configured paths. Plant names must be
// unique across all files.
func (a *App) loadPlants(ctx context.Context) ([]*config.RawPlant, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plants...", "paths", a.config.Paths)

	var plants []*config.RawPlant
	sources := make(map[string]string)
	for _, loader := range a.loaders {
		found, err := loader.Load(ctx, a.config.Paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load plants: %w", err)
		}
		for _, rp := range found {
			if prev, dup := sources[rp.Name]; dup {
				return nil, fmt.Errorf("duplicate plant %q in %s, first defined in %s", rp.Name, rp.Source, prev)
			}
			sources[rp.Name] = rp.Source
			plants = append(plants, rp)
		}
	}

	logger.Info("Plants loaded successfully.", "plants_found", len(plants))
	return plants, nil
}
