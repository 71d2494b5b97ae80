package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/pvgridgo/internal/catalog"
	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/engine"
	"github.com/specialistvlad/pvgridgo/internal/hcl_adapter"
	"github.com/specialistvlad/pvgridgo/internal/metrics"
	"github.com/specialistvlad/pvgridgo/internal/site"
	"github.com/specialistvlad/pvgridgo/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	site    site.Info
	catalog *catalog.Catalog
	loaders []config.Loader
	metrics *metrics.Metrics

	// newModel creates the engine record each plant is pushed into.
	newModel func() engine.PlantModel
}

// defaultLoaders is the list of plant file formats compiled into the binary.
func defaultLoaders() []config.Loader {
	return []config.Loader{
		hcl_adapter.NewLoader(),
		yaml_adapter.NewLoader(),
	}
}

// NewApp is the constructor for the main application. The report is written
// to outW and logs to logW. With no loaders, every supported format is read.
func NewApp(outW, logW io.Writer, cfg *Config, loaders ...config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	s, err := cfg.Site()
	if err != nil {
		return nil, fmt.Errorf("invalid site: %w", err)
	}

	if len(loaders) == 0 {
		loaders = defaultLoaders()
	}
	logger.Debug("Plant loaders configured.", "count", len(loaders))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		site:     s,
		catalog:  catalog.Standard(),
		loaders:  loaders,
		metrics:  metrics.New(),
		newModel: func() engine.PlantModel { return engine.NewPVWattsSingleOwner() },
	}, nil
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
