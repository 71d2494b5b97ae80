package app

import (
	"errors"

	"github.com/specialistvlad/pvgridgo/internal/site"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // plant files or directories

	SiteName string
	Lat      float64
	Lon      float64

	LogFormat   string
	LogLevel    string
	MetricsFile string // empty disables the textfile dump
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one plant path is required")
	}
	for _, p := range cfg.Paths {
		if p == "" {
			return nil, errors.New("plant paths cannot be empty")
		}
	}
	if _, err := site.New(cfg.SiteName, cfg.Lat, cfg.Lon); err != nil {
		return nil, err
	}

	cfg.Paths = append([]string(nil), cfg.Paths...)
	return &cfg, nil
}

// Site returns the site described by the configuration.
func (c *Config) Site() (site.Info, error) {
	return site.New(c.SiteName, c.Lat, c.Lon)
}
