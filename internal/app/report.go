package app

import (
	"fmt"
	"io"

	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/plant"
	"github.com/specialistvlad/pvgridgo/internal/site"
	"gopkg.in/yaml.v3"
)

// Report is the document printed at the end of a run.
type Report struct {
	Site   SiteReport      `yaml:"site"`
	Plants []PlantReport   `yaml:"plants"`
	Failed []FailureReport `yaml:"failed,omitempty"`
}

// SiteReport echoes the site every plant was resolved against.
type SiteReport struct {
	Name string  `yaml:"name,omitempty"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// PlantReport holds the resolved parameters of one plant.
type PlantReport struct {
	Name                    string    `yaml:"name"`
	Source                  string    `yaml:"source"`
	ConfigName              string    `yaml:"config_name"`
	SystemCapacityKW        float64   `yaml:"system_capacity_kw"`
	PanelTiltAngle          float64   `yaml:"panel_tilt_angle"`
	ModuleType              int       `yaml:"module_type"`
	ModuleName              string    `yaml:"module_name"`
	ApproxNominalEfficiency float64   `yaml:"approx_nominal_efficiency"`
	DCDegradation           []float64 `yaml:"dc_degradation,flow"`
	FootprintArea           float64   `yaml:"footprint_area_m2"`
	SystemMass              float64   `yaml:"system_mass_kg"`
	GCR                     *float64  `yaml:"gcr,omitempty"`
}

// FailureReport names a plant that could not be resolved.
type FailureReport struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Kind   string `yaml:"kind"`
	Error  string `yaml:"error"`
}

func newSiteReport(s site.Info) SiteReport {
	return SiteReport{Name: s.Name, Lat: s.Lat, Lon: s.Lon}
}

func newPlantReport(raw *config.RawPlant, p *plant.Plant) PlantReport {
	r := PlantReport{
		Name:                    raw.Name,
		Source:                  raw.Source,
		ConfigName:              p.ConfigName(),
		SystemCapacityKW:        p.SystemCapacityKW(),
		PanelTiltAngle:          p.PanelTiltAngle(),
		ModuleType:              p.ModuleType(),
		ModuleName:              p.Module().Name,
		ApproxNominalEfficiency: p.ApproxNominalEfficiency(),
		DCDegradation:           p.DCDegradation(),
		FootprintArea:           p.FootprintArea(),
		SystemMass:              p.SystemMass(),
	}
	if lp := p.LayoutParams(); lp != nil {
		gcr := lp.GCR
		r.GCR = &gcr
	}
	return r
}

// writeReport encodes r as a single YAML document.
func writeReport(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
