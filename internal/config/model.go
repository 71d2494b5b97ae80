package config

import (
	"math"
	"slices"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// Field names, shared by FromMap and error messages.
const (
	FieldSystemCapacityKW = "system_capacity_kw"
	FieldLayoutParams     = "layout_params"
	FieldLayoutModel      = "layout_model"
	FieldFinModel         = "fin_model"
	FieldPanelTiltAngle   = "panel_tilt_angle"
	FieldModuleType       = "module_type"
	FieldDCDegradation    = "dc_degradation"
	FieldModuleUnitMass   = "module_unit_mass"
)

// Params is the input to New. Nil pointers and empty slices mean "unset".
type Params struct {
	SystemCapacityKW float64
	LayoutParams     *LayoutParams
	LayoutModel      *ModelRef
	FinModel         *ModelRef
	PanelTiltAngle   TiltSpec
	ModuleType       *int
	DCDegradation    []float64 // percent per year
	ModuleUnitMass   *float64  // kg/m2, overrides the catalog value
}

// Config is the validated plant configuration. It has no setters; build a
// new one to change anything.
type Config struct {
	systemCapacityKW float64
	layoutParams     *LayoutParams
	layoutModel      *ModelRef
	finModel         *ModelRef
	panelTiltAngle   TiltSpec
	moduleType       *int
	dcDegradation    []float64
	moduleUnitMass   *float64
}

// New validates p and returns the configuration it describes.
func New(p Params) (*Config, error) {
	if !(p.SystemCapacityKW > 0) || math.IsInf(p.SystemCapacityKW, 0) {
		return nil, pverr.Invalid(FieldSystemCapacityKW, "must be positive, got %v", p.SystemCapacityKW)
	}

	cfg := &Config{
		systemCapacityKW: p.SystemCapacityKW,
		layoutModel:      p.LayoutModel.clone(),
		finModel:         p.FinModel.clone(),
		panelTiltAngle:   p.PanelTiltAngle,
	}

	if p.LayoutParams != nil {
		if err := p.LayoutParams.Validate(); err != nil {
			return nil, err
		}
		lp := *p.LayoutParams
		cfg.layoutParams = &lp
	}

	if p.ModuleType != nil {
		mt := *p.ModuleType
		cfg.moduleType = &mt
	}

	for i, d := range p.DCDegradation {
		if math.IsNaN(d) || d < 0 || d > 100 {
			return nil, pverr.Invalid(FieldDCDegradation, "entry %d must be within [0, 100] percent, got %v", i, d)
		}
	}
	if len(p.DCDegradation) > 0 {
		cfg.dcDegradation = slices.Clone(p.DCDegradation)
	}

	if p.ModuleUnitMass != nil {
		m := *p.ModuleUnitMass
		if !(m > 0) || math.IsInf(m, 0) {
			return nil, pverr.Invalid(FieldModuleUnitMass, "must be positive, got %v", m)
		}
		cfg.moduleUnitMass = &m
	}

	return cfg, nil
}

// SystemCapacityKW returns the nameplate DC capacity.
func (c *Config) SystemCapacityKW() float64 { return c.systemCapacityKW }

// LayoutParams returns a copy of the layout parameters, or nil if unset.
func (c *Config) LayoutParams() *LayoutParams {
	if c.layoutParams == nil {
		return nil
	}
	lp := *c.layoutParams
	return &lp
}

// LayoutModel returns the layout model reference, or nil if unset.
func (c *Config) LayoutModel() *ModelRef { return c.layoutModel.clone() }

// FinModel returns the financial model reference, or nil if unset.
func (c *Config) FinModel() *ModelRef { return c.finModel.clone() }

// PanelTiltAngle returns the unresolved tilt specification.
func (c *Config) PanelTiltAngle() TiltSpec { return c.panelTiltAngle }

// ModuleType returns the requested catalog index and whether one was given.
func (c *Config) ModuleType() (int, bool) {
	if c.moduleType == nil {
		return 0, false
	}
	return *c.moduleType, true
}

// DCDegradation returns a copy of the yearly degradation schedule, or nil.
func (c *Config) DCDegradation() []float64 { return slices.Clone(c.dcDegradation) }

// ModuleUnitMass returns the mass density override and whether one was given.
func (c *Config) ModuleUnitMass() (float64, bool) {
	if c.moduleUnitMass == nil {
		return 0, false
	}
	return *c.moduleUnitMass, true
}
