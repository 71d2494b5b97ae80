package plant

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/specialistvlad/pvgridgo/internal/catalog"
	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/ctxlog"
	"github.com/specialistvlad/pvgridgo/internal/engine"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
	"github.com/specialistvlad/pvgridgo/internal/site"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Name is the technology name every Plant reports.
const Name = "PVPlant"

// Option customizes a Plant at construction.
type Option func(*Plant)

// WithCatalog replaces the built-in module catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Plant) {
		if c != nil {
			p.catalog = c
		}
	}
}

// WithTiltFunc replaces the default latitude-to-tilt rule.
func WithTiltFunc(fn TiltFunc) Option {
	return func(p *Plant) { p.tiltFn = fn }
}

// Plant is a configuration resolved against a site and pushed into an
// engine-side plant object.
type Plant struct {
	cfg     *config.Config
	site    site.Locator
	model   engine.PlantModel
	catalog *catalog.Catalog
	tiltFn  TiltFunc
	logger  *slog.Logger

	capacityKW    float64
	tilt          float64
	module        catalog.Module
	dcDegradation []float64

	// derived from capacityKW and module
	footprintArea float64
	systemMass    float64
}

// New resolves cfg against loc and writes the result into model. It either
// returns a fully initialized Plant or an error and no Plant.
func New(ctx context.Context, loc site.Locator, cfg *config.Config, model engine.PlantModel, opts ...Option) (*Plant, error) {
	if loc == nil {
		return nil, pverr.Invalid("site", "is required")
	}
	if cfg == nil {
		return nil, pverr.Invalid("config", "is required")
	}
	if model == nil {
		return nil, pverr.Invalid("engine", "plant model is required")
	}

	p := &Plant{
		cfg:        cfg,
		site:       loc,
		model:      model,
		catalog:    catalog.Standard(),
		tiltFn:     LatitudeTilt,
		capacityKW: cfg.SystemCapacityKW(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = ctxlog.FromContext(ctx).With("plant", Name, "engine", model.ConfigName())

	tilt, err := ResolveTilt(cfg.PanelTiltAngle(), loc.Latitude(), p.tiltFn)
	if err != nil {
		return nil, err
	}
	p.tilt = tilt

	index := catalog.DefaultIndex
	if mt, ok := cfg.ModuleType(); ok {
		index = mt
	}
	if p.module, err = p.catalog.Lookup(index); err != nil {
		return nil, err
	}

	p.dcDegradation = cfg.DCDegradation()
	if len(p.dcDegradation) == 0 {
		p.dcDegradation = []float64{0}
	}

	if err := p.pushAll(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s plant model: %w", model.ConfigName(), err)
	}
	p.recomputeDerived()

	p.logger.Debug("Plant resolved.",
		"system_capacity_kw", p.capacityKW,
		"tilt_spec", cfg.PanelTiltAngle().String(),
		"panel_tilt_angle", p.tilt,
		"module_type", p.module.Index,
		"footprint_area", p.footprintArea,
		"system_mass", p.systemMass,
	)
	return p, nil
}

type assignment struct {
	name string
	val  cty.Value
}

// pushAll writes every resolved parameter into the engine. On failure the
// variables already written get their previous values back.
func (p *Plant) pushAll() error {
	deg, err := gocty.ToCtyValue(p.dcDegradation, cty.List(cty.Number))
	if err != nil {
		return fmt.Errorf("degradation: %w", err)
	}
	vars := []assignment{
		{engine.VarSystemCapacity, cty.NumberFloatVal(p.capacityKW)},
		{engine.VarTilt, cty.NumberFloatVal(p.tilt)},
		{engine.VarModuleType, cty.NumberIntVal(int64(p.module.Index))},
		{engine.VarDegradation, deg},
	}
	if lp := p.cfg.LayoutParams(); lp != nil {
		vars = append(vars, assignment{engine.VarGCR, cty.NumberFloatVal(lp.GCR)})
	}
	var prev []assignment
	for _, v := range vars {
		old, err := p.model.Value(v.name)
		if err != nil {
			p.restore(prev)
			return err
		}
		if err := p.model.Set(v.name, v.val); err != nil {
			p.restore(prev)
			return err
		}
		prev = append(prev, assignment{v.name, old})
	}
	return nil
}

// restore writes back the values pushAll replaced, newest first.
func (p *Plant) restore(prev []assignment) {
	for i := len(prev) - 1; i >= 0; i-- {
		if err := p.model.Set(prev[i].name, prev[i].val); err != nil {
			p.logger.Warn("Failed to restore engine variable.", "variable", prev[i].name, "error", err)
		}
	}
}

// recomputeDerived refreshes the fields that depend on capacity and module.
func (p *Plant) recomputeDerived() {
	unitMass := p.module.UnitMass
	if m, ok := p.cfg.ModuleUnitMass(); ok {
		unitMass = m
	}
	p.footprintArea = p.capacityKW * p.module.AreaPerKW
	p.systemMass = p.footprintArea * unitMass
}

// ConfigName identifies the engine template the plant is bound to.
func (p *Plant) ConfigName() string { return p.model.ConfigName() }

// Name returns the technology name.
func (p *Plant) Name() string { return Name }

// Config returns the configuration the plant was built from.
func (p *Plant) Config() *config.Config { return p.cfg }

// SystemCapacityKW returns the current nameplate capacity.
func (p *Plant) SystemCapacityKW() float64 { return p.capacityKW }

// PanelTiltAngle returns the resolved tilt in degrees.
func (p *Plant) PanelTiltAngle() float64 { return p.tilt }

// ModuleType returns the current catalog index.
func (p *Plant) ModuleType() int { return p.module.Index }

// Module returns the current catalog record.
func (p *Plant) Module() catalog.Module { return p.module }

// ApproxNominalEfficiency returns the catalog efficiency of the current module.
func (p *Plant) ApproxNominalEfficiency() float64 { return p.module.NominalEfficiency }

// FootprintArea returns the module surface area in m2.
func (p *Plant) FootprintArea() float64 { return p.footprintArea }

// SystemMass returns the module mass in kg.
func (p *Plant) SystemMass() float64 { return p.systemMass }

// DCDegradation returns the yearly degradation schedule in percent. A single
// zero entry means no degradation is modeled.
func (p *Plant) DCDegradation() []float64 { return slices.Clone(p.dcDegradation) }

// LayoutParams returns the configured layout, or nil.
func (p *Plant) LayoutParams() *config.LayoutParams { return p.cfg.LayoutParams() }

// SetModuleType switches to another catalog module. An unknown index fails
// with ErrNotFound and changes nothing.
func (p *Plant) SetModuleType(index int) error {
	m, err := p.catalog.Lookup(index)
	if err != nil {
		return err
	}
	if err := p.model.Set(engine.VarModuleType, cty.NumberIntVal(int64(index))); err != nil {
		return fmt.Errorf("failed to push module type: %w", err)
	}
	p.module = m
	p.recomputeDerived()
	p.logger.Debug("Module type changed.", "module_type", index, "efficiency", m.NominalEfficiency)
	return nil
}

// SetSystemCapacityKW changes the nameplate capacity.
func (p *Plant) SetSystemCapacityKW(kw float64) error {
	if !(kw > 0) || math.IsInf(kw, 0) {
		return pverr.Invalid(config.FieldSystemCapacityKW, "must be positive, got %v", kw)
	}
	if err := p.model.Set(engine.VarSystemCapacity, cty.NumberFloatVal(kw)); err != nil {
		return fmt.Errorf("failed to push system capacity: %w", err)
	}
	p.capacityKW = kw
	p.recomputeDerived()
	p.logger.Debug("System capacity changed.", "system_capacity_kw", kw)
	return nil
}

// SetPanelTiltAngle resolves spec against the plant's site and applies it.
func (p *Plant) SetPanelTiltAngle(spec config.TiltSpec) error {
	tilt, err := ResolveTilt(spec, p.site.Latitude(), p.tiltFn)
	if err != nil {
		return err
	}
	if err := p.model.Set(engine.VarTilt, cty.NumberFloatVal(tilt)); err != nil {
		return fmt.Errorf("failed to push tilt: %w", err)
	}
	p.tilt = tilt
	p.logger.Debug("Panel tilt changed.", "tilt_spec", spec.String(), "panel_tilt_angle", tilt)
	return nil
}

// Output reads a simulation output from the engine unchanged. Scalars come
// back as a one-element slice. Outputs the engine has not produced yet fail
// with ErrNotFound.
func (p *Plant) Output(name string) ([]float64, error) {
	v, err := p.model.Value(name)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return nil, pverr.NotFound(name, "output not available, has the simulation run?")
	}
	if v.Type().Equals(cty.Number) {
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, pverr.TypeMismatch(name, "%v", err)
		}
		return []float64{f}, nil
	}
	var series []float64
	if err := gocty.FromCtyValue(v, &series); err != nil {
		return nil, pverr.TypeMismatch(name, "%v", err)
	}
	return series, nil
}
