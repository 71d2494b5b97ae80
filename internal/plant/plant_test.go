package plant

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/pvgridgo/internal/catalog"
	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/engine"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
	"github.com/specialistvlad/pvgridgo/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// newTestPlant builds a plant at the reference site from a config mapping.
func newTestPlant(t *testing.T, values map[string]any, opts ...Option) (*Plant, *engine.Record) {
	t.Helper()
	cfg, err := config.FromMap(values)
	require.NoError(t, err)
	rec := engine.NewPVWattsSingleOwner()
	p, err := New(context.Background(), site.Flatirons(), cfg, rec, opts...)
	require.NoError(t, err)
	return p, rec
}

func engineFloat(t *testing.T, rec *engine.Record, name string) float64 {
	t.Helper()
	v, err := rec.Value(name)
	require.NoError(t, err)
	var f float64
	require.NoError(t, gocty.FromCtyValue(v, &f))
	return f
}

func TestNew_Initialization(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})

	assert.Equal(t, "PVWattsSingleOwner", p.ConfigName())
	assert.Equal(t, "PVPlant", p.Name())
	assert.Equal(t, 100.0, p.SystemCapacityKW())
	assert.Equal(t, []float64{0}, p.DCDegradation())
	assert.Nil(t, p.LayoutParams())

	assert.Equal(t, 100.0, engineFloat(t, rec, engine.VarSystemCapacity))
	assert.InDelta(t, p.PanelTiltAngle(), engineFloat(t, rec, engine.VarTilt), 1e-12)
	assert.Equal(t, 0.0, engineFloat(t, rec, engine.VarModuleType))

	var deg []float64
	v, err := rec.Value(engine.VarDegradation)
	require.NoError(t, err)
	require.NoError(t, gocty.FromCtyValue(v, &deg))
	assert.Equal(t, []float64{0}, deg)

	gcr, err := rec.Value(engine.VarGCR)
	require.NoError(t, err)
	assert.True(t, gcr.IsNull(), "gcr is only pushed when layout params are configured")
}

func TestModuleType(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})

	t.Run("initial module type", func(t *testing.T) {
		assert.Equal(t, 0, p.ModuleType())
		assert.Equal(t, 0.19, p.ApproxNominalEfficiency())
	})

	t.Run("change module type", func(t *testing.T) {
		areaBefore := p.FootprintArea()
		require.NoError(t, p.SetModuleType(2))
		assert.Equal(t, 2, p.ModuleType())
		assert.Equal(t, 0.18, p.ApproxNominalEfficiency())
		assert.Equal(t, "thin_film", p.Module().Name)
		assert.Greater(t, p.FootprintArea(), areaBefore, "lower efficiency needs more area")
		assert.Equal(t, 2.0, engineFloat(t, rec, engine.VarModuleType))
	})

	t.Run("module type not found", func(t *testing.T) {
		area, mass := p.FootprintArea(), p.SystemMass()

		err := p.SetModuleType(3)
		require.ErrorIs(t, err, pverr.ErrNotFound)

		assert.Equal(t, 2, p.ModuleType())
		assert.Equal(t, 0.18, p.ApproxNominalEfficiency())
		assert.Equal(t, area, p.FootprintArea())
		assert.Equal(t, mass, p.SystemMass())
		assert.Equal(t, 2.0, engineFloat(t, rec, engine.VarModuleType))
	})
}

func TestNew_ConfiguredModuleType(t *testing.T) {
	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0, "module_type": 1})
	assert.Equal(t, 1, p.ModuleType())
	assert.Equal(t, 0.21, p.ApproxNominalEfficiency())

	cfg, err := config.FromMap(map[string]any{"system_capacity_kw": 100.0, "module_type": 3})
	require.NoError(t, err)
	_, err = New(context.Background(), site.Flatirons(), cfg, engine.NewPVWattsSingleOwner())
	require.ErrorIs(t, err, pverr.ErrNotFound)
}

func TestPlantArea(t *testing.T) {
	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})
	assert.InEpsilon(t, 457.94, p.FootprintArea(), 0.1)
}

func TestPlantMass(t *testing.T) {
	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})
	assert.InEpsilon(t, 5079.51, p.SystemMass(), 0.01)
}

func TestPlantMass_UnitMassOverride(t *testing.T) {
	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0, "module_unit_mass": 20.0})
	assert.InDelta(t, p.FootprintArea()*20, p.SystemMass(), 1e-9)

	require.NoError(t, p.SetModuleType(1))
	assert.InDelta(t, p.FootprintArea()*20, p.SystemMass(), 1e-9, "override survives a module change")
}

func TestDerived_MonotonicInCapacity(t *testing.T) {
	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})
	area, mass := p.FootprintArea(), p.SystemMass()

	require.NoError(t, p.SetSystemCapacityKW(200))
	assert.GreaterOrEqual(t, p.FootprintArea(), area)
	assert.GreaterOrEqual(t, p.SystemMass(), mass)
	assert.InDelta(t, 2*area, p.FootprintArea(), 1e-9)
}

func TestSetSystemCapacityKW(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})

	require.NoError(t, p.SetSystemCapacityKW(250))
	assert.Equal(t, 250.0, p.SystemCapacityKW())
	assert.Equal(t, 250.0, engineFloat(t, rec, engine.VarSystemCapacity))
	assert.Equal(t, 100.0, p.Config().SystemCapacityKW(), "the configuration is never mutated")

	for _, bad := range []float64{0, -10} {
		err := p.SetSystemCapacityKW(bad)
		require.ErrorIs(t, err, pverr.ErrInvalidValue)
		assert.Equal(t, 250.0, p.SystemCapacityKW())
		assert.Equal(t, 250.0, engineFloat(t, rec, engine.VarSystemCapacity))
	}
}

func TestPanelTilt(t *testing.T) {
	testCases := []struct {
		name    string
		tilt    any
		want    float64
		epsilon float64
	}{
		{name: "default latitude function", tilt: nil, want: 29.85, epsilon: 0.01},
		{name: "explicit latitude function", tilt: "lat-func", want: 29.85, epsilon: 0.01},
		{name: "tilt angle float", tilt: 1.0, want: 1},
		{name: "tilt angle latitude", tilt: "lat", want: 35.2018863},
		{name: "negative float", tilt: -10.5, want: -10.5},
		{name: "upper bound", tilt: 90.0, want: 90},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values := map[string]any{"system_capacity_kw": 100.0}
			if tc.tilt != nil {
				values["panel_tilt_angle"] = tc.tilt
			}
			p, _ := newTestPlant(t, values)
			if tc.epsilon > 0 {
				assert.InEpsilon(t, tc.want, p.PanelTiltAngle(), tc.epsilon)
				return
			}
			assert.Equal(t, tc.want, p.PanelTiltAngle())
		})
	}
}

func TestPanelTilt_Errors(t *testing.T) {
	t.Run("with invalid str", func(t *testing.T) {
		_, err := config.FromMap(map[string]any{"system_capacity_kw": 100.0, "panel_tilt_angle": "fail"})
		require.Error(t, err)
	})

	t.Run("with invalid type", func(t *testing.T) {
		_, err := config.FromMap(map[string]any{"system_capacity_kw": 100.0, "panel_tilt_angle": 1})
		require.ErrorIs(t, err, pverr.ErrTypeMismatch)
	})

	t.Run("with invalid value", func(t *testing.T) {
		cfg, err := config.FromMap(map[string]any{"system_capacity_kw": 100.0, "panel_tilt_angle": 95.0})
		require.NoError(t, err, "range is checked at resolution, not at configuration")

		rec := engine.NewPVWattsSingleOwner()
		p, err := New(context.Background(), site.Flatirons(), cfg, rec)
		require.ErrorIs(t, err, pverr.ErrInvalidValue)
		assert.Nil(t, p)
		assert.Empty(t, rec.Assigned(), "nothing is pushed when resolution fails")
	})
}

func TestSetPanelTiltAngle(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})

	lat, err := config.TiltKeyword("lat")
	require.NoError(t, err)
	require.NoError(t, p.SetPanelTiltAngle(lat))
	assert.Equal(t, 35.2018863, p.PanelTiltAngle())
	assert.Equal(t, 35.2018863, engineFloat(t, rec, engine.VarTilt))

	err = p.SetPanelTiltAngle(config.TiltDegrees(-91))
	require.ErrorIs(t, err, pverr.ErrInvalidValue)
	assert.Equal(t, 35.2018863, p.PanelTiltAngle())
	assert.Equal(t, 35.2018863, engineFloat(t, rec, engine.VarTilt))
}

func TestNew_Idempotent(t *testing.T) {
	values := map[string]any{"system_capacity_kw": 321.0, "module_type": 1, "panel_tilt_angle": "lat-func"}
	a, _ := newTestPlant(t, values)
	b, _ := newTestPlant(t, values)

	assert.Equal(t, a.PanelTiltAngle(), b.PanelTiltAngle())
	assert.Equal(t, a.FootprintArea(), b.FootprintArea())
	assert.Equal(t, a.SystemMass(), b.SystemMass())
	assert.Equal(t, a.ApproxNominalEfficiency(), b.ApproxNominalEfficiency())
}

func TestNew_LayoutPushesGCR(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{
		"system_capacity_kw": 100.0,
		"layout_params":      map[string]any{"gcr": 0.35},
	})
	require.NotNil(t, p.LayoutParams())
	assert.Equal(t, 0.35, engineFloat(t, rec, engine.VarGCR))
}

func TestNew_Options(t *testing.T) {
	custom, err := catalog.New(catalog.Module{Index: 0, Name: "bifacial", NominalEfficiency: 0.22, AreaPerKW: 4, UnitMass: 12})
	require.NoError(t, err)

	p, _ := newTestPlant(t, map[string]any{"system_capacity_kw": 10.0},
		WithCatalog(custom),
		WithTiltFunc(func(lat float64) float64 { return lat / 2 }),
	)
	assert.Equal(t, 0.22, p.ApproxNominalEfficiency())
	assert.Equal(t, 40.0, p.FootprintArea())
	assert.InDelta(t, 35.2018863/2, p.PanelTiltAngle(), 1e-12)
	require.ErrorIs(t, p.SetModuleType(1), pverr.ErrNotFound)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	cfg, err := config.New(config.Params{SystemCapacityKW: 1})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = New(ctx, nil, cfg, engine.NewPVWattsSingleOwner())
	require.ErrorIs(t, err, pverr.ErrInvalidValue)
	_, err = New(ctx, site.Flatirons(), nil, engine.NewPVWattsSingleOwner())
	require.ErrorIs(t, err, pverr.ErrInvalidValue)
	_, err = New(ctx, site.Flatirons(), cfg, nil)
	require.ErrorIs(t, err, pverr.ErrInvalidValue)
}

// failingModel rejects writes to one variable.
type failingModel struct {
	*engine.Record
	failOn string
}

func (m *failingModel) Set(name string, v cty.Value) error {
	if name == m.failOn {
		return errors.New("engine rejected write")
	}
	return m.Record.Set(name, v)
}

func TestMutators_EngineFailureLeavesStateUnchanged(t *testing.T) {
	cfg, err := config.New(config.Params{SystemCapacityKW: 100})
	require.NoError(t, err)
	model := &failingModel{Record: engine.NewPVWattsSingleOwner()}
	p, err := New(context.Background(), site.Flatirons(), cfg, model)
	require.NoError(t, err)

	model.failOn = engine.VarModuleType
	require.Error(t, p.SetModuleType(2))
	assert.Equal(t, 0, p.ModuleType())
	assert.Equal(t, 0.19, p.ApproxNominalEfficiency())

	model.failOn = engine.VarSystemCapacity
	require.Error(t, p.SetSystemCapacityKW(500))
	assert.Equal(t, 100.0, p.SystemCapacityKW())
	assert.InEpsilon(t, 457.94, p.FootprintArea(), 1e-9)

	model.failOn = engine.VarTilt
	require.Error(t, p.SetPanelTiltAngle(config.TiltDegrees(10)))
	assert.InEpsilon(t, 29.85, p.PanelTiltAngle(), 0.01)
}

func TestNew_EngineFailure(t *testing.T) {
	cfg, err := config.New(config.Params{SystemCapacityKW: 100})
	require.NoError(t, err)
	model := &failingModel{Record: engine.NewPVWattsSingleOwner(), failOn: engine.VarDegradation}

	p, err := New(context.Background(), site.Flatirons(), cfg, model)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "PVWattsSingleOwner")
	assert.Empty(t, model.Assigned(), "earlier writes are rolled back")
}

func TestNew_EngineFailureRestoresPreviousValues(t *testing.T) {
	cfg, err := config.New(config.Params{SystemCapacityKW: 100})
	require.NoError(t, err)
	rec := engine.NewPVWattsSingleOwner()
	require.NoError(t, rec.Set(engine.VarTilt, cty.NumberFloatVal(12)))
	model := &failingModel{Record: rec, failOn: engine.VarDegradation}

	_, err = New(context.Background(), site.Flatirons(), cfg, model)
	require.Error(t, err)

	assert.Equal(t, []string{engine.VarTilt}, rec.Assigned())
	assert.Equal(t, 12.0, engineFloat(t, rec, engine.VarTilt))
}

func TestOutput(t *testing.T) {
	p, rec := newTestPlant(t, map[string]any{"system_capacity_kw": 100.0})

	_, err := p.Output(engine.OutGen)
	require.ErrorIs(t, err, pverr.ErrNotFound)

	_, err = p.Output("not_a_variable")
	require.ErrorIs(t, err, pverr.ErrNotFound)

	gen := cty.ListVal([]cty.Value{cty.NumberFloatVal(0), cty.NumberFloatVal(42.5), cty.NumberFloatVal(10)})
	require.NoError(t, rec.Set(engine.OutGen, gen))
	require.NoError(t, rec.Set(engine.OutAnnualEnergy, cty.NumberFloatVal(170000)))

	series, err := p.Output(engine.OutGen)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 42.5, 10}, series)

	annual, err := p.Output(engine.OutAnnualEnergy)
	require.NoError(t, err)
	assert.Equal(t, []float64{170000}, annual)
}
