package hcl_adapter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_DecodesPlantBlocks(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "plants.hcl", `
plant "north" {
  system_capacity_kw = 100.0
  panel_tilt_angle   = "lat"
  module_type        = 2
  dc_degradation     = [0, 0.5]
  layout_params      = { gcr = 0.4, s_buffer = 3 }
  fin_model          = null
}

plant "south" {
  system_capacity_kw = 50
  panel_tilt_angle   = 25.0
}
`)

	plants, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, plants, 2)

	want := []*config.RawPlant{
		{
			Name:   "north",
			Source: path,
			Values: map[string]any{
				"system_capacity_kw": 100.0,
				"panel_tilt_angle":   "lat",
				"module_type":        2,
				"dc_degradation":     []any{0, 0.5},
				"layout_params":      map[string]any{"gcr": 0.4, "s_buffer": 3},
				"fin_model":          nil,
			},
		},
		{
			Name:   "south",
			Source: path,
			Values: map[string]any{
				"system_capacity_kw": 50,
				"panel_tilt_angle":   25.0,
			},
		},
	}
	if diff := cmp.Diff(want, plants); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_IntegerTiltKeepsItsType(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "p.hcl", `
plant "p" {
  system_capacity_kw = 100.0
  panel_tilt_angle   = 30
}
`)

	plants, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.IsType(t, 0, plants[0].Values["panel_tilt_angle"])

	_, err = config.FromMap(plants[0].Values)
	require.Error(t, err, "an integer tilt must be rejected downstream")
}

func TestLoader_FeedsFromMap(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "p.hcl", `
plant "p" {
  system_capacity_kw = 100.0
  panel_tilt_angle   = "lat-func"
  module_type        = 1
}
`)

	plants, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, plants, 1)

	cfg, err := config.FromMap(plants[0].Values)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.SystemCapacityKW())
	mt, ok := cfg.ModuleType()
	assert.True(t, ok)
	assert.Equal(t, 1, mt)
	assert.Equal(t, config.TiltLatitudeFunc, cfg.PanelTiltAngle().Mode())
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{name: "syntax error", content: `plant "p" {`, errText: "failed to parse HCL file"},
		{name: "unknown top-level block", content: `site "x" {}`, errText: "failed to decode HCL file"},
		{name: "missing label", content: `plant { system_capacity_kw = 1.0 }`, errText: "failed to decode HCL file"},
		{name: "nested block", content: "plant \"p\" {\n  layout {}\n}\n", errText: `plant "p"`},
		{name: "variable reference", content: "plant \"p\" {\n  system_capacity_kw = var.cap\n}\n", errText: `attribute "system_capacity_kw"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, dir, "bad.hcl", tc.content)

			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoader_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "plants.yaml", "system_capacity_kw: 1.0\n")

	plants, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, plants)
}

func TestIsIntegerText(t *testing.T) {
	assert.True(t, isIntegerText("30"))
	assert.True(t, isIntegerText("-30"))
	assert.False(t, isIntegerText("30.0"))
	assert.False(t, isIntegerText("3e1"))
	assert.False(t, isIntegerText(""))
}
