// Package testutil holds fixtures shared by the package tests: the reference
// site the resolver is calibrated against and helpers for writing plant
// files into a temporary directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pvgridgo/internal/site"
	"github.com/stretchr/testify/require"
)

// Reference values for a default 100 kW plant at the reference site.
const (
	ReferenceCapacityKW = 100.0
	ReferenceLatFunc    = 29.853433588
	ReferenceArea       = 457.94
	ReferenceMass       = 5079.47
)

// ReferenceSite returns the site the reference values were computed for.
func ReferenceSite() site.Info {
	return site.Flatirons()
}

// ReferencePlantHCL defines one default plant in HCL.
const ReferencePlantHCL = `
plant "reference" {
  system_capacity_kw = 100.0
}
`

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// PlantDir creates a temporary directory holding the given files, keyed by
// name relative to the directory.
func PlantDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}
