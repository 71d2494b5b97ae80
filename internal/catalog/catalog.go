// Package catalog holds the fixed table of PV module technologies that a
// plant can select by index. Each record carries the factors the plant
// resolver needs to turn a capacity into physical estimates.
package catalog

import (
	"fmt"
	"math"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// DefaultIndex is the module type used when a configuration does not pick one.
const DefaultIndex = 0

// Module describes one selectable module technology.
type Module struct {
	Index             int
	Name              string
	NominalEfficiency float64 // fraction of irradiance converted at STC
	AreaPerKW         float64 // m2 of module surface per kW DC
	UnitMass          float64 // kg per m2 of module surface
}

// Catalog is an immutable, index-addressed table of modules.
type Catalog struct {
	modules []Module
}

// Area factors are calibrated on the standard module (457.94 m2 per 100 kW)
// and scaled by 0.19/efficiency for the others.
var standard = []Module{
	{Index: 0, Name: "standard", NominalEfficiency: 0.19, AreaPerKW: 4.5794, UnitMass: 11.092},
	{Index: 1, Name: "premium", NominalEfficiency: 0.21, AreaPerKW: 4.1433, UnitMass: 11.092},
	{Index: 2, Name: "thin_film", NominalEfficiency: 0.18, AreaPerKW: 4.8338, UnitMass: 11.092},
}

var standardCatalog = mustNew(standard...)

// Standard returns the built-in PVWatts module catalog.
func Standard() *Catalog {
	return standardCatalog
}

// New builds a catalog. Indices must run densely from 0 in order and every
// factor must be a positive finite number.
func New(modules ...Module) (*Catalog, error) {
	if len(modules) == 0 {
		return nil, pverr.Invalid("catalog", "at least one module is required")
	}
	for i, m := range modules {
		if m.Index != i {
			return nil, pverr.Invalid("catalog", "module %q has index %d, expected %d", m.Name, m.Index, i)
		}
		for name, v := range map[string]float64{
			"nominal efficiency": m.NominalEfficiency,
			"area per kW":        m.AreaPerKW,
			"unit mass":          m.UnitMass,
		} {
			if !(v > 0) || math.IsInf(v, 0) {
				return nil, pverr.Invalid("catalog", "module %q: %s must be positive, got %v", m.Name, name, v)
			}
		}
		if m.NominalEfficiency > 1 {
			return nil, pverr.Invalid("catalog", "module %q: nominal efficiency must not exceed 1, got %v", m.Name, m.NominalEfficiency)
		}
	}
	return &Catalog{modules: append([]Module(nil), modules...)}, nil
}

func mustNew(modules ...Module) *Catalog {
	c, err := New(modules...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in table: %v", err))
	}
	return c
}

// Lookup returns the module at index, or an ErrNotFound error.
func (c *Catalog) Lookup(index int) (Module, error) {
	if index < 0 || index >= len(c.modules) {
		return Module{}, pverr.NotFound("module_type", "no module with index %d (catalog has 0..%d)", index, len(c.modules)-1)
	}
	return c.modules[index], nil
}

// Default returns the module at DefaultIndex.
func (c *Catalog) Default() Module {
	return c.modules[DefaultIndex]
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.modules)
}

// Modules returns a copy of the table.
func (c *Catalog) Modules() []Module {
	return append([]Module(nil), c.modules...)
}
