// Package engine is the boundary to the external time-series simulation
// engine. The plant resolver writes its resolved parameters into a
// PlantModel and reads output series back from it; the engine itself, and
// the simulation it runs, live outside this module.
package engine

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Variable names understood by the PVWatts plant record.
const (
	VarSystemCapacity = "system_capacity"
	VarTilt           = "tilt"
	VarModuleType     = "module_type"
	VarDegradation    = "degradation"
	VarGCR            = "gcr"

	OutGen            = "gen"
	OutAC             = "ac"
	OutDC             = "dc"
	OutAnnualEnergy   = "annual_energy"
	OutCapacityFactor = "capacity_factor"
)

// ConfigPVWattsSingleOwner names the PVWatts performance model paired with
// the Single Owner financial model.
const ConfigPVWattsSingleOwner = "PVWattsSingleOwner"

// PlantModel is the engine-side plant object.
type PlantModel interface {
	// ConfigName identifies the engine template in use.
	ConfigName() string
	// Set assigns a variable. It fails without side effects if the name is
	// unknown or the value cannot be converted to the variable's type.
	// Assigning a null clears the variable.
	Set(name string, v cty.Value) error
	// Value reads a variable; unassigned variables read as a typed null.
	Value(name string) (cty.Value, error)
}

// Record is an in-memory PlantModel with a fixed, typed variable schema.
// It is not safe for concurrent use.
type Record struct {
	configName string
	schema     map[string]cty.Type
	values     map[string]cty.Value
}

var pvwattsSchema = map[string]cty.Type{
	VarSystemCapacity: cty.Number,
	VarTilt:           cty.Number,
	VarModuleType:     cty.Number,
	VarDegradation:    cty.List(cty.Number),
	VarGCR:            cty.Number,

	OutGen:            cty.List(cty.Number),
	OutAC:             cty.List(cty.Number),
	OutDC:             cty.List(cty.Number),
	OutAnnualEnergy:   cty.Number,
	OutCapacityFactor: cty.Number,
}

// NewRecord returns an empty record for the given template and schema.
func NewRecord(configName string, schema map[string]cty.Type) *Record {
	s := make(map[string]cty.Type, len(schema))
	for k, v := range schema {
		s[k] = v
	}
	return &Record{
		configName: configName,
		schema:     s,
		values:     make(map[string]cty.Value),
	}
}

// NewPVWattsSingleOwner returns an empty PVWatts/Single Owner plant record.
func NewPVWattsSingleOwner() *Record {
	return NewRecord(ConfigPVWattsSingleOwner, pvwattsSchema)
}

// ConfigName implements PlantModel.
func (r *Record) ConfigName() string {
	return r.configName
}

// Set implements PlantModel.
func (r *Record) Set(name string, v cty.Value) error {
	ty, ok := r.schema[name]
	if !ok {
		return pverr.NotFound(name, "%s has no variable %q", r.configName, name)
	}
	if !v.IsWhollyKnown() {
		return pverr.Invalid(name, "value must be known")
	}
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return pverr.TypeMismatch(name, "cannot use %s as %s: %v", v.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if converted.IsNull() {
		delete(r.values, name)
		return nil
	}
	r.values[name] = converted
	return nil
}

// Value implements PlantModel.
func (r *Record) Value(name string) (cty.Value, error) {
	ty, ok := r.schema[name]
	if !ok {
		return cty.NilVal, pverr.NotFound(name, "%s has no variable %q", r.configName, name)
	}
	if v, ok := r.values[name]; ok {
		return v, nil
	}
	return cty.NullVal(ty), nil
}

// Assigned lists the variables that currently hold a value, sorted.
func (r *Record) Assigned() []string {
	names := make([]string, 0, len(r.values))
	for k := range r.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String is a short description for logs.
func (r *Record) String() string {
	return fmt.Sprintf("%s(%d assigned)", r.configName, len(r.values))
}
