package config

import (
	"math"
	"sort"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// FromMap builds a Config from a loosely typed mapping such as decoded YAML
// or HCL. Missing optional keys and nil values are treated as unset; unknown
// keys and malformed values are rejected.
func FromMap(values map[string]any) (*Config, error) {
	var unknown []string
	for k := range values {
		switch k {
		case FieldSystemCapacityKW, FieldLayoutParams, FieldLayoutModel, FieldFinModel,
			FieldPanelTiltAngle, FieldModuleType, FieldDCDegradation, FieldModuleUnitMass:
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, pverr.Invalid("config", "unknown fields %v", unknown)
	}

	var p Params

	capacity, ok := values[FieldSystemCapacityKW]
	if !ok || capacity == nil {
		return nil, pverr.Invalid(FieldSystemCapacityKW, "is required")
	}
	kw, err := toFloat(FieldSystemCapacityKW, capacity)
	if err != nil {
		return nil, err
	}
	p.SystemCapacityKW = kw

	if p.PanelTiltAngle, err = tiltFromValue(values[FieldPanelTiltAngle]); err != nil {
		return nil, err
	}

	if v := values[FieldLayoutParams]; v != nil {
		if p.LayoutParams, err = layoutFromValue(v); err != nil {
			return nil, err
		}
	}
	if v := values[FieldLayoutModel]; v != nil {
		if p.LayoutModel, err = modelRefFromValue(FieldLayoutModel, v); err != nil {
			return nil, err
		}
	}
	if v := values[FieldFinModel]; v != nil {
		if p.FinModel, err = modelRefFromValue(FieldFinModel, v); err != nil {
			return nil, err
		}
	}

	if v := values[FieldModuleType]; v != nil {
		mt, err := toInt(FieldModuleType, v)
		if err != nil {
			return nil, err
		}
		p.ModuleType = &mt
	}

	if v := values[FieldDCDegradation]; v != nil {
		if p.DCDegradation, err = toFloatSlice(FieldDCDegradation, v); err != nil {
			return nil, err
		}
	}

	if v := values[FieldModuleUnitMass]; v != nil {
		m, err := toFloat(FieldModuleUnitMass, v)
		if err != nil {
			return nil, err
		}
		p.ModuleUnitMass = &m
	}

	return New(p)
}

// toFloat accepts any Go numeric kind.
func toFloat(field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, pverr.TypeMismatch(field, "expected a number, got %s", typeName(v))
	}
}

// toInt accepts integer kinds only.
func toInt(field string, v any) (int, error) {
	var n int64
	switch tv := v.(type) {
	case int:
		return tv, nil
	case int8:
		n = int64(tv)
	case int16:
		n = int64(tv)
	case int32:
		n = int64(tv)
	case int64:
		n = tv
	case uint:
		n = int64(tv)
	case uint8:
		n = int64(tv)
	case uint16:
		n = int64(tv)
	case uint32:
		n = int64(tv)
	case uint64:
		if tv > math.MaxInt32 {
			return 0, pverr.Invalid(field, "value %d out of range", tv)
		}
		n = int64(tv)
	default:
		return 0, pverr.TypeMismatch(field, "expected an integer, got %s", typeName(v))
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, pverr.Invalid(field, "value %d out of range", n)
	}
	return int(n), nil
}

// toFloatSlice accepts a list of numbers or a single number.
func toFloatSlice(field string, v any) ([]float64, error) {
	switch tv := v.(type) {
	case []float64:
		return tv, nil
	case []any:
		out := make([]float64, 0, len(tv))
		for _, e := range tv {
			f, err := toFloat(field, e)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	default:
		f, err := toFloat(field, v)
		if err != nil {
			return nil, pverr.TypeMismatch(field, "expected a number or a list of numbers, got %s", typeName(v))
		}
		return []float64{f}, nil
	}
}
