package config

import (
	"maps"
	"math"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// LayoutParams describes how the array is laid out on its parcel.
type LayoutParams struct {
	XPosition   float64 `mapstructure:"x_position"`   // fraction of site width, [0, 1]
	YPosition   float64 `mapstructure:"y_position"`   // fraction of site height, [0, 1]
	AspectPower float64 `mapstructure:"aspect_power"` // exponent of the array aspect ratio
	GCR         float64 `mapstructure:"gcr"`          // ground coverage ratio, (0, 1]
	SBuffer     float64 `mapstructure:"s_buffer"`     // buffer to solar site boundary, m
	XBuffer     float64 `mapstructure:"x_buffer"`     // buffer to other assets, m
}

// DefaultLayoutParams is what an empty layout_params mapping decodes to.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		XPosition: 0.5,
		YPosition: 0.5,
		GCR:       0.5,
		SBuffer:   2,
		XBuffer:   2,
	}
}

var layoutKeys = map[string]struct{}{
	"x_position":   {},
	"y_position":   {},
	"aspect_power": {},
	"gcr":          {},
	"s_buffer":     {},
	"x_buffer":     {},
}

// Validate checks every field's domain.
func (l LayoutParams) Validate() error {
	for name, v := range map[string]float64{
		"x_position":   l.XPosition,
		"y_position":   l.YPosition,
		"aspect_power": l.AspectPower,
		"gcr":          l.GCR,
		"s_buffer":     l.SBuffer,
		"x_buffer":     l.XBuffer,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return pverr.Invalid(FieldLayoutParams, "%s must be finite, got %v", name, v)
		}
	}
	if l.XPosition < 0 || l.XPosition > 1 {
		return pverr.Invalid(FieldLayoutParams, "x_position must be within [0, 1], got %v", l.XPosition)
	}
	if l.YPosition < 0 || l.YPosition > 1 {
		return pverr.Invalid(FieldLayoutParams, "y_position must be within [0, 1], got %v", l.YPosition)
	}
	if l.GCR <= 0 || l.GCR > 1 {
		return pverr.Invalid(FieldLayoutParams, "gcr must be within (0, 1], got %v", l.GCR)
	}
	if l.SBuffer < 0 || l.XBuffer < 0 {
		return pverr.Invalid(FieldLayoutParams, "buffers must be non-negative, got s_buffer=%v x_buffer=%v", l.SBuffer, l.XBuffer)
	}
	return nil
}

// layoutFromValue decodes a layout_params mapping. Unknown keys are rejected
// as invalid values before decoding, so mapstructure only reports type
// errors. Absent keys keep their defaults.
func layoutFromValue(v any) (*LayoutParams, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, pverr.TypeMismatch(FieldLayoutParams, "expected a mapping, got %s", typeName(v))
	}

	var unknown []string
	for k := range raw {
		if _, known := layoutKeys[k]; !known {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, pverr.Invalid(FieldLayoutParams, "unknown keys %v", unknown)
	}

	params := DefaultLayoutParams()
	if err := mapstructure.Decode(raw, &params); err != nil {
		return nil, pverr.TypeMismatch(FieldLayoutParams, "%v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

// ModelRef is an opaque reference to a pluggable sub-model, such as a layout
// or financial model. It is handed through to the simulation engine as-is.
type ModelRef struct {
	Name   string         `mapstructure:"name"`
	Params map[string]any `mapstructure:",remain"`
}

// clone returns a copy whose Params map is not shared with r.
func (r *ModelRef) clone() *ModelRef {
	if r == nil {
		return nil
	}
	return &ModelRef{Name: r.Name, Params: maps.Clone(r.Params)}
}

// modelRefFromValue accepts either a model name or a parameter mapping.
func modelRefFromValue(field string, v any) (*ModelRef, error) {
	switch tv := v.(type) {
	case string:
		if tv == "" {
			return nil, pverr.Invalid(field, "model name must not be empty")
		}
		return &ModelRef{Name: tv}, nil
	case map[string]any:
		var ref ModelRef
		if err := mapstructure.Decode(tv, &ref); err != nil {
			return nil, pverr.TypeMismatch(field, "%v", err)
		}
		return &ref, nil
	default:
		return nil, pverr.TypeMismatch(field, "expected a model name or mapping, got %s", typeName(v))
	}
}
