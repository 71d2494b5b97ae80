package config

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// TiltMode tells how a panel tilt angle is to be derived.
type TiltMode int

const (
	// TiltUnset falls back to the latitude function.
	TiltUnset TiltMode = iota
	// TiltLatitudeFunc uses the empirical latitude-to-tilt function.
	TiltLatitudeFunc
	// TiltLatitude uses the site latitude as the tilt.
	TiltLatitude
	// TiltFixed uses an explicit angle in degrees.
	TiltFixed
)

// Tilt keywords accepted in configuration files.
const (
	KeywordLat     = "lat"
	KeywordLatFunc = "lat-func"
)

// TiltSpec is the tagged variant behind panel_tilt_angle: unset, one of the
// keywords, or a float in degrees. The zero value is unset.
type TiltSpec struct {
	mode    TiltMode
	degrees float64
}

// DefaultTilt returns an unset tilt spec.
func DefaultTilt() TiltSpec {
	return TiltSpec{}
}

// TiltKeyword parses one of the supported keywords.
func TiltKeyword(keyword string) (TiltSpec, error) {
	switch keyword {
	case KeywordLat:
		return TiltSpec{mode: TiltLatitude}, nil
	case KeywordLatFunc:
		return TiltSpec{mode: TiltLatitudeFunc}, nil
	default:
		return TiltSpec{}, pverr.Invalid(FieldPanelTiltAngle, "unrecognized keyword %q, expected %q or %q", keyword, KeywordLat, KeywordLatFunc)
	}
}

// TiltDegrees returns a fixed angle. The range is checked when the plant is
// resolved.
func TiltDegrees(deg float64) TiltSpec {
	return TiltSpec{mode: TiltFixed, degrees: deg}
}

// Mode returns the variant tag.
func (t TiltSpec) Mode() TiltMode {
	return t.mode
}

// Degrees returns the fixed angle and true for TiltFixed specs.
func (t TiltSpec) Degrees() (float64, bool) {
	return t.degrees, t.mode == TiltFixed
}

// IsSet reports whether anything other than the default was requested.
func (t TiltSpec) IsSet() bool {
	return t.mode != TiltUnset
}

// String renders the spec the way it would be written in a config file.
func (t TiltSpec) String() string {
	switch t.mode {
	case TiltLatitude:
		return KeywordLat
	case TiltLatitudeFunc:
		return KeywordLatFunc
	case TiltFixed:
		return strconv.FormatFloat(t.degrees, 'f', -1, 64)
	default:
		return "unset"
	}
}

// tiltFromValue converts a loosely typed value into a TiltSpec. Integers are
// refused outright so that whole-degree input is always written as a float.
func tiltFromValue(v any) (TiltSpec, error) {
	switch tv := v.(type) {
	case nil:
		return DefaultTilt(), nil
	case string:
		return TiltKeyword(tv)
	case float64:
		return TiltDegrees(tv), nil
	case float32:
		return TiltDegrees(float64(tv)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TiltSpec{}, pverr.TypeMismatch(FieldPanelTiltAngle, "got integer %v, write the angle as a float (e.g. %v.0)", tv, tv)
	default:
		return TiltSpec{}, pverr.TypeMismatch(FieldPanelTiltAngle, "expected a float or one of %q, %q, got %s", KeywordLat, KeywordLatFunc, typeName(v))
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
