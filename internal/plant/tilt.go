package plant

import (
	"math"

	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// TiltFunc maps a site latitude to a panel tilt angle, both in degrees.
type TiltFunc func(latitude float64) float64

// Coefficients of the empirical latitude rule for fixed-tilt arrays.
const (
	latitudeTiltSlope  = 0.76
	latitudeTiltOffset = 3.1
)

// LatitudeTilt is the default "lat-func" rule: 0.76 * latitude + 3.1.
func LatitudeTilt(latitude float64) float64 {
	return latitudeTiltSlope*latitude + latitudeTiltOffset
}

// ResolveTilt turns a tilt spec into degrees for a site at latitude. It has
// no side effects; the same inputs always give the same result.
func ResolveTilt(spec config.TiltSpec, latitude float64, fn TiltFunc) (float64, error) {
	if fn == nil {
		fn = LatitudeTilt
	}

	var tilt float64
	switch spec.Mode() {
	case config.TiltUnset, config.TiltLatitudeFunc:
		tilt = fn(latitude)
	case config.TiltLatitude:
		tilt = latitude
	case config.TiltFixed:
		tilt, _ = spec.Degrees()
	default:
		return 0, pverr.Invalid(config.FieldPanelTiltAngle, "unsupported tilt mode %d", spec.Mode())
	}

	if math.IsNaN(tilt) || tilt < -90 || tilt > 90 {
		return 0, pverr.Invalid(config.FieldPanelTiltAngle, "resolved tilt %v (%s) is outside [-90, 90]", tilt, spec)
	}
	return tilt, nil
}
