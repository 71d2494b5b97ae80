// Package site describes where a plant is located. Loading weather or
// irradiance resources for a site is not this package's concern; it only
// carries the coordinates the resolver needs.
package site

import (
	"math"

	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// Locator is anything that knows its latitude in degrees.
type Locator interface {
	Latitude() float64
}

// Info is a named point on the globe.
type Info struct {
	Name string
	Lat  float64
	Lon  float64
}

// New validates the coordinates and returns a site.
func New(name string, lat, lon float64) (Info, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Info{}, pverr.Invalid("latitude", "must be within [-90, 90], got %v", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Info{}, pverr.Invalid("longitude", "must be within [-180, 180], got %v", lon)
	}
	return Info{Name: name, Lat: lat, Lon: lon}, nil
}

// Latitude implements Locator.
func (i Info) Latitude() float64 {
	return i.Lat
}

// Flatirons is the reference site near Amarillo, TX used for calibration.
func Flatirons() Info {
	return Info{Name: "flatirons", Lat: 35.2018863, Lon: -101.945027}
}
