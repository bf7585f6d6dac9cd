// Package catalog holds the fixed table of bodies that orbit the sun.
package catalog

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Body is one immutable catalog record.
type Body struct {
	Name string `json:"name"`
	// DiameterKm is the equatorial diameter in kilometres.
	DiameterKm float64 `json:"diameterKm"`
	// MassUnits is the mass in units of 10^23 kg.
	MassUnits float64 `json:"massUnits"`
	// DistanceFromOrigin is the mean distance from the sun in millions of km.
	DistanceFromOrigin float64 `json:"distanceFromOrigin"`
	// OrbitPeriod and RotationPeriod are in Earth days. Both are used as divisors.
	OrbitPeriod    float64 `json:"orbitPeriod"`
	RotationPeriod float64 `json:"rotationPeriod"`
	// Color is a #RRGGBB hex string.
	Color string `json:"color"`
	// DisplayRadius is the render size relative to Earth.
	DisplayRadius float64 `json:"displayRadius"`
}

// fallbackColor is used when a record carries an unparsable color.
var fallbackColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// RGBA parses Color. Unparsable values yield a neutral gray.
func (b Body) RGBA() color.RGBA {
	c, err := colorful.Hex(b.Color)
	if err != nil {
		return fallbackColor
	}
	r, g, bl := c.RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}

// AssetKey is the identifier used to look up the body's surface texture.
func (b Body) AssetKey() string {
	return strings.ToLower(strings.ReplaceAll(b.Name, " ", "_"))
}
