package catalog

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Info is the display form of a body for the information panel.
type Info struct {
	Name           string
	Diameter       string
	Mass           string
	Distance       string
	OrbitPeriod    string
	RotationPeriod string
}

var printer = message.NewPrinter(language.English)

// FormatInfo renders b with the panel's fixed precision: grouped diameter,
// mass to two decimals, distance to one, periods to two.
func FormatInfo(b Body) Info {
	return Info{
		Name:           b.Name,
		Diameter:       printer.Sprintf("%d km", int64(math.Round(b.DiameterKm))),
		Mass:           fmt.Sprintf("%.2f × 10²³ kg", b.MassUnits),
		Distance:       fmt.Sprintf("%.1f million km", b.DistanceFromOrigin),
		OrbitPeriod:    fmt.Sprintf("%.2f Earth days", b.OrbitPeriod),
		RotationPeriod: fmt.Sprintf("%.2f Earth days", b.RotationPeriod),
	}
}

// Lines returns the panel rows as "label: value" strings.
func (i Info) Lines() []string {
	return []string{
		"Diameter: " + i.Diameter,
		"Mass: " + i.Mass,
		"Distance from Sun: " + i.Distance,
		"Orbit period: " + i.OrbitPeriod,
		"Rotation period: " + i.RotationPeriod,
	}
}
