package catalog

import (
	"errors"
	"fmt"
)

// Size is the number of bodies in a catalog.
const Size = 8

// ErrUnknownBody is returned when a name or index does not match any record.
var ErrUnknownBody = errors.New("unknown body")

// Catalog is an ordered, read-only list of bodies. Indices are stable for the
// life of the process and are the only key used on the per-frame path.
type Catalog struct {
	bodies  []Body
	byName  map[string]int
	assetID []string
}

// New validates bodies and returns a catalog holding a private copy of them.
func New(bodies []Body) (*Catalog, error) {
	if err := Validate(bodies); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		bodies:  make([]Body, len(bodies)),
		byName:  make(map[string]int, len(bodies)),
		assetID: make([]string, len(bodies)),
	}
	copy(c.bodies, bodies)
	for i, b := range c.bodies {
		c.byName[b.Name] = i
		c.assetID[i] = b.AssetKey()
	}
	return c, nil
}

// Default returns the built-in eight-planet catalog.
func Default() *Catalog {
	c, err := New(defaultBodies())
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.bodies)
}

// At returns the body at index i.
func (c *Catalog) At(i int) (Body, bool) {
	if c == nil || i < 0 || i >= len(c.bodies) {
		return Body{}, false
	}
	return c.bodies[i], true
}

// Bodies returns a copy of the records in catalog order.
func (c *Catalog) Bodies() []Body {
	out := make([]Body, c.Len())
	if c != nil {
		copy(out, c.bodies)
	}
	return out
}

// Index returns the position of the body called name.
func (c *Catalog) Index(name string) (int, error) {
	if c != nil {
		if i, ok := c.byName[name]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// AssetKey returns the texture identifier resolved for index i at construction.
func (c *Catalog) AssetKey(i int) (string, error) {
	if c == nil || i < 0 || i >= len(c.assetID) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownBody, i)
	}
	return c.assetID[i], nil
}

func defaultBodies() []Body {
	return []Body{
		{Name: "Mercury", DiameterKm: 4879, MassUnits: 3.3011, DistanceFromOrigin: 57.9, OrbitPeriod: 87.97, RotationPeriod: 58.65, Color: "#8C7853", DisplayRadius: 0.38},
		{Name: "Venus", DiameterKm: 12104, MassUnits: 48.675, DistanceFromOrigin: 108.2, OrbitPeriod: 224.7, RotationPeriod: 243.02, Color: "#FFC649", DisplayRadius: 0.95},
		{Name: "Earth", DiameterKm: 12742, MassUnits: 59.724, DistanceFromOrigin: 149.6, OrbitPeriod: 365.26, RotationPeriod: 0.99, Color: "#4B9CD3", DisplayRadius: 1.0},
		{Name: "Mars", DiameterKm: 6779, MassUnits: 6.4171, DistanceFromOrigin: 227.9, OrbitPeriod: 686.98, RotationPeriod: 1.03, Color: "#CD5C5C", DisplayRadius: 0.53},
		{Name: "Jupiter", DiameterKm: 139820, MassUnits: 18981.9, DistanceFromOrigin: 778.5, OrbitPeriod: 4332.59, RotationPeriod: 0.41, Color: "#D9C4A1", DisplayRadius: 11.21},
		{Name: "Saturn", DiameterKm: 116460, MassUnits: 5683.4, DistanceFromOrigin: 1434, OrbitPeriod: 10759.22, RotationPeriod: 0.44, Color: "#FAD5A5", DisplayRadius: 9.45},
		{Name: "Uranus", DiameterKm: 50724, MassUnits: 868.13, DistanceFromOrigin: 2871, OrbitPeriod: 30688.5, RotationPeriod: 0.72, Color: "#4FD0E7", DisplayRadius: 4.01},
		{Name: "Neptune", DiameterKm: 49244, MassUnits: 1024.13, DistanceFromOrigin: 4495, OrbitPeriod: 60195, RotationPeriod: 0.67, Color: "#4169E1", DisplayRadius: 3.88},
	}
}
