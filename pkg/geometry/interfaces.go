package geometry

import (
	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/material"
)

// Hittable is anything a ray can intersect. Hit returns the nearest
// intersection with t in [tMin, tMax), or false when there is none.
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
