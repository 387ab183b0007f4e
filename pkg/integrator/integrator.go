package integrator

import (
	"math/rand"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried by a single camera ray
	RayColor(ray core.Ray, world geometry.Hittable, random *rand.Rand) core.Vec3
}
