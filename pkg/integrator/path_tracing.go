package integrator

import (
	"math"
	"math/rand"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
)

// Epsilon below which intersections are rejected, so a bounce never
// re-hits the surface it just left (shadow acne)
const tMinEpsilon = 0.001

// PathTracer implements unidirectional path tracing. Paths terminate on
// the depth budget, on absorption, or by escaping to the sky gradient.
type PathTracer struct {
	MaxDepth    int       // Maximum ray bounce depth
	TopColor    core.Vec3 // Sky color straight up
	BottomColor core.Vec3 // Sky color at the horizon
}

// NewPathTracer creates a path tracer with the given depth budget and sky
func NewPathTracer(maxDepth int, topColor, bottomColor core.Vec3) *PathTracer {
	return &PathTracer{
		MaxDepth:    maxDepth,
		TopColor:    topColor,
		BottomColor: bottomColor,
	}
}

// RayColor traces the ray through the world as an explicit bounded loop,
// carrying the attenuation product forward instead of recursing.
func (pt *PathTracer) RayColor(ray core.Ray, world geometry.Hittable, random *rand.Rand) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for depth := pt.MaxDepth; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, tMinEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.SkyColor(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, random)
		if !didScatter {
			// Material absorbed the ray
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce budget exhausted; no more light is gathered
	return core.Vec3{}
}

// SkyColor returns the procedural sky gradient for a ray that escaped
// the scene: white at the horizon blending to blue overhead.
func (pt *PathTracer) SkyColor(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map the vertical component from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return pt.BottomColor.Multiply(1.0 - t).Add(pt.TopColor.Multiply(t))
}
