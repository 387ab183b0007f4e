package integrator

import (
	"math"
	"math/rand"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
)

// NormalShader colors surfaces by their oriented normal, (n+1)/2, and
// falls back to the sky gradient on a miss. It is fully deterministic,
// which makes it the reference mode for end-to-end tests and debugging.
type NormalShader struct {
	TopColor    core.Vec3
	BottomColor core.Vec3
}

// NewNormalShader creates a normal-shading integrator
func NewNormalShader(topColor, bottomColor core.Vec3) *NormalShader {
	return &NormalShader{TopColor: topColor, BottomColor: bottomColor}
}

// RayColor maps the first hit's normal to a color; the random source is
// unused but kept for the Integrator interface
func (ns *NormalShader) RayColor(ray core.Ray, world geometry.Hittable, random *rand.Rand) core.Vec3 {
	hit, isHit := world.Hit(ray, tMinEpsilon, math.Inf(1))
	if !isHit {
		unitDirection := ray.Direction.Normalize()
		t := 0.5 * (unitDirection.Y + 1.0)
		return ns.BottomColor.Multiply(1.0 - t).Add(ns.TopColor.Multiply(t))
	}

	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
