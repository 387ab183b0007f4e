package material

import (
	"math"
	"math/rand"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
)

// Kind identifies one of the fixed material variants
type Kind int

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

// Material is a closed tagged variant over the three scattering models.
// The kind set is fixed, so Scatter can switch exhaustively instead of
// dispatching through an open interface. Materials are immutable after
// construction and shared by pointer across many surfaces.
type Material struct {
	kind            Kind
	albedo          core.Vec3
	fuzz            float64
	refractiveIndex float64
}

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) *Material {
	return &Material{kind: KindLambertian, albedo: albedo}
}

// NewMetal creates a reflective material. Fuzz is clamped to [0, 1];
// values above 1 have no physical meaning.
func NewMetal(albedo core.Vec3, fuzz float64) *Material {
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return &Material{kind: KindMetal, albedo: albedo, fuzz: fuzz}
}

// NewDielectric creates a clear refractive material like glass
func NewDielectric(refractiveIndex float64) *Material {
	return &Material{kind: KindDielectric, refractiveIndex: refractiveIndex}
}

// Kind returns the material variant tag
func (m *Material) Kind() Kind {
	return m.kind
}

// Albedo returns the material's base reflectance color
func (m *Material) Albedo() core.Vec3 {
	return m.albedo
}

// Fuzz returns the metal roughness parameter
func (m *Material) Fuzz() float64 {
	return m.fuzz
}

// RefractiveIndex returns the dielectric index of refraction
func (m *Material) RefractiveIndex() float64 {
	return m.refractiveIndex
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Per-bounce color multiplier
}

// Scatter produces a scattered ray and attenuation for the hit, or
// reports false when the ray is absorbed
func (m *Material) Scatter(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	switch m.kind {
	case KindLambertian:
		return m.scatterLambertian(hit, random)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, random)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, random)
	}
	return ScatterResult{}, false
}

// scatterLambertian scatters toward normal + random unit vector, the
// standard cosine-weighted approximation. Never absorbs.
func (m *Material) scatterLambertian(hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(random))

	// Degenerate scatter direction falls back to the surface normal
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.albedo,
	}, true
}

// scatterMetal reflects the incoming direction and perturbs it by the
// fuzz radius. Rays perturbed below the surface are absorbed.
func (m *Material) scatterMetal(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)

	if m.fuzz > 0 {
		perturbation := core.RandomInUnitSphere(random).Multiply(m.fuzz)
		reflected = reflected.Add(perturbation)
	}

	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.albedo,
	}, true
}

// scatterDielectric reflects or refracts based on Snell's law and the
// Schlick reflectance. Clear glass never absorbs and never tints.
func (m *Material) scatterDielectric(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / m.refractiveIndex // entering the material
	} else {
		refractionRatio = m.refractiveIndex // exiting the material
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > random.Float64() {
		direction = reflect(unitDirection, hit.Normal)
	} else {
		direction = refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.NewVec3(1.0, 1.0, 1.0),
	}, true
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refract calculates the refraction of a unit vector using Snell's law,
// decomposed into perpendicular and parallel components
func refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	// R0 for normal incidence
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
