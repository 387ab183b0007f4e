package scene

import (
	"math/rand"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
	"github.com/dmoren/go-sphere-tracer/pkg/material"
	"github.com/dmoren/go-sphere-tracer/pkg/renderer"
)

// NewCoverScene creates a field of small random spheres around three
// large ones. The layout is fully determined by the seed, so the same
// seed reproduces the same scene.
func NewCoverScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	random := rand.New(rand.NewSource(seed))

	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	world := geometry.NewHittableList()
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Grid of small spheres with randomized materials, skipping the area
	// occupied by the large spheres
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			world.Add(geometry.NewSphere(center, 0.2, randomMaterial(random)))
		}
	}

	world.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0,
			material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0,
			material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return &Scene{
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		World:        world,
		TopColor:     core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:  core.NewVec3(1.0, 1.0, 1.0),
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 100,
			MaxDepth:        50,
			Seed:            seed,
		},
	}
}

// randomMaterial picks a weighted random material: mostly diffuse, some
// metal, a little glass
func randomMaterial(random *rand.Rand) *material.Material {
	choice := random.Float64()
	switch {
	case choice < 0.8:
		// Diffuse with a squared color distribution favoring dark tones
		albedo := core.NewVec3(
			random.Float64()*random.Float64(),
			random.Float64()*random.Float64(),
			random.Float64()*random.Float64(),
		)
		return material.NewLambertian(albedo)
	case choice < 0.95:
		albedo := core.NewVec3(
			0.5+0.5*random.Float64(),
			0.5+0.5*random.Float64(),
			0.5+0.5*random.Float64(),
		)
		return material.NewMetal(albedo, 0.5*random.Float64())
	default:
		return material.NewDielectric(1.5)
	}
}
