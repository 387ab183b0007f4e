package scene

import (
	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
	"github.com/dmoren/go-sphere-tracer/pkg/renderer"
)

// Scene holds everything a render needs: the camera, the sphere list,
// the sky colors, and the sampling configuration. The scene is read-only
// once constructed and safe to share across render workers.
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList
	TopColor       core.Vec3
	BottomColor    core.Vec3
	SamplingConfig renderer.SamplingConfig
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient colors (top, bottom)
func (s *Scene) GetBackgroundColors() (core.Vec3, core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetWorld returns the intersectable scene contents
func (s *Scene) GetWorld() *geometry.HittableList {
	return s.World
}

// GetSamplingConfig returns the scene's sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// Height returns the image height implied by the camera width and aspect ratio
func (s *Scene) Height() int {
	return int(float64(s.CameraConfig.Width) / s.CameraConfig.AspectRatio)
}
