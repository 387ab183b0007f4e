package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
)

func pinholeConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       100,
		AspectRatio: 1.0,
		VFov:        90.0,
		Aperture:    0.0,
	}
}

func TestCamera_CenterRayPointsAtLookAt(t *testing.T) {
	camera := NewCamera(pinholeConfig())
	random := rand.New(rand.NewSource(42))

	ray := camera.GetRay(0.5, 0.5, random)

	if !ray.Origin.Equals(core.NewVec3(0, 0, 0)) {
		t.Errorf("Pinhole ray should originate at the camera center, got %v", ray.Origin)
	}

	expected := core.NewVec3(0, 0, -1)
	if ray.Direction.Normalize().Subtract(expected).Length() > 1e-9 {
		t.Errorf("Center ray should point at look-at: expected %v, got %v",
			expected, ray.Direction.Normalize())
	}
}

func TestCamera_FieldOfView(t *testing.T) {
	// At 90 degrees vertical fov the viewport edge rays leave at 45
	// degrees from the view axis
	camera := NewCamera(pinholeConfig())
	random := rand.New(rand.NewSource(42))

	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"top right corner", 1, 1, core.NewVec3(1, 1, -1)},
		{"bottom left corner", 0, 0, core.NewVec3(-1, -1, -1)},
		{"top center", 0.5, 1, core.NewVec3(0, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, random)
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_PinholeIsDeterministic(t *testing.T) {
	camera := NewCamera(pinholeConfig())
	random := rand.New(rand.NewSource(42))

	first := camera.GetRay(0.3, 0.7, random)
	for i := 0; i < 10; i++ {
		ray := camera.GetRay(0.3, 0.7, random)
		if !ray.Origin.Equals(first.Origin) || !ray.Direction.Equals(first.Direction) {
			t.Fatal("Zero-aperture camera should not consume randomness")
		}
	}
}

func TestCamera_ApertureOffsetsOrigin(t *testing.T) {
	config := pinholeConfig()
	config.Aperture = 1.0
	config.FocusDistance = 2.0
	camera := NewCamera(config)
	random := rand.New(rand.NewSource(42))

	sawOffset := false
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, random)

		offset := ray.Origin.Subtract(core.NewVec3(0, 0, 0))
		if offset.Length() > 0.5+1e-9 {
			t.Fatalf("Lens offset %f exceeds lens radius", offset.Length())
		}
		if offset.Length() > 1e-12 {
			sawOffset = true
		}
	}
	if !sawOffset {
		t.Error("Expected lens sampling to offset the ray origin")
	}
}

func TestCamera_FocusPlaneIsSharp(t *testing.T) {
	// All lens samples for the same (s, t) converge at the focus plane
	config := pinholeConfig()
	config.Aperture = 0.8
	config.FocusDistance = 3.0
	camera := NewCamera(config)
	random := rand.New(rand.NewSource(42))

	first := camera.GetRay(0.25, 0.75, random)
	target := first.At(1.0)

	for i := 0; i < 50; i++ {
		ray := camera.GetRay(0.25, 0.75, random)
		if ray.At(1.0).Subtract(target).Length() > 1e-9 {
			t.Fatalf("Focus plane point should be independent of the lens sample: %v vs %v",
				ray.At(1.0), target)
		}
	}
}

func TestCamera_AutoFocusDistance(t *testing.T) {
	// FocusDistance 0 focuses on the look-at point
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, -5),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        60.0,
		Aperture:    0.5,
	}
	camera := NewCamera(config)
	random := rand.New(rand.NewSource(42))

	ray := camera.GetRay(0.5, 0.5, random)
	focusPoint := ray.At(1.0)

	expectedDistance := 10.0
	got := focusPoint.Subtract(config.Center).Length()
	if math.Abs(got-expectedDistance) > 1e-9 {
		t.Errorf("Expected focus plane at distance %f, got %f", expectedDistance, got)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
		Aperture:    0.1,
	}

	tests := []struct {
		name     string
		override CameraConfig
		check    func(CameraConfig) bool
	}{
		{
			name:     "empty override keeps base",
			override: CameraConfig{},
			check:    func(c CameraConfig) bool { return c == base },
		},
		{
			name:     "width override",
			override: CameraConfig{Width: 800},
			check:    func(c CameraConfig) bool { return c.Width == 800 && c.VFov == 40.0 },
		},
		{
			name:     "vfov and aperture override",
			override: CameraConfig{VFov: 20.0, Aperture: 0.02},
			check:    func(c CameraConfig) bool { return c.VFov == 20.0 && c.Aperture == 0.02 && c.Width == 400 },
		},
		{
			name:     "center override",
			override: CameraConfig{Center: core.NewVec3(1, 2, 3)},
			check:    func(c CameraConfig) bool { return c.Center.Equals(core.NewVec3(1, 2, 3)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeCameraConfig(base, tt.override)
			if !tt.check(merged) {
				t.Errorf("Merge produced unexpected config: %+v", merged)
			}
		})
	}
}
