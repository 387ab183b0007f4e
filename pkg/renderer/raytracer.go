package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"

	"github.com/dmoren/go-sphere-tracer/pkg/core"
	"github.com/dmoren/go-sphere-tracer/pkg/geometry"
	"github.com/dmoren/go-sphere-tracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed for the per-render random stream
	DisableJitter   bool  // Pin samples to pixel centers (deterministic tests)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Scene interface to avoid circular imports with the scene package
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetWorld() *geometry.HittableList
	GetSamplingConfig() SamplingConfig
}

// DefaultLogger implements core.Logger by writing to stderr, keeping the
// progress signal separate from pixel data on stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a raytracer with the scene's sampling config and a
// path tracing integrator over the scene's sky colors
func NewRaytracer(scene Scene, width, height int, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	config := scene.GetSamplingConfig()
	topColor, bottomColor := scene.GetBackgroundColors()

	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		integrator: integrator.NewPathTracer(config.MaxDepth, topColor, bottomColor),
		logger:     logger,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
	if pt, ok := rt.integrator.(*integrator.PathTracer); ok {
		pt.MaxDepth = config.MaxDepth
	}
}

// SetIntegrator swaps the light transport algorithm
func (rt *Raytracer) SetIntegrator(in integrator.Integrator) {
	rt.integrator = in
}

// samplePixel averages the configured number of jittered camera rays for
// pixel (i, j), where j counts scan lines from the bottom
func (rt *Raytracer) samplePixel(i, j int, random *rand.Rand, ps *PixelStats) {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		var di, dj float64
		if rt.config.DisableJitter {
			di, dj = 0.5, 0.5
		} else {
			di, dj = random.Float64(), random.Float64()
		}

		// Normalized screen coordinates with per-sample jitter
		s := (float64(i) + di) / float64(rt.width)
		t := (float64(j) + dj) / float64(rt.height)

		ray := camera.GetRay(s, t, random)
		ps.AddSample(rt.integrator.RayColor(ray, world, random))
	}
}

// RenderPass renders the image single-threaded in strict row-major order
// from the top scan line, logging one progress line per scan line
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	random := rand.New(rand.NewSource(rt.config.Seed))

	stats := RenderStats{TotalPixels: rt.width * rt.height}

	for j := rt.height - 1; j >= 0; j-- {
		rt.logger.Printf("Scanlines remaining: %d\n", j+1)
		for i := 0; i < rt.width; i++ {
			var ps PixelStats
			rt.samplePixel(i, j, random, &ps)
			img.SetRGBA(i, rt.height-1-j, rt.vec3ToColor(ps.GetColor()))
			stats.TotalSamples += ps.SampleCount
		}
	}
	rt.logger.Printf("Done.\n")

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}

// RenderBounds renders the pixels within image-coordinate bounds into the
// shared pixel stats array. Bounds of concurrent calls must not overlap.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// Image y counts from the top; flip to scan-line coordinates
		j := rt.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			rt.samplePixel(x, j, random, ps)
			stats.TotalSamples += ps.SampleCount
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// vec3ToColor converts a Vec3 color to RGBA with gamma-2 correction and
// clamping to [0, 0.999] before 8-bit quantization
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
